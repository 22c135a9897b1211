package handlers

import (
	"context"

	"github.com/safar/go-sql-notes/internal/catalog"
	"github.com/safar/go-sql-notes/internal/models"
	"github.com/safar/go-sql-notes/internal/notes"
	"github.com/safar/go-sql-notes/internal/orders"
	"github.com/safar/go-sql-notes/internal/store"
	"github.com/safar/go-sql-notes/internal/users"
)

// The handler interfaces below are satisfied by the services of the same
// name and let handler tests run against stubs.

type OrderService interface {
	CreateOrder(ctx context.Context, userID int64, lines []orders.LineInput) (*orders.Order, error)
	GetOrderByID(ctx context.Context, orderID, userID int64) (*orders.Order, error)
	GetAllOrders(ctx context.Context, userID int64) ([]orders.Order, error)
	AdminUpdateOrderStatus(ctx context.Context, orderID int64, status string) (*orders.StatusChange, error)
	AdminListOrders(ctx context.Context, page, pageSize int) (*store.OffsetPage, error)
	AdminGetOrderByID(ctx context.Context, orderID int64) (*orders.Order, error)
	AdminDeleteOrder(ctx context.Context, orderID int64) error
}

type NoteService interface {
	Create(ctx context.Context, ownerID int64, in notes.Input) (*models.Note, error)
	Get(ctx context.Context, id, ownerID int64) (*models.Note, error)
	List(ctx context.Context, ownerID int64) ([]models.Note, error)
	ListPage(ctx context.Context, ownerID int64, cursor string, limit int) (*store.CursorPage, error)
	Update(ctx context.Context, id, ownerID int64, in notes.Input) (*models.Note, error)
	Delete(ctx context.Context, id, ownerID int64) error
	AdminList(ctx context.Context, page, pageSize int) (*store.OffsetPage, error)
	AdminDelete(ctx context.Context, id int64) error
}

type ProductService interface {
	ListActive(ctx context.Context) ([]models.Product, error)
	List(ctx context.Context, page, pageSize int) (*store.OffsetPage, error)
	Create(ctx context.Context, adminID int64, in catalog.CreateInput) (*models.Product, error)
	Update(ctx context.Context, id int64, in catalog.UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type UserService interface {
	Register(ctx context.Context, in users.Credentials) (*models.User, error)
	Login(ctx context.Context, in users.Credentials) (*users.Session, error)
	Me(ctx context.Context, id int64) (*models.User, error)
	DeleteAccount(ctx context.Context, id int64, role string) error
	AdminList(ctx context.Context, page, pageSize int) (*store.OffsetPage, error)
	AdminDelete(ctx context.Context, adminID, id int64) error
}
