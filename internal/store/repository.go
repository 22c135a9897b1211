package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/safar/go-sql-notes/internal/database"
	"github.com/safar/go-sql-notes/internal/models"
)

// NoteRepository binds the note functions to a connection pool. Lookups
// report a missing row as (nil, nil).
type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, ownerID int64, in models.NoteInput) (int64, error) {
	return CreateNote(ctx, r.db, ownerID, in)
}

func (r *NoteRepository) GetByID(ctx context.Context, id, ownerID int64) (*models.Note, error) {
	return absentAsNil(GetNote(ctx, r.db, id, ownerID))
}

func (r *NoteRepository) GetByIDUnchecked(ctx context.Context, id int64) (*models.Note, error) {
	return absentAsNil(GetNoteUnchecked(ctx, r.db, id))
}

func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Note, error) {
	return ListNotesByOwner(ctx, r.db, ownerID)
}

func (r *NoteRepository) ListPage(ctx context.Context, ownerID int64, cursor string, limit int) (*CursorPage, error) {
	return ListNotesCursor(ctx, r.db, ownerID, cursor, limit)
}

func (r *NoteRepository) ListAll(ctx context.Context, page, pageSize int) ([]models.Note, int64, error) {
	return ListAllNotes(ctx, r.db, page, pageSize)
}

func (r *NoteRepository) ListOrders(ctx context.Context, page, pageSize int) ([]models.Note, int64, error) {
	return ListOrderNotes(ctx, r.db, page, pageSize)
}

func (r *NoteRepository) Update(ctx context.Context, id, ownerID int64, title, content string) (int64, error) {
	return UpdateNote(ctx, r.db, id, ownerID, title, content)
}

func (r *NoteRepository) Delete(ctx context.Context, id, ownerID int64) (int64, error) {
	return DeleteNote(ctx, r.db, id, ownerID)
}

func (r *NoteRepository) UpdateContentUnchecked(ctx context.Context, id int64, content string) (int64, error) {
	return UpdateNoteContentUnchecked(ctx, r.db, id, content)
}

func (r *NoteRepository) DeleteUnchecked(ctx context.Context, id int64) (int64, error) {
	return DeleteNoteUnchecked(ctx, r.db, id)
}

func absentAsNil(note *models.Note, err error) (*models.Note, error) {
	if errors.Is(err, database.ErrNoteNotFound) {
		return nil, nil
	}
	return note, err
}

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	product, err := GetProduct(ctx, r.db, id)
	if errors.Is(err, database.ErrProductNotFound) {
		return nil, nil
	}
	return product, err
}

func (r *ProductRepository) Create(ctx context.Context, createdBy int64, in ProductInput) (*models.Product, error) {
	return CreateProduct(ctx, r.db, createdBy, in)
}

func (r *ProductRepository) Update(ctx context.Context, id int64, version int, patch ProductPatch) (*models.Product, error) {
	return UpdateProductOptimistic(ctx, r.db, id, version, patch)
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	return DeleteProduct(ctx, r.db, id)
}

func (r *ProductRepository) ListActive(ctx context.Context) ([]models.Product, error) {
	return ListActiveProducts(ctx, r.db)
}

func (r *ProductRepository) List(ctx context.Context, page, pageSize int) (*OffsetPage, error) {
	return ListProducts(ctx, r.db, page, pageSize)
}

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Register(ctx context.Context, username, passwordHash string) (*models.User, error) {
	return RegisterUser(ctx, r.db, username, passwordHash)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return GetUserByUsername(ctx, r.db, username)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return GetUser(ctx, r.db, id)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return DeleteUser(ctx, r.db, id)
}

func (r *UserRepository) List(ctx context.Context, page, pageSize int) (*OffsetPage, error) {
	return ListUsers(ctx, r.db, page, pageSize)
}
