package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/safar/go-sql-notes/internal/apperr"
	"github.com/safar/go-sql-notes/internal/events"
	"github.com/safar/go-sql-notes/internal/models"
	"github.com/safar/go-sql-notes/internal/store"
)

// ProductLookup returns (nil, nil) for an unknown product.
type ProductLookup interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// NoteStore is the part of note persistence orders are built on. Getters
// return (nil, nil) when the row is absent.
type NoteStore interface {
	Create(ctx context.Context, ownerID int64, in models.NoteInput) (int64, error)
	GetByID(ctx context.Context, id, ownerID int64) (*models.Note, error)
	GetByIDUnchecked(ctx context.Context, id int64) (*models.Note, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Note, error)
	ListOrders(ctx context.Context, page, pageSize int) ([]models.Note, int64, error)
	UpdateContentUnchecked(ctx context.Context, id int64, content string) (int64, error)
	DeleteUnchecked(ctx context.Context, id int64) (int64, error)
}

// LineInput is one client supplied order line. Only the product id and
// quantity are taken from the client.
type LineInput struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int   `json:"quantity" validate:"min=1"`
}

// Order is the read view of an order note.
type Order struct {
	OrderID int64  `json:"orderId"`
	Title   string `json:"title"`
	OwnerID int64  `json:"user_id"`
	Record
}

type StatusChange struct {
	OrderID   int64  `json:"orderId"`
	NewStatus Status `json:"newStatus"`
}

type createdEvent struct {
	OrderID     int64  `json:"order_id"`
	UserID      int64  `json:"user_id"`
	TotalAmount Money  `json:"total_amount"`
	Items       []Line `json:"items"`
}

type statusEvent struct {
	OrderID int64  `json:"order_id"`
	Status  Status `json:"status"`
}

type Service struct {
	products  ProductLookup
	notes     NoteStore
	publisher events.Publisher
	validate  *validator.Validate
	now       func() time.Time
}

func NewService(products ProductLookup, notes NoteStore, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		products:  products,
		notes:     notes,
		publisher: publisher,
		validate:  apperr.NewValidator(),
		now:       time.Now,
	}
}

// CreateOrder resolves every line against the catalog in input order and
// stores the order only once all of them resolved. The first missing or
// inactive product aborts with a ProductUnavailableError.
func (s *Service) CreateOrder(ctx context.Context, userID int64, lines []LineInput) (*Order, error) {
	if err := s.validateLines(lines); err != nil {
		return nil, err
	}

	resolved := make([]Line, 0, len(lines))
	for _, in := range lines {
		product, err := s.products.GetProductByID(ctx, in.ProductID)
		if err != nil {
			return nil, apperr.Storage("get product", err)
		}
		if product == nil || !product.IsActive {
			return nil, &apperr.ProductUnavailableError{ProductID: in.ProductID}
		}

		price := NewMoney(product.Price)
		resolved = append(resolved, Line{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     price,
			Quantity:  in.Quantity,
			LineTotal: LineTotal(price.Decimal, in.Quantity),
		})
	}

	total := SumLines(resolved)
	placedAt := s.now().UTC()

	content, err := Encode(resolved, total, placedAt)
	if err != nil {
		return nil, err
	}

	title := "Order placed on " + placedAt.Format(time.RFC3339)
	id, err := s.notes.Create(ctx, userID, models.NoteInput{
		Title:   title,
		Content: content,
		IsOrder: true,
	})
	if err != nil {
		return nil, apperr.Storage("create order", err)
	}

	s.publish(ctx, events.RKOrderCreated, createdEvent{
		OrderID:     id,
		UserID:      userID,
		TotalAmount: total,
		Items:       resolved,
	})

	return &Order{
		OrderID: id,
		Title:   title,
		OwnerID: userID,
		Record: Record{
			Items:       resolved,
			TotalAmount: total,
			Status:      StatusPending,
			OrderDate:   placedAt,
		},
	}, nil
}

func (s *Service) validateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return apperr.Invalid("order must contain at least one item")
	}

	var details []string
	for i, line := range lines {
		if err := s.validate.Struct(line); err != nil {
			for _, d := range apperr.FromValidator(err).Fields {
				details = append(details, fmt.Sprintf("items[%d].%s", i, d))
			}
		}
	}
	if len(details) > 0 {
		return apperr.Invalid(details...)
	}
	return nil
}

// GetOrderByID returns nil when the note is absent, owned by someone else,
// or does not hold an order.
func (s *Service) GetOrderByID(ctx context.Context, orderID, userID int64) (*Order, error) {
	note, err := s.notes.GetByID(ctx, orderID, userID)
	if err != nil {
		return nil, apperr.Storage("get order", err)
	}
	if note == nil {
		return nil, nil
	}
	return toOrder(note), nil
}

// GetAllOrders lists the user's orders in storage order. Notes that do not
// decode are skipped.
func (s *Service) GetAllOrders(ctx context.Context, userID int64) ([]Order, error) {
	notes, err := s.notes.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("list orders", err)
	}
	return decodeAll(notes), nil
}

// AdminUpdateOrderStatus moves any user's order to status. Only status and
// updated_at change in the stored record.
func (s *Service) AdminUpdateOrderStatus(ctx context.Context, orderID int64, rawStatus string) (*StatusChange, error) {
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	note, err := s.notes.GetByIDUnchecked(ctx, orderID)
	if err != nil {
		return nil, apperr.Storage("get order", err)
	}
	if note == nil {
		return nil, apperr.ErrNotFound
	}

	content, err := UpdateStatus(note.Content, status, s.now())
	if err != nil {
		return nil, err
	}

	affected, err := s.notes.UpdateContentUnchecked(ctx, orderID, content)
	if err != nil {
		return nil, apperr.Storage("update order status", err)
	}
	if affected == 0 {
		return nil, apperr.ErrNotFound
	}

	log.Info().Int64("order_id", orderID).Str("status", string(status)).Msg("order status updated")
	s.publish(ctx, events.RKOrderStatusUpdated, statusEvent{OrderID: orderID, Status: status})

	return &StatusChange{OrderID: orderID, NewStatus: status}, nil
}

func (s *Service) AdminGetOrderByID(ctx context.Context, orderID int64) (*Order, error) {
	note, err := s.notes.GetByIDUnchecked(ctx, orderID)
	if err != nil {
		return nil, apperr.Storage("get order", err)
	}
	if note == nil {
		return nil, nil
	}
	return toOrder(note), nil
}

// AdminListOrders pages through notes flagged as orders. Total counts flagged
// rows, so a page can hold fewer items if some of them no longer decode.
func (s *Service) AdminListOrders(ctx context.Context, page, pageSize int) (*store.OffsetPage, error) {
	page, pageSize = store.NormalizePage(page, pageSize)

	notes, total, err := s.notes.ListOrders(ctx, page, pageSize)
	if err != nil {
		return nil, apperr.Storage("list orders", err)
	}
	return store.NewOffsetPage(decodeAll(notes), total, page, pageSize), nil
}

func (s *Service) AdminDeleteOrder(ctx context.Context, orderID int64) error {
	note, err := s.notes.GetByIDUnchecked(ctx, orderID)
	if err != nil {
		return apperr.Storage("get order", err)
	}
	if note == nil {
		return apperr.ErrNotFound
	}
	if !IsOrder(note.Content) {
		return apperr.ErrNotAnOrder
	}

	affected, err := s.notes.DeleteUnchecked(ctx, orderID)
	if err != nil {
		return apperr.Storage("delete order", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *Service) publish(ctx context.Context, routingKey string, payload any) {
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		log.Warn().Err(err).Str("routing_key", routingKey).Msg("publish event failed")
	}
}

func toOrder(note *models.Note) *Order {
	record := Decode(note.Content)
	if record == nil {
		return nil
	}
	return &Order{
		OrderID: note.ID,
		Title:   note.Title,
		OwnerID: note.OwnerID,
		Record:  *record,
	}
}

func decodeAll(notes []models.Note) []Order {
	orders := []Order{}
	for i := range notes {
		order := toOrder(&notes[i])
		if order == nil {
			log.Debug().Int64("note_id", notes[i].ID).Msg("skipping note that is not an order")
			continue
		}
		orders = append(orders, *order)
	}
	return orders
}
