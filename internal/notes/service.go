// Package notes implements plain-note CRUD. Notes that hold an order can be
// read here but never rewritten or deleted through this path.
package notes

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/safar/go-sql-notes/internal/apperr"
	"github.com/safar/go-sql-notes/internal/models"
	"github.com/safar/go-sql-notes/internal/orders"
	"github.com/safar/go-sql-notes/internal/store"
)

// Store getters return (nil, nil) when the row is absent.
type Store interface {
	Create(ctx context.Context, ownerID int64, in models.NoteInput) (int64, error)
	GetByID(ctx context.Context, id, ownerID int64) (*models.Note, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Note, error)
	ListPage(ctx context.Context, ownerID int64, cursor string, limit int) (*store.CursorPage, error)
	ListAll(ctx context.Context, page, pageSize int) ([]models.Note, int64, error)
	Update(ctx context.Context, id, ownerID int64, title, content string) (int64, error)
	Delete(ctx context.Context, id, ownerID int64) (int64, error)
	DeleteUnchecked(ctx context.Context, id int64) (int64, error)
}

type Input struct {
	Title   string `json:"title" validate:"required,min=1,max=100"`
	Content string `json:"content" validate:"max=5000"`
}

type Service struct {
	store    Store
	validate *validator.Validate
}

func NewService(s Store) *Service {
	return &Service{store: s, validate: apperr.NewValidator()}
}

func (s *Service) check(in Input) error {
	if err := s.validate.Struct(in); err != nil {
		return apperr.FromValidator(err)
	}
	if orders.IsOrder(in.Content) {
		return apperr.Invalid("content must not be an order record; use the orders endpoint")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, ownerID int64, in Input) (*models.Note, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	id, err := s.store.Create(ctx, ownerID, models.NoteInput{Title: in.Title, Content: in.Content})
	if err != nil {
		return nil, apperr.Storage("create note", err)
	}

	note, err := s.store.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, apperr.Storage("get note", err)
	}
	if note == nil {
		return nil, apperr.ErrNotFound
	}
	return note, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID int64) (*models.Note, error) {
	note, err := s.store.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, apperr.Storage("get note", err)
	}
	if note == nil {
		return nil, apperr.ErrNotFound
	}
	return note, nil
}

// List returns every note of the owner, orders included, in id order.
func (s *Service) List(ctx context.Context, ownerID int64) ([]models.Note, error) {
	notes, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Storage("list notes", err)
	}
	return notes, nil
}

// ListPage returns the owner's notes newest first using an opaque cursor.
func (s *Service) ListPage(ctx context.Context, ownerID int64, cursor string, limit int) (*store.CursorPage, error) {
	_, limit = store.NormalizePage(1, limit)
	if _, err := store.DecodeCursor(cursor); err != nil {
		return nil, apperr.Invalid("cursor is invalid")
	}

	page, err := s.store.ListPage(ctx, ownerID, cursor, limit)
	if err != nil {
		return nil, apperr.Storage("list notes", err)
	}
	return page, nil
}

// guard refuses plain-note mutations of an owned note whose content is an order.
func (s *Service) guard(ctx context.Context, id, ownerID int64) error {
	note, err := s.store.GetByID(ctx, id, ownerID)
	if err != nil {
		return apperr.Storage("get note", err)
	}
	if note == nil {
		return apperr.ErrNotFound
	}
	if orders.IsOrder(note.Content) {
		return apperr.Forbidden("orders cannot be modified through the notes endpoint")
	}
	return nil
}

func (s *Service) Update(ctx context.Context, id, ownerID int64, in Input) (*models.Note, error) {
	if err := s.guard(ctx, id, ownerID); err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}

	affected, err := s.store.Update(ctx, id, ownerID, in.Title, in.Content)
	if err != nil {
		return nil, apperr.Storage("update note", err)
	}
	if affected == 0 {
		return nil, apperr.ErrNotFound
	}

	return s.Get(ctx, id, ownerID)
}

func (s *Service) Delete(ctx context.Context, id, ownerID int64) error {
	if err := s.guard(ctx, id, ownerID); err != nil {
		return err
	}

	affected, err := s.store.Delete(ctx, id, ownerID)
	if err != nil {
		return apperr.Storage("delete note", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *Service) AdminList(ctx context.Context, page, pageSize int) (*store.OffsetPage, error) {
	page, pageSize = store.NormalizePage(page, pageSize)

	notes, total, err := s.store.ListAll(ctx, page, pageSize)
	if err != nil {
		return nil, apperr.Storage("list notes", err)
	}
	return store.NewOffsetPage(notes, total, page, pageSize), nil
}

// AdminDelete removes any note, order or not.
func (s *Service) AdminDelete(ctx context.Context, id int64) error {
	affected, err := s.store.DeleteUnchecked(ctx, id)
	if err != nil {
		return apperr.Storage("delete note", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
