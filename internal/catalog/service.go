// Package catalog serves products: a cached lookup for order resolution and
// the admin CRUD that keeps that cache honest.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"

	"github.com/safar/go-sql-notes/internal/apperr"
	"github.com/safar/go-sql-notes/internal/database"
	"github.com/safar/go-sql-notes/internal/models"
	"github.com/safar/go-sql-notes/internal/store"
)

// Store is product persistence. GetProductByID returns (nil, nil) for an
// unknown id.
type Store interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, createdBy int64, in store.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id int64, version int, patch store.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
	ListActive(ctx context.Context) ([]models.Product, error)
	List(ctx context.Context, page, pageSize int) (*store.OffsetPage, error)
}

var minPrice = decimal.New(1, -2)

type CreateInput struct {
	Name        string          `json:"name" validate:"required,min=3,max=255"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"max=100"`
	IsActive    *bool           `json:"is_active"`
}

// UpdateInput is a partial update guarded by the version the client last read.
type UpdateInput struct {
	Version     int              `json:"version" validate:"min=1"`
	Name        *string          `json:"name" validate:"omitempty,min=3,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	IsActive    *bool            `json:"is_active"`
}

type Service struct {
	store    Store
	cache    *expirable.LRU[int64, models.Product]
	validate *validator.Validate
}

func NewService(s Store, cacheSize int, cacheTTL time.Duration) *Service {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	return &Service{
		store:    s,
		cache:    expirable.NewLRU[int64, models.Product](cacheSize, nil, cacheTTL),
		validate: apperr.NewValidator(),
	}
}

// GetProductByID reads through the cache. Misses are not cached so a product
// created a moment ago is visible to the next order.
func (s *Service) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	if cached, ok := s.cache.Get(id); ok {
		product := cached
		return &product, nil
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	s.cache.Add(id, *product)
	return product, nil
}

func (s *Service) ListActive(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, apperr.Storage("list products", err)
	}
	return products, nil
}

func (s *Service) List(ctx context.Context, page, pageSize int) (*store.OffsetPage, error) {
	page, pageSize = store.NormalizePage(page, pageSize)

	result, err := s.store.List(ctx, page, pageSize)
	if err != nil {
		return nil, apperr.Storage("list products", err)
	}
	return result, nil
}

func (s *Service) Create(ctx context.Context, adminID int64, in CreateInput) (*models.Product, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.FromValidator(err)
	}
	if in.Price.LessThan(minPrice) {
		return nil, apperr.Invalid("price must be at least 0.01")
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	product, err := s.store.Create(ctx, adminID, store.ProductInput{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Category:    in.Category,
		IsActive:    active,
	})
	if err != nil {
		return nil, translate("create product", err)
	}
	return product, nil
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*models.Product, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.FromValidator(err)
	}
	patch := store.ProductPatch{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		IsActive:    in.IsActive,
	}
	if in.Price != nil {
		if in.Price.LessThan(minPrice) {
			return nil, apperr.Invalid("price must be at least 0.01")
		}
		rounded := in.Price.Round(2)
		patch.Price = &rounded
	}

	s.cache.Remove(id)
	product, err := s.store.Update(ctx, id, in.Version, patch)
	if err != nil {
		return nil, translate("update product", err)
	}
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	s.cache.Remove(id)
	if err := s.store.Delete(ctx, id); err != nil {
		return translate("delete product", err)
	}
	return nil
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, database.ErrProductNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, database.ErrProductNameTaken):
		return apperr.Conflict("product name already taken")
	case errors.Is(err, database.ErrOptimisticLockFailed):
		return apperr.Conflict("product was modified by someone else; reload and retry")
	default:
		return apperr.Storage(op, err)
	}
}
