package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safar/go-sql-notes/internal/apperr"
	"github.com/safar/go-sql-notes/internal/database"
	"github.com/safar/go-sql-notes/internal/models"
	"github.com/safar/go-sql-notes/internal/store"
)

type memProducts struct {
	products map[int64]*models.Product
	gets     int
	nextID   int64
}

func newMemProducts() *memProducts {
	return &memProducts{products: map[int64]*models.Product{}, nextID: 1}
}

func (m *memProducts) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	m.gets++
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *memProducts) Create(_ context.Context, createdBy int64, in store.ProductInput) (*models.Product, error) {
	for _, p := range m.products {
		if p.Name == in.Name {
			return nil, database.ErrProductNameTaken
		}
	}
	p := &models.Product{
		ID:          m.nextID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		IsActive:    in.IsActive,
		CreatedByID: &createdBy,
		Version:     1,
	}
	m.products[p.ID] = p
	m.nextID++
	copied := *p
	return &copied, nil
}

func (m *memProducts) Update(_ context.Context, id int64, version int, patch store.ProductPatch) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, database.ErrProductNotFound
	}
	if p.Version != version {
		return nil, database.ErrOptimisticLockFailed
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	p.Version++
	copied := *p
	return &copied, nil
}

func (m *memProducts) Delete(_ context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return database.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memProducts) ListActive(_ context.Context) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range m.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) List(_ context.Context, page, pageSize int) (*store.OffsetPage, error) {
	out, _ := m.ListActive(context.Background())
	return store.NewOffsetPage(out, int64(len(out)), page, pageSize), nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGetProductByIDCaches(t *testing.T) {
	mem := newMemProducts()
	svc := NewService(mem, 16, time.Minute)

	created, err := svc.Create(context.Background(), 1, CreateInput{Name: "Latte", Price: price("15.00")})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	for i := 0; i < 3; i++ {
		p, err := svc.GetProductByID(context.Background(), created.ID)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Latte", p.Name)
	}
	assert.Equal(t, 1, mem.gets)
}

func TestGetProductByIDMissIsNotCached(t *testing.T) {
	mem := newMemProducts()
	svc := NewService(mem, 16, time.Minute)

	p, err := svc.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = svc.Create(context.Background(), 1, CreateInput{Name: "Cookie", Price: price("3.00")})
	require.NoError(t, err)

	p, err = svc.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 2, mem.gets)
}

func TestUpdateInvalidatesCache(t *testing.T) {
	mem := newMemProducts()
	svc := NewService(mem, 16, time.Minute)

	created, err := svc.Create(context.Background(), 1, CreateInput{Name: "Latte", Price: price("15.00")})
	require.NoError(t, err)
	_, err = svc.GetProductByID(context.Background(), created.ID)
	require.NoError(t, err)

	inactive := false
	newPrice := price("16.50")
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Version: 1, Price: &newPrice, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	p, err := svc.GetProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, p.IsActive)
	assert.True(t, p.Price.Equal(price("16.50")))
}

func TestDeleteInvalidatesCache(t *testing.T) {
	mem := newMemProducts()
	svc := NewService(mem, 16, time.Minute)

	created, err := svc.Create(context.Background(), 1, CreateInput{Name: "Latte", Price: price("15.00")})
	require.NoError(t, err)
	_, err = svc.GetProductByID(context.Background(), created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	p, err := svc.GetProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, p)

	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), apperr.ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemProducts(), 16, time.Minute)

	_, err := svc.Create(context.Background(), 1, CreateInput{Name: "ab", Price: price("1")})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"name must be at least 3"}, verr.Fields)

	_, err = svc.Create(context.Background(), 1, CreateInput{Name: "Freebie", Price: price("0")})
	require.ErrorAs(t, err, &verr)
}

func TestConflicts(t *testing.T) {
	svc := NewService(newMemProducts(), 16, time.Minute)

	created, err := svc.Create(context.Background(), 1, CreateInput{Name: "Latte", Price: price("15.00")})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 1, CreateInput{Name: "Latte", Price: price("14.00")})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	name := "Flat White"
	_, err = svc.Update(context.Background(), created.ID, UpdateInput{Version: 5, Name: &name})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.Update(context.Background(), 999, UpdateInput{Version: 1, Name: &name})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

type failingStore struct{ memProducts }

func (failingStore) ListActive(context.Context) ([]models.Product, error) {
	return nil, errors.New("connection refused")
}

func TestListActiveStorageError(t *testing.T) {
	svc := NewService(&failingStore{}, 16, time.Minute)

	_, err := svc.ListActive(context.Background())
	var storageErr *apperr.StorageError
	assert.ErrorAs(t, err, &storageErr)
}
