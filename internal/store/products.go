package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/go-sql-notes/internal/database"
	"github.com/safar/go-sql-notes/internal/models"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, description, price, category, is_active, created_by_id, created_at, updated_at, version`

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	IsActive    bool
}

// ProductPatch carries a partial update; nil fields keep their stored value.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	IsActive    *bool
}

func scanProduct(row interface{ Scan(...any) error }, product *models.Product) error {
	var createdBy sql.NullInt64
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Category,
		&product.IsActive,
		&createdBy,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Version,
	)
	if err != nil {
		return err
	}
	if createdBy.Valid {
		product.CreatedByID = &createdBy.Int64
	}
	return nil
}

func CreateProduct(ctx context.Context, db *sql.DB, createdBy int64, in ProductInput) (*models.Product, error) {
	product := &models.Product{}

	query := `
		INSERT INTO products (name, description, price, category, is_active, created_by_id, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW(), 1)
		RETURNING ` + productColumns

	row := db.QueryRowContext(ctx, query,
		in.Name, in.Description, in.Price, in.Category, in.IsActive, createdBy)
	if err := scanProduct(row, product); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, database.ErrProductNameTaken
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func GetProduct(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	product := &models.Product{}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	if err := scanProduct(db.QueryRowContext(ctx, query, id), product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

// UpdateProductOptimistic applies patch only if the stored version still
// matches version, bumping it on success.
func UpdateProductOptimistic(ctx context.Context, db *sql.DB, id int64, version int, patch ProductPatch) (*models.Product, error) {
	product := &models.Product{}

	query := `
		UPDATE products
		SET name        = COALESCE($1, name),
		    description = COALESCE($2, description),
		    price       = COALESCE($3, price),
		    category    = COALESCE($4, category),
		    is_active   = COALESCE($5, is_active),
		    version     = version + 1,
		    updated_at  = NOW()
		WHERE id = $6 AND version = $7
		RETURNING ` + productColumns

	row := db.QueryRowContext(ctx, query,
		patch.Name, patch.Description, patch.Price, patch.Category, patch.IsActive, id, version)
	err := scanProduct(row, product)
	if err == nil {
		return product, nil
	}
	if database.IsUniqueViolation(err) {
		return nil, database.ErrProductNameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update product: %w", err)
	}

	var exists bool
	if err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check product exists: %w", err)
	}
	if !exists {
		return nil, database.ErrProductNotFound
	}
	return nil, database.ErrOptimisticLockFailed
}

func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return database.ErrProductNotFound
	}

	return nil
}

func ListActiveProducts(ctx context.Context, db *sql.DB) ([]models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active
		ORDER BY name ASC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func ListProducts(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	return NewOffsetPage(products, total, page, pageSize), nil
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}
