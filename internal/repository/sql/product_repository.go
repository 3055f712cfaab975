package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

const selectProducts = `SELECT id, name, description, price, available, category FROM products`

// filterColumns maps filter fields onto the products table columns.
var filterColumns = map[repository.QueryField]string{
	repository.NameField:      "name",
	repository.CategoryField:  "category",
	repository.AvailableField: "available",
	repository.PriceField:     "price",
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implements repository.ProductRepository on PostgreSQL.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Insert inserts a new product and sets its generated id.
func (r *ProductRepository) Insert(ctx context.Context, product *model.Product) error {
	query := `INSERT INTO products (name, description, price, available, category)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	var id int64
	err = stmt.QueryRowContext(ctx, product.Name, product.Description, product.Price, product.Available, product.Category).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	product.ID = id
	return nil
}

// Save updates every column of an existing product.
func (r *ProductRepository) Save(ctx context.Context, product *model.Product) error {
	if err := product.RequireID(); err != nil {
		return err
	}

	query := `UPDATE products
	          SET name = $1, description = $2, price = $3, available = $4, category = $5
	          WHERE id = $6`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, product.Name, product.Description, product.Price, product.Available, product.Category, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return expectAffected(result)
}

// Get retrieves a single product by id.
func (r *ProductRepository) Get(ctx context.Context, id int64) (*model.Product, error) {
	stmt, err := r.db.PrepareContext(ctx, selectProducts+` WHERE id = $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var product model.Product
	err = stmt.QueryRowContext(ctx, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price, &product.Available, &product.Category,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &product, nil
}

// List retrieves every product.
func (r *ProductRepository) List(ctx context.Context) ([]*model.Product, error) {
	return r.query(ctx, selectProducts+` ORDER BY id`)
}

// ListByFilter retrieves the products whose filter column equals the filter value.
func (r *ProductRepository) ListByFilter(ctx context.Context, filter repository.Filter) ([]*model.Product, error) {
	filter, err := filter.Resolve()
	if err != nil {
		return nil, err
	}
	column := filterColumns[filter.Field]
	return r.query(ctx, selectProducts+` WHERE `+column+` = $1 ORDER BY id`, filter.Value)
}

// Remove deletes a product by id.
func (r *ProductRepository) Remove(ctx context.Context, product *model.Product) error {
	if err := product.RequireID(); err != nil {
		return err
	}

	stmt, err := r.db.PrepareContext(ctx, `DELETE FROM products WHERE id = $1`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, product.ID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return expectAffected(result)
}

func (r *ProductRepository) query(ctx context.Context, query string, args ...any) ([]*model.Product, error) {
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*model.Product{}
	for rows.Next() {
		var product model.Product
		err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Available, &product.Category)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

func expectAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
