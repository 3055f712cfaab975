// Package orm stores products through gorm. It backs the sqlite mode used
// for local development and end-to-end tests.
package orm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// productRow is the gorm mapping of the products table. The price is kept
// as fixed two-decimal text since sqlite stores NUMERIC values as REAL.
type productRow struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:100;not null;index"`
	Description string `gorm:"size:250;not null"`
	Price       string `gorm:"type:varchar(20);not null"`
	Available   bool   `gorm:"not null"`
	Category    string `gorm:"size:20;not null;index"`
}

func (productRow) TableName() string {
	return "products"
}

func toRow(p *model.Product) productRow {
	return productRow{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       model.FormatPrice(p.Price),
		Available:   p.Available,
		Category:    p.Category.String(),
	}
}

func (r productRow) toProduct() (*model.Product, error) {
	category, ok := model.ParseCategory(r.Category)
	if !ok {
		return nil, fmt.Errorf("product %d has unknown category %q", r.ID, r.Category)
	}
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return nil, fmt.Errorf("product %d has invalid price %q: %w", r.ID, r.Price, err)
	}
	return &model.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		Available:   r.Available,
		Category:    category,
	}, nil
}

// OpenSQLite opens (or creates) the sqlite database at path and migrates
// the products table. Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite handle: %w", err)
	}
	// sqlite serializes writers, and every ":memory:" connection is a separate database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&productRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate products table: %w", err)
	}
	return db, nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implements repository.ProductRepository with gorm.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Insert(ctx context.Context, product *model.Product) error {
	row := toRow(product)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		slog.Error("error creating product", slog.Any("err", err))
		return fmt.Errorf("failed to insert product: %w", err)
	}
	product.ID = row.ID
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (*model.Product, error) {
	var row productRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		slog.Error("error finding a product", slog.Any("err", err))
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return row.toProduct()
}

func (r *ProductRepository) List(ctx context.Context) ([]*model.Product, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *ProductRepository) ListByFilter(ctx context.Context, filter repository.Filter) ([]*model.Product, error) {
	filter, err := filter.Resolve()
	if err != nil {
		return nil, err
	}
	value := filter.Value
	switch v := value.(type) {
	case model.Category:
		value = v.String()
	case decimal.Decimal:
		// no stored price has more than two decimals
		if model.CheckPrice(v) != nil {
			return []*model.Product{}, nil
		}
		value = model.FormatPrice(v)
	}
	return r.find(r.db.WithContext(ctx).Where(string(filter.Field)+" = ?", value))
}

func (r *ProductRepository) Save(ctx context.Context, product *model.Product) error {
	if err := product.RequireID(); err != nil {
		return err
	}

	row := toRow(product)
	result := r.db.WithContext(ctx).
		Model(&productRow{}).
		Where("id = ?", product.ID).
		Select("name", "description", "price", "available", "category").
		Updates(&row)
	if result.Error != nil {
		slog.Error("error updating product", slog.Any("err", result.Error))
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Remove(ctx context.Context, product *model.Product) error {
	if err := product.RequireID(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&productRow{}, product.ID)
	if result.Error != nil {
		slog.Error("error deleting product", slog.Any("err", result.Error))
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) find(query *gorm.DB) ([]*model.Product, error) {
	var rows []productRow
	if err := query.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*model.Product, 0, len(rows))
	for _, row := range rows {
		product, err := row.toProduct()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}
