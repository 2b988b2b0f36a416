package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrProductNotFound is returned when a product id does not exist.
var ErrProductNotFound = errors.New("product not found")

// Product mirrors the catalogue columns this service reads.  Catalogue
// writes happen in the storefront service; the admin backend only reads.
type Product struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	PriceCents int64     `json:"price_cents"`
	Stock      int64     `json:"stock"`
	CreatedAt  time.Time `json:"created_at"`
}

type ProductRepo struct{ db *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

// Get fetches a product by id.
func (r *ProductRepo) Get(ctx context.Context, id uint64) (Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, category, price_cents, stock, created_at FROM products WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.Name, &p.Category, &p.PriceCents, &p.Stock, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

// Popular returns in-stock products ordered by lifetime units sold.  The
// visual-search stub uses this as its candidate pool.
func (r *ProductRepo) Popular(ctx context.Context, limit int) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.category, p.price_cents, p.stock, p.created_at
		 FROM products p
		 LEFT JOIN order_items oi ON oi.product_id = p.id
		 WHERE p.stock > 0
		 GROUP BY p.id, p.name, p.category, p.price_cents, p.stock, p.created_at
		 ORDER BY COALESCE(SUM(oi.quantity), 0) DESC, p.id ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.PriceCents, &p.Stock, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
