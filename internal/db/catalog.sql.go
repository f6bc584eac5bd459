package db

import (
	"context"
	"database/sql"
)

const listCategories = `-- name: ListCategories :many
SELECT id, name, description FROM categories ORDER BY name`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var i Category
		if err := rows.Scan(&i.ID, &i.Name, &i.Description); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCategory = `-- name: GetCategory :one
SELECT id, name, description FROM categories WHERE id = ?`

func (q *Queries) GetCategory(ctx context.Context, id int64) (Category, error) {
	var i Category
	err := q.db.QueryRowContext(ctx, getCategory, id).Scan(&i.ID, &i.Name, &i.Description)
	return i, err
}

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (name, description) VALUES (?, ?)
RETURNING id, name, description`

type CreateCategoryParams struct {
	Name        string
	Description sql.NullString
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	var i Category
	err := q.db.QueryRowContext(ctx, createCategory, arg.Name, arg.Description).Scan(&i.ID, &i.Name, &i.Description)
	return i, err
}

const productColumns = `p.id, p.name, p.slug, p.description, p.image_url, p.category_id, p.price_cents, p.is_published, p.owner_id, p.created_at, p.updated_at`

func productFields(p *Product) []any {
	return []any{
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.ImageUrl,
		&p.CategoryID,
		&p.PriceCents,
		&p.IsPublished,
		&p.OwnerID,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

const createProduct = `-- name: CreateProduct :one
INSERT INTO products (name, slug, description, image_url, category_id, price_cents, is_published, owner_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`

type CreateProductParams struct {
	Name        string
	Slug        string
	Description string
	ImageUrl    sql.NullString
	CategoryID  int64
	PriceCents  int64
	IsPublished bool
	OwnerID     sql.NullInt64
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createProduct,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.ImageUrl,
		arg.CategoryID,
		arg.PriceCents,
		arg.IsPublished,
		arg.OwnerID,
	).Scan(&id)
	if err != nil {
		return Product{}, err
	}
	row, err := q.GetProduct(ctx, id)
	return row.Product, err
}

const getProduct = `-- name: GetProduct :one
SELECT ` + productColumns + `, v.version_number, v.version_name
FROM products p
LEFT JOIN versions v ON v.product_id = p.id AND v.is_current = 1
WHERE p.id = ?`

func (q *Queries) GetProduct(ctx context.Context, id int64) (ProductRow, error) {
	var i ProductRow
	dest := append(productFields(&i.Product), &i.CurrentVersionNumber, &i.CurrentVersionName)
	err := q.db.QueryRowContext(ctx, getProduct, id).Scan(dest...)
	return i, err
}

type ListProductsParams struct {
	Visibility Visibility
	Limit      int64
	Offset     int64
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]ProductRow, error) {
	where, args := arg.Visibility.where("p")
	query := `-- name: ListProducts :many
SELECT ` + productColumns + `, v.version_number, v.version_name
FROM products p
LEFT JOIN versions v ON v.product_id = p.id AND v.is_current = 1
WHERE ` + where + `
` + arg.Visibility.orderBy("p") + `
LIMIT ? OFFSET ?`
	args = append(args, arg.Limit, arg.Offset)
	return q.queryProductRows(ctx, query, args...)
}

func (q *Queries) CountProducts(ctx context.Context, v Visibility) (int64, error) {
	where, args := v.where("p")
	var count int64
	err := q.db.QueryRowContext(ctx, `-- name: CountProducts :one
SELECT COUNT(*) FROM products p WHERE `+where, args...).Scan(&count)
	return count, err
}

const listProductsByOwner = `-- name: ListProductsByOwner :many
SELECT ` + productColumns + `, v.version_number, v.version_name
FROM products p
LEFT JOIN versions v ON v.product_id = p.id AND v.is_current = 1
WHERE p.owner_id = ?
ORDER BY p.id ASC`

func (q *Queries) ListProductsByOwner(ctx context.Context, ownerID int64) ([]ProductRow, error) {
	return q.queryProductRows(ctx, listProductsByOwner, ownerID)
}

func (q *Queries) queryProductRows(ctx context.Context, query string, args ...any) ([]ProductRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ProductRow
	for rows.Next() {
		var i ProductRow
		dest := append(productFields(&i.Product), &i.CurrentVersionNumber, &i.CurrentVersionName)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateProduct = `-- name: UpdateProduct :exec
UPDATE products
SET name = ?, slug = ?, description = ?, image_url = COALESCE(?, image_url),
    category_id = ?, price_cents = ?, is_published = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`

type UpdateProductParams struct {
	Name        string
	Slug        string
	Description string
	ImageUrl    sql.NullString
	CategoryID  int64
	PriceCents  int64
	IsPublished bool
	ID          int64
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) error {
	_, err := q.db.ExecContext(ctx, updateProduct,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.ImageUrl,
		arg.CategoryID,
		arg.PriceCents,
		arg.IsPublished,
		arg.ID,
	)
	return err
}

const moderateProduct = `-- name: ModerateProduct :exec
UPDATE products
SET description = ?, category_id = ?, is_published = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`

type ModerateProductParams struct {
	Description string
	CategoryID  int64
	IsPublished bool
	ID          int64
}

func (q *Queries) ModerateProduct(ctx context.Context, arg ModerateProductParams) error {
	_, err := q.db.ExecContext(ctx, moderateProduct, arg.Description, arg.CategoryID, arg.IsPublished, arg.ID)
	return err
}

const setProductPublished = `-- name: SetProductPublished :exec
UPDATE products SET is_published = ? WHERE id = ?`

type SetPublishedParams struct {
	IsPublished bool
	ID          int64
}

// SetProductPublished grava somente a coluna is_published.
func (q *Queries) SetProductPublished(ctx context.Context, arg SetPublishedParams) error {
	_, err := q.db.ExecContext(ctx, setProductPublished, arg.IsPublished, arg.ID)
	return err
}

const deleteProduct = `-- name: DeleteProduct :exec
DELETE FROM products WHERE id = ?`

func (q *Queries) DeleteProduct(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteProduct, id)
	return err
}

const randomPublishedProducts = `-- name: RandomPublishedProducts :many
SELECT ` + productColumns + `, NULL, NULL
FROM products p
WHERE p.is_published = 1
ORDER BY RANDOM()
LIMIT ?`

func (q *Queries) RandomPublishedProducts(ctx context.Context, limit int64) ([]ProductRow, error) {
	return q.queryProductRows(ctx, randomPublishedProducts, limit)
}

const countPublishedProducts = `-- name: CountPublishedProducts :one
SELECT COUNT(*) FROM products WHERE is_published = 1`

func (q *Queries) CountPublishedProducts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPublishedProducts).Scan(&count)
	return count, err
}
