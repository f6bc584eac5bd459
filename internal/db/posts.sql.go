package db

import (
	"context"
	"database/sql"
)

const postColumns = `id, title, slug, description, image_url, created_at, is_published, views_count, is_active, owner_id`

func postFields(p *Post) []any {
	return []any{
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Description,
		&p.ImageUrl,
		&p.CreatedAt,
		&p.IsPublished,
		&p.ViewsCount,
		&p.IsActive,
		&p.OwnerID,
	}
}

const createPost = `-- name: CreatePost :one
INSERT INTO posts (title, slug, description, image_url, is_published, owner_id)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id`

type CreatePostParams struct {
	Title       string
	Slug        string
	Description string
	ImageUrl    sql.NullString
	IsPublished bool
	OwnerID     sql.NullInt64
}

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createPost,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.ImageUrl,
		arg.IsPublished,
		arg.OwnerID,
	).Scan(&id)
	if err != nil {
		return Post{}, err
	}
	return q.GetPost(ctx, id)
}

const getPost = `-- name: GetPost :one
SELECT ` + postColumns + ` FROM posts WHERE id = ?`

func (q *Queries) GetPost(ctx context.Context, id int64) (Post, error) {
	var i Post
	err := q.db.QueryRowContext(ctx, getPost, id).Scan(postFields(&i)...)
	return i, err
}

type ListPostsParams struct {
	Visibility Visibility
	Limit      int64
	Offset     int64
}

func (q *Queries) ListPosts(ctx context.Context, arg ListPostsParams) ([]Post, error) {
	where, args := arg.Visibility.where("")
	query := `-- name: ListPosts :many
SELECT ` + postColumns + ` FROM posts
WHERE ` + where + `
` + arg.Visibility.orderBy("") + `
LIMIT ? OFFSET ?`
	args = append(args, arg.Limit, arg.Offset)
	return q.queryPosts(ctx, query, args...)
}

func (q *Queries) CountPosts(ctx context.Context, v Visibility) (int64, error) {
	where, args := v.where("")
	var count int64
	err := q.db.QueryRowContext(ctx, `-- name: CountPosts :one
SELECT COUNT(*) FROM posts WHERE `+where, args...).Scan(&count)
	return count, err
}

func (q *Queries) queryPosts(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Post
	for rows.Next() {
		var i Post
		if err := rows.Scan(postFields(&i)...); err != nil {
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

const updatePost = `-- name: UpdatePost :exec
UPDATE posts
SET title = ?, slug = ?, description = ?, image_url = COALESCE(?, image_url), is_published = ?
WHERE id = ?`

type UpdatePostParams struct {
	Title       string
	Slug        string
	Description string
	ImageUrl    sql.NullString
	IsPublished bool
	ID          int64
}

func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) error {
	_, err := q.db.ExecContext(ctx, updatePost,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.ImageUrl,
		arg.IsPublished,
		arg.ID,
	)
	return err
}

const setPostPublished = `-- name: SetPostPublished :exec
UPDATE posts SET is_published = ? WHERE id = ?`

func (q *Queries) SetPostPublished(ctx context.Context, arg SetPublishedParams) error {
	_, err := q.db.ExecContext(ctx, setPostPublished, arg.IsPublished, arg.ID)
	return err
}

const incrementPostViews = `-- name: IncrementPostViews :one
UPDATE posts SET views_count = views_count + 1 WHERE id = ?
RETURNING views_count`

// IncrementPostViews soma 1 diretamente no banco; leituras concorrentes não perdem incrementos.
func (q *Queries) IncrementPostViews(ctx context.Context, id int64) (int64, error) {
	var views int64
	err := q.db.QueryRowContext(ctx, incrementPostViews, id).Scan(&views)
	return views, err
}

const deletePost = `-- name: DeletePost :exec
DELETE FROM posts WHERE id = ?`

func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePost, id)
	return err
}

const randomPublishedPosts = `-- name: RandomPublishedPosts :many
SELECT ` + postColumns + ` FROM posts
WHERE is_published = 1
ORDER BY RANDOM()
LIMIT ?`

func (q *Queries) RandomPublishedPosts(ctx context.Context, limit int64) ([]Post, error) {
	return q.queryPosts(ctx, randomPublishedPosts, limit)
}

const countPublishedPosts = `-- name: CountPublishedPosts :one
SELECT COUNT(*) FROM posts WHERE is_published = 1`

func (q *Queries) CountPublishedPosts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPublishedPosts).Scan(&count)
	return count, err
}
