package db

import "context"

const versionColumns = `id, product_id, version_number, version_name, is_current`

const listVersions = `-- name: ListVersions :many
SELECT ` + versionColumns + ` FROM versions WHERE product_id = ? ORDER BY version_number ASC, id ASC`

func (q *Queries) ListVersions(ctx context.Context, productID int64) ([]Version, error) {
	rows, err := q.db.QueryContext(ctx, listVersions, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Version
	for rows.Next() {
		var i Version
		if err := rows.Scan(&i.ID, &i.ProductID, &i.VersionNumber, &i.VersionName, &i.IsCurrent); err != nil {
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

const getVersion = `-- name: GetVersion :one
SELECT ` + versionColumns + ` FROM versions WHERE id = ?`

func (q *Queries) GetVersion(ctx context.Context, id int64) (Version, error) {
	var i Version
	err := q.db.QueryRowContext(ctx, getVersion, id).Scan(&i.ID, &i.ProductID, &i.VersionNumber, &i.VersionName, &i.IsCurrent)
	return i, err
}

const createVersion = `-- name: CreateVersion :one
INSERT INTO versions (product_id, version_number, version_name, is_current)
VALUES (?, ?, ?, ?)
RETURNING ` + versionColumns

type CreateVersionParams struct {
	ProductID     int64
	VersionNumber int64
	VersionName   string
	IsCurrent     bool
}

func (q *Queries) CreateVersion(ctx context.Context, arg CreateVersionParams) (Version, error) {
	var i Version
	err := q.db.QueryRowContext(ctx, createVersion, arg.ProductID, arg.VersionNumber, arg.VersionName, arg.IsCurrent).
		Scan(&i.ID, &i.ProductID, &i.VersionNumber, &i.VersionName, &i.IsCurrent)
	return i, err
}

const updateVersion = `-- name: UpdateVersion :exec
UPDATE versions SET version_number = ?, version_name = ?, is_current = ?
WHERE id = ? AND product_id = ?`

type UpdateVersionParams struct {
	VersionNumber int64
	VersionName   string
	IsCurrent     bool
	ID            int64
	ProductID     int64
}

func (q *Queries) UpdateVersion(ctx context.Context, arg UpdateVersionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateVersion, arg.VersionNumber, arg.VersionName, arg.IsCurrent, arg.ID, arg.ProductID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const clearSiblingCurrent = `-- name: ClearSiblingCurrent :exec
UPDATE versions SET is_current = 0
WHERE product_id = ? AND id <> ? AND is_current = 1`

type ClearSiblingCurrentParams struct {
	ProductID int64
	KeepID    int64
}

// ClearSiblingCurrent desmarca is_current nas outras versões do mesmo produto.
// Deve rodar na mesma transação que marcou KeepID.
func (q *Queries) ClearSiblingCurrent(ctx context.Context, arg ClearSiblingCurrentParams) error {
	_, err := q.db.ExecContext(ctx, clearSiblingCurrent, arg.ProductID, arg.KeepID)
	return err
}

const deleteVersion = `-- name: DeleteVersion :exec
DELETE FROM versions WHERE id = ? AND product_id = ?`

func (q *Queries) DeleteVersion(ctx context.Context, id, productID int64) error {
	_, err := q.db.ExecContext(ctx, deleteVersion, id, productID)
	return err
}
