package db

import (
	"context"
	"database/sql"
)

const userColumns = `id, email, password_hash, phone, country, avatar_url, is_active, is_staff, is_superuser, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Phone,
		&u.Country,
		&u.AvatarUrl,
		&u.IsActive,
		&u.IsStaff,
		&u.IsSuperuser,
		&u.CreatedAt,
	)
	return u, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (email, password_hash, is_active, is_staff, is_superuser)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

type CreateUserParams struct {
	Email        string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createUser,
		arg.Email,
		arg.PasswordHash,
		arg.IsActive,
		arg.IsStaff,
		arg.IsSuperuser,
	).Scan(&id)
	if err != nil {
		return User{}, err
	}
	return q.GetUserByID(ctx, id)
}

const getUserByID = `-- name: GetUserByID :one
SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT ` + userColumns + ` FROM users WHERE email = ?`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const listUsers = `-- name: ListUsers :many
SELECT ` + userColumns + ` FROM users
WHERE (? = 1 OR is_staff = 0)
ORDER BY id ASC`

// ListUsers devolve todos os usuários ou, com includeStaff = false, apenas os que não são staff.
func (q *Queries) ListUsers(ctx context.Context, includeStaff bool) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers, includeStaff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const activateUser = `-- name: ActivateUser :exec
UPDATE users SET is_active = 1 WHERE id = ?`

func (q *Queries) ActivateUser(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, activateUser, id)
	return err
}

const toggleUserActive = `-- name: ToggleUserActive :one
UPDATE users SET is_active = NOT is_active WHERE id = ?
RETURNING is_active`

func (q *Queries) ToggleUserActive(ctx context.Context, id int64) (bool, error) {
	var active bool
	err := q.db.QueryRowContext(ctx, toggleUserActive, id).Scan(&active)
	return active, err
}

const updateUserPassword = `-- name: UpdateUserPassword :exec
UPDATE users SET password_hash = ? WHERE id = ?`

type UpdateUserPasswordParams struct {
	PasswordHash string
	ID           int64
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, arg.PasswordHash, arg.ID)
	return err
}

const updateUserProfile = `-- name: UpdateUserProfile :exec
UPDATE users SET phone = ?, country = ?, avatar_url = COALESCE(?, avatar_url) WHERE id = ?`

type UpdateUserProfileParams struct {
	Phone     sql.NullString
	Country   sql.NullString
	AvatarUrl sql.NullString
	ID        int64
}

func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) error {
	_, err := q.db.ExecContext(ctx, updateUserProfile, arg.Phone, arg.Country, arg.AvatarUrl, arg.ID)
	return err
}

const addUserToGroup = `-- name: AddUserToGroup :exec
INSERT OR IGNORE INTO user_groups (user_id, group_name) VALUES (?, ?)`

type AddUserToGroupParams struct {
	UserID    int64
	GroupName string
}

func (q *Queries) AddUserToGroup(ctx context.Context, arg AddUserToGroupParams) error {
	_, err := q.db.ExecContext(ctx, addUserToGroup, arg.UserID, arg.GroupName)
	return err
}

const listUserGroups = `-- name: ListUserGroups :many
SELECT group_name FROM user_groups WHERE user_id = ? ORDER BY group_name`

func (q *Queries) ListUserGroups(ctx context.Context, userID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listUserGroups, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertGroupPermission = `-- name: UpsertGroupPermission :exec
INSERT OR IGNORE INTO group_permissions (group_name, permission) VALUES (?, ?)`

func (q *Queries) UpsertGroupPermission(ctx context.Context, arg GroupPermission) error {
	_, err := q.db.ExecContext(ctx, upsertGroupPermission, arg.GroupName, arg.Permission)
	return err
}

const listGroupPermissions = `-- name: ListGroupPermissions :many
SELECT group_name, permission FROM group_permissions ORDER BY group_name, permission`

func (q *Queries) ListGroupPermissions(ctx context.Context) ([]GroupPermission, error) {
	rows, err := q.db.QueryContext(ctx, listGroupPermissions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GroupPermission
	for rows.Next() {
		var i GroupPermission
		if err := rows.Scan(&i.GroupName, &i.Permission); err != nil {
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
