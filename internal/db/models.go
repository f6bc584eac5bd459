package db

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Phone        sql.NullString
	Country      sql.NullString
	AvatarUrl    sql.NullString
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
}

type GroupPermission struct {
	GroupName  string
	Permission string
}

type Category struct {
	ID          int64
	Name        string
	Description sql.NullString
}

type Product struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	ImageUrl    sql.NullString
	CategoryID  int64
	PriceCents  int64
	IsPublished bool
	OwnerID     sql.NullInt64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductRow é um produto acompanhado da versão marcada como atual, se houver.
type ProductRow struct {
	Product
	CurrentVersionNumber sql.NullInt64
	CurrentVersionName   sql.NullString
}

type Version struct {
	ID            int64
	ProductID     int64
	VersionNumber int64
	VersionName   string
	IsCurrent     bool
}

type Post struct {
	ID          int64
	Title       string
	Slug        string
	Description string
	ImageUrl    sql.NullString
	CreatedAt   time.Time
	IsPublished bool
	ViewsCount  int64
	IsActive    bool
	OwnerID     sql.NullInt64
}

type Job struct {
	ID           int64
	Type         string
	Payload      []byte
	Status       string
	AttemptCount int64
	LastError    sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
