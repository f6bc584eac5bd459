package routes

import "fmt"

const (
	Home     = "/"
	Contacts = "/contacts"
	Health   = "/health"
	Metrics  = "/metrics"
	Storage  = "/storage/"

	Products      = "/products"
	ProductNew    = "/products/new"
	ProductsMine  = "/products/mine"
	Product       = "/products/{id}"
	ProductEdit   = "/products/{id}/edit"
	ProductMod    = "/products/{id}/moderate"
	ProductDelete = "/products/{id}/delete"
	ProductToggle = "/products/{id}/toggle"
	VersionSave   = "/products/{id}/versions"
	VersionDelete = "/products/{id}/versions/{vid}/delete"

	Posts      = "/blog"
	PostNew    = "/blog/new"
	Post       = "/blog/{id}"
	PostEdit   = "/blog/{id}/edit"
	PostDelete = "/blog/{id}/delete"
	PostToggle = "/blog/{id}/toggle"

	Login              = "/users/login"
	Logout             = "/users/logout"
	Register           = "/users/register"
	Confirm            = "/users/confirm/{uid}/{token}"
	ConfirmSent        = "/users/confirm/sent"
	ConfirmDone        = "/users/confirm/done"
	ConfirmFailed      = "/users/confirm/failed"
	Profile            = "/users/profile"
	NewPassword        = "/users/profile/password"
	RegeneratePassword = "/users/password/reset"
	Users              = "/users"
	UserToggle         = "/users/{id}/toggle"
	ModeratorNew       = "/users/moderators/new"
)

func ProductURL(id int64) string       { return fmt.Sprintf("/products/%d", id) }
func ProductEditURL(id int64) string   { return fmt.Sprintf("/products/%d/edit", id) }
func ProductModURL(id int64) string    { return fmt.Sprintf("/products/%d/moderate", id) }
func ProductDeleteURL(id int64) string { return fmt.Sprintf("/products/%d/delete", id) }
func ProductToggleURL(id int64) string { return fmt.Sprintf("/products/%d/toggle", id) }
func VersionSaveURL(id int64) string   { return fmt.Sprintf("/products/%d/versions", id) }

func VersionDeleteURL(productID, versionID int64) string {
	return fmt.Sprintf("/products/%d/versions/%d/delete", productID, versionID)
}

func PostURL(id int64) string       { return fmt.Sprintf("/blog/%d", id) }
func PostEditURL(id int64) string   { return fmt.Sprintf("/blog/%d/edit", id) }
func PostDeleteURL(id int64) string { return fmt.Sprintf("/blog/%d/delete", id) }
func PostToggleURL(id int64) string { return fmt.Sprintf("/blog/%d/toggle", id) }

func UserToggleURL(id int64) string { return fmt.Sprintf("/users/%d/toggle", id) }

// PageURL anexa o número da página a uma listagem.
func PageURL(base string, page int) string { return fmt.Sprintf("%s?page=%d", base, page) }
