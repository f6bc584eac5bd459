package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/middleware"
	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/routes"
	"github.com/PauloHFS/skystore/internal/upload"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/PauloHFS/skystore/internal/view/pages"
)

func productForm(r *http.Request) validator.ProductForm {
	return validator.ProductForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: r.FormValue("description"),
		CategoryID:  formInt(r, "category_id"),
		Price:       strings.TrimSpace(r.FormValue("price")),
		IsPublished: formBool(r, "is_published"),
	}
}

// versionForms lê as linhas "versions-N-*" do formulário de edição. Linhas
// novas totalmente vazias são ignoradas.
func versionForms(r *http.Request) []validator.VersionForm {
	total := int(formInt(r, "versions-total"))
	out := make([]validator.VersionForm, 0, total)
	for i := range total {
		prefix := fmt.Sprintf("versions-%d-", i)
		v := validator.VersionForm{
			ID:            formInt(r, prefix+"id"),
			VersionNumber: formInt(r, prefix+"number"),
			VersionName:   strings.TrimSpace(r.FormValue(prefix + "name")),
			IsCurrent:     formBool(r, prefix+"current"),
		}
		if v.ID == 0 && v.VersionName == "" && strings.TrimSpace(r.FormValue(prefix+"number")) == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func toVersionForms(versions []db.Version) []validator.VersionForm {
	out := make([]validator.VersionForm, len(versions))
	for i, v := range versions {
		out[i] = validator.VersionForm{ID: v.ID, VersionNumber: v.VersionNumber, VersionName: v.VersionName, IsCurrent: v.IsCurrent}
	}
	return out
}

func editForm(p db.Product) validator.ProductForm {
	return validator.ProductForm{
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Price:       validator.FormatPrice(p.PriceCents),
		IsPublished: p.IsPublished,
	}
}

func handleProductList(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	subj := middleware.GetSubject(r.Context())
	result, err := deps.Catalog.List(r.Context(), subj, pageParam(r))
	if err != nil {
		return err
	}
	render(w, r, http.StatusOK, pages.ProductList(result, subj.Authenticated))
	return nil
}

func handleProductsMine(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	items, err := deps.Catalog.ListMine(r.Context(), middleware.GetSubject(r.Context()))
	if err != nil {
		return err
	}
	render(w, r, http.StatusOK, pages.ProductsMine(items))
	return nil
}

func handleProductDetail(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	detail, err := deps.Catalog.Get(r.Context(), middleware.GetSubject(r.Context()), id)
	if err != nil {
		return err
	}
	render(w, r, http.StatusOK, pages.ProductDetail(detail))
	return nil
}

func handleProductNew(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	categories, err := deps.Catalog.Categories(r.Context())
	if err != nil {
		return err
	}
	render(w, r, http.StatusOK, pages.ProductForm(pages.ProductFormData{Categories: categories}))
	return nil
}

func handleProductCreate(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "product_create"))
	if err := parseForm(r); err != nil {
		return err
	}
	form := productForm(r)

	rerender := func(fe *validator.FormError) error {
		categories, err := deps.Catalog.Categories(r.Context())
		if err != nil {
			return err
		}
		render(w, r, http.StatusUnprocessableEntity, pages.ProductForm(pages.ProductFormData{Form: form, Categories: categories, Errors: fe}))
		return nil
	}

	imageURL, fe, err := saveImage(deps, r, "image", upload.ProductImageConfig)
	if err != nil {
		return err
	}
	if fe != nil {
		return rerender(fe)
	}

	p, err := deps.Catalog.Create(r.Context(), middleware.GetSubject(r.Context()), form, imageURL)
	if err != nil {
		if fe, ok := formError(err); ok {
			return rerender(fe)
		}
		return err
	}
	http.Redirect(w, r, routes.ProductURL(p.ID), http.StatusSeeOther)
	return nil
}

func handleProductEdit(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	detail, err := deps.Catalog.Editable(r.Context(), middleware.GetSubject(r.Context()), id, policies.ActionEdit)
	if err != nil {
		return err
	}
	categories, err := deps.Catalog.Categories(r.Context())
	if err != nil {
		return err
	}
	render(w, r, http.StatusOK, pages.ProductForm(pages.ProductFormData{
		ID:         id,
		Form:       editForm(detail.Product.Product),
		Categories: categories,
		Versions:   toVersionForms(detail.Versions),
	}))
	return nil
}

func handleProductUpdate(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	logging.AddToEvent(r.Context(), slog.String("operation", "product_update"), slog.Int64("product_id", id))
	if err := parseForm(r); err != nil {
		return err
	}
	subj := middleware.GetSubject(r.Context())
	form := productForm(r)
	versions := versionForms(r)

	rerender := func(fe *validator.FormError) error {
		categories, err := deps.Catalog.Categories(r.Context())
		if err != nil {
			return err
		}
		render(w, r, http.StatusUnprocessableEntity, pages.ProductForm(pages.ProductFormData{
			ID: id, Form: form, Categories: categories, Versions: versions, Errors: fe,
		}))
		return nil
	}

	imageURL, fe, err := saveImage(deps, r, "image", upload.ProductImageConfig)
	if err != nil {
		return err
	}
	if fe != nil {
		return rerender(fe)
	}

	if err := deps.Catalog.Update(r.Context(), subj, id, form, imageURL, versions); err != nil {
		if fe, ok := formError(err); ok {
			return rerender(fe)
		}
		return err
	}
	http.Redirect(w, r, routes.ProductURL(id), http.StatusSeeOther)
	return nil
}

func handleProductModerateForm(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	p, err := deps.Catalog.ForModeration(r.Context(), middleware.GetSubject(r.Context()), id)
	if err != nil {
		return err
	}
	categories, err := deps.Catalog.Categories(r.Context())
	if err != nil {
		return err
	}
	render(w, r, http.StatusOK, pages.ModerationForm(pages.ModerationFormData{
		ID:         id,
		Name:       p.Name,
		Form:       validator.ModerationForm{Description: p.Description, CategoryID: p.CategoryID, IsPublished: p.IsPublished},
		Categories: categories,
	}))
	return nil
}

func handleProductModerate(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	logging.AddToEvent(r.Context(), slog.String("operation", "product_moderate"), slog.Int64("product_id", id))
	subj := middleware.GetSubject(r.Context())
	form := validator.ModerationForm{
		Description: r.FormValue("description"),
		CategoryID:  formInt(r, "category_id"),
		IsPublished: formBool(r, "is_published"),
	}

	if err := deps.Catalog.Moderate(r.Context(), subj, id, form); err != nil {
		fe, ok := formError(err)
		if !ok {
			return err
		}
		p, err := deps.Catalog.ForModeration(r.Context(), subj, id)
		if err != nil {
			return err
		}
		categories, err := deps.Catalog.Categories(r.Context())
		if err != nil {
			return err
		}
		render(w, r, http.StatusUnprocessableEntity, pages.ModerationForm(pages.ModerationFormData{
			ID: id, Name: p.Name, Form: form, Categories: categories, Errors: fe,
		}))
		return nil
	}
	http.Redirect(w, r, routes.Products, http.StatusSeeOther)
	return nil
}

func handleProductDeleteConfirm(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	detail, err := deps.Catalog.Editable(r.Context(), middleware.GetSubject(r.Context()), id, policies.ActionDelete)
	if err != nil {
		return err
	}
	render(w, r, http.StatusOK, pages.ConfirmDelete(detail.Product.Name, routes.ProductDeleteURL(id), routes.ProductURL(id)))
	return nil
}

func handleProductDelete(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	logging.AddToEvent(r.Context(), slog.String("operation", "product_delete"), slog.Int64("product_id", id))
	if err := deps.Catalog.Delete(r.Context(), middleware.GetSubject(r.Context()), id); err != nil {
		return err
	}
	http.Redirect(w, r, routes.Products, http.StatusSeeOther)
	return nil
}

func handleProductToggle(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	logging.AddToEvent(r.Context(), slog.String("operation", "product_toggle"))
	if _, err := deps.Catalog.TogglePublished(r.Context(), middleware.GetSubject(r.Context()), id); err != nil {
		return err
	}
	http.Redirect(w, r, routes.ProductURL(id), http.StatusSeeOther)
	return nil
}

func handleVersionSave(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	subj := middleware.GetSubject(r.Context())
	form := validator.VersionForm{
		ID:            formInt(r, "id"),
		VersionNumber: formInt(r, "number"),
		VersionName:   strings.TrimSpace(r.FormValue("name")),
		IsCurrent:     formBool(r, "current"),
	}

	if _, err := deps.Catalog.SaveVersion(r.Context(), subj, id, form); err != nil {
		fe, ok := formError(err)
		if !ok {
			return err
		}
		detail, err := deps.Catalog.Editable(r.Context(), subj, id, policies.ActionEdit)
		if err != nil {
			return err
		}
		categories, err := deps.Catalog.Categories(r.Context())
		if err != nil {
			return err
		}
		render(w, r, http.StatusUnprocessableEntity, pages.ProductForm(pages.ProductFormData{
			ID:         id,
			Form:       editForm(detail.Product.Product),
			Categories: categories,
			Versions:   toVersionForms(detail.Versions),
			Errors:     fe,
		}))
		return nil
	}
	http.Redirect(w, r, routes.ProductEditURL(id), http.StatusSeeOther)
	return nil
}

func handleVersionDelete(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	vid, err := pathID(r, "vid")
	if err != nil {
		return err
	}
	if err := deps.Catalog.DeleteVersion(r.Context(), middleware.GetSubject(r.Context()), id, vid); err != nil {
		return err
	}
	http.Redirect(w, r, routes.ProductEditURL(id), http.StatusSeeOther)
	return nil
}
