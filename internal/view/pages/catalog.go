package pages

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/i18n"
	"github.com/PauloHFS/skystore/internal/routes"
	"github.com/PauloHFS/skystore/internal/services"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/PauloHFS/skystore/internal/view"
	"github.com/a-h/templ"
)

type ProductFormData struct {
	ID         int64
	Form       validator.ProductForm
	Categories []db.Category
	Versions   []validator.VersionForm
	Errors     *validator.FormError
}

type ModerationFormData struct {
	ID         int64
	Name       string
	Form       validator.ModerationForm
	Categories []db.Category
	Errors     *validator.FormError
}

func (p *page) productCard(ctx context.Context, row db.ProductRow) {
	t := i18n.Get(ctx)
	p.raw(`<article>`)
	p.img(row.ImageUrl.String, row.Name)
	p.raw(`<h3>`)
	p.a(routes.ProductURL(row.ID), row.Name)
	p.raw(`</h3><p>`)
	p.text(view.Excerpt(row.Description, 100))
	p.raw(`</p><footer>`)
	p.text(validator.FormatPrice(row.PriceCents))
	if row.CurrentVersionName.Valid {
		p.raw(` · `)
		p.textf("v%d %s", row.CurrentVersionNumber.Int64, row.CurrentVersionName.String)
	}
	if !row.IsPublished {
		p.raw(` · <mark>`)
		p.text(t.Unpublish)
		p.raw(`</mark>`)
	}
	p.raw(`</footer></article>`)
}

func ProductList(result db.PagedResult[db.ProductRow], canCreate bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		return layout(t.Catalog, func(ctx context.Context, p *page) {
			if canCreate {
				p.raw(`<p>`)
				p.a(routes.ProductNew, t.Create)
				p.raw(`</p>`)
			}
			for _, row := range result.Items {
				p.productCard(ctx, row)
			}
			p.pagination(ctx, routes.Products, view.FromResult(result))
		}).Render(ctx, w)
	})
}

func ProductsMine(items []db.ProductRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		return layout(t.MyProducts, func(ctx context.Context, p *page) {
			p.raw(`<p>`)
			p.a(routes.ProductNew, t.Create)
			p.raw(`</p>`)
			for _, row := range items {
				p.productCard(ctx, row)
			}
		}).Render(ctx, w)
	})
}

func ProductDetail(d services.ProductDetail) templ.Component {
	return layout(d.Product.Name, func(ctx context.Context, p *page) {
		t := i18n.Get(ctx)
		prod := d.Product

		p.img(prod.ImageUrl.String, prod.Name)
		p.raw(`<p><strong>`)
		p.text(t.Price)
		p.raw(`:</strong> `)
		p.text(validator.FormatPrice(prod.PriceCents))
		p.raw(`</p><div class="description">`)
		p.raw(view.Markdown(prod.Description))
		p.raw(`</div>`)

		if len(d.Versions) > 0 {
			p.raw(`<h2>`)
			p.text(t.Versions)
			p.raw(`</h2><ul>`)
			for _, v := range d.Versions {
				p.raw(`<li>`)
				p.textf("%d · %s", v.VersionNumber, v.VersionName)
				if v.IsCurrent {
					p.raw(` <mark>`)
					p.text(t.Current)
					p.raw(`</mark>`)
				}
				if d.CanEdit {
					p.raw(` `)
					p.postButton(ctx, routes.VersionDeleteURL(prod.ID, v.ID), t.Delete)
				}
				p.raw(`</li>`)
			}
			p.raw(`</ul>`)
		}

		p.raw(`<p class="actions">`)
		if d.CanEdit {
			p.a(routes.ProductEditURL(prod.ID), t.Edit)
			p.raw(` `)
			p.a(routes.ProductDeleteURL(prod.ID), t.Delete)
			p.raw(` `)
		}
		if d.CanModerate {
			p.a(routes.ProductModURL(prod.ID), t.Moderate)
			p.raw(` `)
		}
		if d.CanToggle {
			label := t.Publish
			if prod.IsPublished {
				label = t.Unpublish
			}
			p.postButton(ctx, routes.ProductToggleURL(prod.ID), label)
		}
		p.raw(`</p>`)
	})
}

func (p *page) categorySelect(ctx context.Context, categories []db.Category, selected int64, fe *validator.FormError) {
	p.raw(`<label>`)
	p.text(i18n.Get(ctx).Category)
	p.raw(`<select name="category_id"><option value=""></option>`)
	for _, c := range categories {
		p.raw(`<option value="`)
		p.textf("%d", c.ID)
		p.raw(`"`)
		if c.ID == selected {
			p.raw(` selected`)
		}
		p.raw(`>`)
		p.text(titleCase(ctx, c.Name))
		p.raw(`</option>`)
	}
	p.raw(`</select></label>`)
	p.fieldError(fe, "categoryid")
}

func (p *page) versionRow(ctx context.Context, i int, v validator.VersionForm, fe *validator.FormError) {
	t := i18n.Get(ctx)
	prefix := fmt.Sprintf("versions-%d-", i)
	p.raw(`<fieldset class="grid"><input type="hidden" name="`)
	p.text(prefix + "id")
	p.raw(`" value="`)
	p.textf("%d", v.ID)
	p.raw(`">`)
	number := ""
	if v.VersionNumber > 0 {
		number = strconv.FormatInt(v.VersionNumber, 10)
	}
	p.input("Nº", prefix+"number", "number", number, fe, fmt.Sprintf("versions.%d.versionnumber", i))
	p.input(t.Name, prefix+"name", "text", v.VersionName, fe, fmt.Sprintf("versions.%d.versionname", i))
	p.checkbox(t.Current, prefix+"current", v.IsCurrent)
	p.raw(`</fieldset>`)
}

func ProductForm(data ProductFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		title, action := t.Create, routes.ProductNew
		if data.ID != 0 {
			title, action = t.Edit, routes.ProductEditURL(data.ID)
		}
		return layout(title, func(ctx context.Context, p *page) {
			fe := data.Errors
			p.formErrors(fe)
			p.raw(`<form method="post" enctype="multipart/form-data" action="`)
			p.text(action)
			p.raw(`">`)
			p.csrf(ctx)
			p.input(t.Name, "name", "text", data.Form.Name, fe, "name")
			p.textarea(t.Description, "description", data.Form.Description, fe, "description")
			p.categorySelect(ctx, data.Categories, data.Form.CategoryID, fe)
			p.input(t.Price, "price", "text", data.Form.Price, fe, "price")
			p.input(t.Image, "image", "file", "", fe, "image")
			p.checkbox(t.Published, "is_published", data.Form.IsPublished)

			if data.ID != 0 {
				p.raw(`<h2>`)
				p.text(t.Versions)
				p.raw(`</h2><input type="hidden" name="versions-total" value="`)
				p.textf("%d", len(data.Versions)+1)
				p.raw(`">`)
				for i, v := range data.Versions {
					p.versionRow(ctx, i, v, fe)
				}
				// linha vazia para uma nova versão
				p.versionRow(ctx, len(data.Versions), validator.VersionForm{}, fe)
			}

			p.raw(`<button type="submit">`)
			p.text(t.Save)
			p.raw(`</button></form>`)
		}).Render(ctx, w)
	})
}

func ModerationForm(data ModerationFormData) templ.Component {
	return layout(data.Name, func(ctx context.Context, p *page) {
		t := i18n.Get(ctx)
		fe := data.Errors
		p.formErrors(fe)
		p.raw(`<form method="post" action="`)
		p.text(routes.ProductModURL(data.ID))
		p.raw(`">`)
		p.csrf(ctx)
		p.textarea(t.Description, "description", data.Form.Description, fe, "description")
		p.categorySelect(ctx, data.Categories, data.Form.CategoryID, fe)
		p.checkbox(t.Published, "is_published", data.Form.IsPublished)
		p.raw(`<button type="submit">`)
		p.text(t.Moderate)
		p.raw(`</button></form>`)
	})
}
