package pages

import (
	"context"
	"io"

	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/i18n"
	"github.com/PauloHFS/skystore/internal/routes"
	"github.com/PauloHFS/skystore/internal/services"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/PauloHFS/skystore/internal/view"
	"github.com/a-h/templ"
)

func PostList(result db.PagedResult[db.Post], canCreate bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		return layout(t.Blog, func(ctx context.Context, p *page) {
			if canCreate {
				p.raw(`<p>`)
				p.a(routes.PostNew, t.Create)
				p.raw(`</p>`)
			}
			for _, post := range result.Items {
				p.raw(`<article>`)
				p.img(post.ImageUrl.String, post.Title)
				p.raw(`<h3>`)
				p.a(routes.PostURL(post.ID), post.Title)
				p.raw(`</h3><p>`)
				p.text(view.Excerpt(post.Description, 200))
				p.raw(`</p><footer>`)
				p.text(post.CreatedAt.Format("02/01/2006"))
				p.raw(` · `)
				p.textf("%s: %d", t.Views, post.ViewsCount)
				if !post.IsPublished {
					p.raw(` · <mark>`)
					p.text(t.Unpublish)
					p.raw(`</mark>`)
				}
				p.raw(`</footer></article>`)
			}
			p.pagination(ctx, routes.Posts, view.FromResult(result))
		}).Render(ctx, w)
	})
}

func PostDetail(d services.PostDetail) templ.Component {
	return layout(d.Post.Title, func(ctx context.Context, p *page) {
		t := i18n.Get(ctx)
		post := d.Post

		p.img(post.ImageUrl.String, post.Title)
		p.raw(`<p><small>`)
		p.text(post.CreatedAt.Format("02/01/2006 15:04"))
		p.raw(` · `)
		p.textf("%s: %d", t.Views, post.ViewsCount)
		p.raw(`</small></p><div class="description">`)
		p.raw(view.Markdown(post.Description))
		p.raw(`</div><p class="actions">`)
		if d.CanEdit {
			p.a(routes.PostEditURL(post.ID), t.Edit)
			p.raw(` `)
			p.a(routes.PostDeleteURL(post.ID), t.Delete)
			p.raw(` `)
		}
		if d.CanToggle {
			label := t.Publish
			if post.IsPublished {
				label = t.Unpublish
			}
			p.postButton(ctx, routes.PostToggleURL(post.ID), label)
		}
		p.raw(`</p>`)
	})
}

func PostForm(id int64, form validator.PostForm, fe *validator.FormError) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		title, action := t.Create, routes.PostNew
		if id != 0 {
			title, action = t.Edit, routes.PostEditURL(id)
		}
		return layout(title, func(ctx context.Context, p *page) {
			p.formErrors(fe)
			p.raw(`<form method="post" enctype="multipart/form-data" action="`)
			p.text(action)
			p.raw(`">`)
			p.csrf(ctx)
			p.input(t.Title, "title", "text", form.Title, fe, "title")
			p.textarea(t.Description, "description", form.Description, fe, "description")
			p.input(t.Image, "image", "file", "", fe, "image")
			p.checkbox(t.Published, "is_published", form.IsPublished)
			p.raw(`<button type="submit">`)
			p.text(t.Save)
			p.raw(`</button></form>`)
		}).Render(ctx, w)
	})
}
