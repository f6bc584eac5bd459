package pages

import (
	"context"
	"io"
	"net/http"

	"github.com/PauloHFS/skystore/internal/i18n"
	"github.com/PauloHFS/skystore/internal/routes"
	"github.com/PauloHFS/skystore/internal/services"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/a-h/templ"
)

func Landing(stats services.Statistics) templ.Component {
	return layout("Skystore", func(ctx context.Context, p *page) {
		t := i18n.Get(ctx)
		p.raw(`<section class="grid"><article><h3>`)
		p.text(t.Products)
		p.raw(`</h3><p class="stat">`)
		p.textf("%d", stats.ProductCount)
		p.raw(`</p></article><article><h3>`)
		p.text(t.Posts)
		p.raw(`</h3><p class="stat">`)
		p.textf("%d", stats.PostCount)
		p.raw(`</p></article></section>`)

		p.raw(`<h2>`)
		p.text(t.Catalog)
		p.raw(`</h2><div class="grid">`)
		for _, prod := range stats.Products {
			p.raw(`<article>`)
			p.img(prod.ImageURL, prod.Name)
			p.raw(`<h4>`)
			p.a(routes.ProductURL(prod.ID), prod.Name)
			p.raw(`</h4><p>`)
			p.text(validator.FormatPrice(prod.PriceCents))
			p.raw(`</p></article>`)
		}
		p.raw(`</div><h2>`)
		p.text(t.Blog)
		p.raw(`</h2><div class="grid">`)
		for _, post := range stats.Posts {
			p.raw(`<article>`)
			p.img(post.ImageURL, post.Title)
			p.raw(`<h4>`)
			p.a(routes.PostURL(post.ID), post.Title)
			p.raw(`</h4></article>`)
		}
		p.raw(`</div>`)
	})
}

func Contacts(form validator.ContactForm, fe *validator.FormError, sent bool) templ.Component {
	return layout("Contatos", func(ctx context.Context, p *page) {
		if sent {
			p.notice("Mensagem recebida. Entraremos em contato em breve.")
		}
		p.formErrors(fe)
		p.raw(`<form method="post" action="`)
		p.text(routes.Contacts)
		p.raw(`">`)
		p.csrf(ctx)
		p.input("Nome", "name", "text", form.Name, fe, "name")
		p.input("Telefone", "phone", "tel", form.Phone, fe, "phone")
		p.textarea("Mensagem", "message", form.Message, fe, "message")
		p.raw(`<button type="submit">Enviar</button></form>`)
	})
}

// ErrorPage mostra a página de erro do status informado.
func ErrorPage(status int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		title := t.ServerError
		switch status {
		case http.StatusNotFound:
			title = t.NotFound
		case http.StatusForbidden:
			title = t.Forbidden
		}
		return layout(title, func(ctx context.Context, p *page) {
			p.raw(`<p>`)
			p.a(routes.Home, t.Home)
			p.raw(`</p>`)
		}).Render(ctx, w)
	})
}

// ConfirmDelete pede confirmação antes de excluir um produto ou publicação.
func ConfirmDelete(name, action, back string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		return layout(t.Delete, func(ctx context.Context, p *page) {
			p.raw(`<p>`)
			p.text(t.ConfirmDelete)
			p.raw(` <strong>`)
			p.text(name)
			p.raw(`</strong></p>`)
			p.postButton(ctx, action, t.Delete)
			p.raw(` `)
			p.a(back, "←")
		}).Render(ctx, w)
	})
}
