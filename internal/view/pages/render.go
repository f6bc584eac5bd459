// Package pages contém os componentes templ das páginas do site.
package pages

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/PauloHFS/skystore/internal/i18n"
	"github.com/PauloHFS/skystore/internal/routes"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/PauloHFS/skystore/internal/view"
	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// page acumula o primeiro erro de escrita, como o código gerado pelo templ.
type page struct {
	w   io.Writer
	err error
}

func (p *page) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *page) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *page) textf(format string, args ...any) {
	p.text(fmt.Sprintf(format, args...))
}

func (p *page) render(ctx context.Context, c templ.Component) {
	if p.err == nil {
		p.err = c.Render(ctx, p.w)
	}
}

func (p *page) csrf(ctx context.Context) {
	p.raw(`<input type="hidden" name="csrf_token" value="`)
	p.text(view.CSRFToken(ctx))
	p.raw(`">`)
}

// postButton é um formulário de um botão só, para ações que alteram estado.
func (p *page) postButton(ctx context.Context, action, label string) {
	p.raw(`<form method="post" class="inline" action="`)
	p.text(action)
	p.raw(`">`)
	p.csrf(ctx)
	p.raw(`<button type="submit" class="secondary">`)
	p.text(label)
	p.raw(`</button></form>`)
}

func (p *page) fieldError(fe *validator.FormError, key string) {
	if msg := errFor(fe, key); msg != "" {
		p.raw(`<small class="error">`)
		p.text(msg)
		p.raw(`</small>`)
	}
}

func (p *page) input(label, name, typ, value string, fe *validator.FormError, key string) {
	p.raw(`<label>`)
	p.text(label)
	p.raw(`<input type="`)
	p.text(typ)
	p.raw(`" name="`)
	p.text(name)
	p.raw(`" value="`)
	p.text(value)
	p.raw(`"`)
	if errFor(fe, key) != "" {
		p.raw(` aria-invalid="true"`)
	}
	p.raw(`></label>`)
	p.fieldError(fe, key)
}

func (p *page) textarea(label, name, value string, fe *validator.FormError, key string) {
	p.raw(`<label>`)
	p.text(label)
	p.raw(`<textarea name="`)
	p.text(name)
	p.raw(`" rows="6">`)
	p.text(value)
	p.raw(`</textarea></label>`)
	p.fieldError(fe, key)
}

func (p *page) checkbox(label, name string, checked bool) {
	p.raw(`<label><input type="checkbox" name="`)
	p.text(name)
	p.raw(`" value="on"`)
	if checked {
		p.raw(` checked`)
	}
	p.raw(`> `)
	p.text(label)
	p.raw(`</label>`)
}

func (p *page) formErrors(fe *validator.FormError) {
	if msg := errFor(fe, "form"); msg != "" {
		p.raw(`<p class="error">`)
		p.text(msg)
		p.raw(`</p>`)
	}
}

func (p *page) notice(msg string) {
	if msg == "" {
		return
	}
	p.raw(`<p class="notice">`)
	p.text(msg)
	p.raw(`</p>`)
}

func (p *page) pagination(ctx context.Context, base string, pag view.Pagination) {
	if pag.TotalPages <= 1 {
		return
	}
	t := i18n.Get(ctx)
	p.raw(`<nav class="pagination">`)
	if pag.HasPrevious() {
		p.a(routes.PageURL(base, pag.CurrentPage-1), t.Previous)
		p.raw(` `)
	}
	for _, n := range pag.Window(5) {
		if n == pag.CurrentPage {
			p.raw(`<strong aria-current="page">`)
			p.textf("%d", n)
			p.raw(`</strong> `)
			continue
		}
		p.a(routes.PageURL(base, n), strconv.Itoa(n))
		p.raw(` `)
	}
	if pag.HasNext() {
		p.a(routes.PageURL(base, pag.CurrentPage+1), t.Next)
	}
	p.raw(`</nav>`)
}

func errFor(fe *validator.FormError, key string) string {
	if fe == nil {
		return ""
	}
	return fe.Fields[key]
}

func titleCase(ctx context.Context, s string) string {
	tag := language.Make(view.Locale(ctx))
	return cases.Title(tag).String(s)
}

// layout envolve o corpo da página com cabeçalho e navegação.
func layout(title string, body func(ctx context.Context, p *page)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		t := i18n.Get(ctx)
		subj := view.Subject(ctx)

		p.raw(`<!DOCTYPE html><html lang="`)
		p.text(view.Locale(ctx))
		p.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		p.text(title)
		p.raw(` | Skystore</title><link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/@picocss/pico@2/css/pico.min.css"><link rel="stylesheet" href="/assets/site.css">`)
		p.raw(`<script src="https://unpkg.com/htmx.org@2.0.4" nonce="`)
		p.text(view.Nonce(ctx))
		p.raw(`"></script></head><body><header class="container"><nav><ul><li><a href="`)
		p.text(routes.Home)
		p.raw(`"><strong>Skystore</strong></a></li></ul><ul>`)

		link := func(href, label string) {
			p.raw(`<li><a href="`)
			p.text(href)
			p.raw(`">`)
			p.text(label)
			p.raw(`</a></li>`)
		}
		link(routes.Products, t.Catalog)
		link(routes.Posts, t.Blog)
		link(routes.Contacts, t.Contacts)
		if subj.Authenticated {
			link(routes.ProductsMine, t.MyProducts)
			if subj.Staff || subj.Superuser {
				link(routes.Users, t.Users)
			}
			link(routes.Profile, t.Profile)
			p.raw(`<li>`)
			p.postButton(ctx, routes.Logout, t.Logout)
			p.raw(`</li>`)
		} else {
			link(routes.Login, t.Login)
			link(routes.Register, t.Register)
		}
		p.raw(`</ul></nav></header><main class="container"><h1>`)
		p.text(title)
		p.raw(`</h1>`)
		body(ctx, p)
		p.raw(`</main></body></html>`)
		return p.err
	})
}

func (p *page) a(href, label string) {
	p.raw(`<a href="`)
	p.text(href)
	p.raw(`">`)
	p.text(label)
	p.raw(`</a>`)
}

func (p *page) img(src, alt string) {
	if src == "" {
		return
	}
	p.raw(`<img src="`)
	p.text(src)
	p.raw(`" alt="`)
	p.text(alt)
	p.raw(`" loading="lazy">`)
}
