package pages

import (
	"context"
	"io"

	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/i18n"
	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/routes"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/PauloHFS/skystore/internal/view"
	"github.com/a-h/templ"
)

func Login(email, errorMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		return layout(t.Login, func(ctx context.Context, p *page) {
			if errorMsg != "" {
				p.raw(`<p class="error">`)
				p.text(errorMsg)
				p.raw(`</p>`)
			}
			p.raw(`<form method="post" action="`)
			p.text(routes.Login)
			p.raw(`">`)
			p.csrf(ctx)
			p.input(t.Email, "email", "email", email, nil, "")
			p.input(t.Password, "password", "password", "", nil, "")
			p.raw(`<button type="submit">`)
			p.text(t.Login)
			p.raw(`</button></form><p>`)
			p.a(routes.RegeneratePassword, "Esqueceu a senha?")
			p.raw(`</p>`)
		}).Render(ctx, w)
	})
}

func Register(email string, fe *validator.FormError) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		return layout(t.Register, func(ctx context.Context, p *page) {
			p.formErrors(fe)
			p.raw(`<form method="post" action="`)
			p.text(routes.Register)
			p.raw(`">`)
			p.csrf(ctx)
			p.input(t.Email, "email", "email", email, fe, "email")
			p.input(t.Password, "password", "password", "", fe, "password")
			p.raw(`<button type="submit">`)
			p.text(t.Register)
			p.raw(`</button></form>`)
		}).Render(ctx, w)
	})
}

func ConfirmSent() templ.Component {
	return layout("Confirme seu e-mail", func(ctx context.Context, p *page) {
		p.raw(`<p>Enviamos um link de confirmação para o seu e-mail.</p>`)
	})
}

func ConfirmDone() templ.Component {
	return layout("Conta ativada", func(ctx context.Context, p *page) {
		p.raw(`<p>Seu e-mail foi confirmado. `)
		p.a(routes.Products, i18n.Get(ctx).Catalog)
		p.raw(`</p>`)
	})
}

func ConfirmFailed() templ.Component {
	return layout("Link inválido", func(ctx context.Context, p *page) {
		p.raw(`<p>O link de confirmação é inválido ou expirou. `)
		p.a(routes.Register, i18n.Get(ctx).Register)
		p.raw(`</p>`)
	})
}

func Profile(user db.User, form validator.ProfileForm, fe *validator.FormError, notice string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		return layout(t.Profile, func(ctx context.Context, p *page) {
			p.notice(notice)
			p.formErrors(fe)
			p.img(user.AvatarUrl.String, user.Email)
			p.raw(`<p>`)
			p.text(user.Email)
			p.raw(`</p><form method="post" enctype="multipart/form-data" action="`)
			p.text(routes.Profile)
			p.raw(`">`)
			p.csrf(ctx)
			p.input("Telefone", "phone", "tel", form.Phone, fe, "phone")
			p.input("País", "country", "text", form.Country, fe, "country")
			p.input("Avatar", "avatar", "file", "", fe, "avatar")
			p.raw(`<button type="submit">`)
			p.text(t.Save)
			p.raw(`</button></form>`)
			p.postButton(ctx, routes.NewPassword, "Gerar nova senha")
			if view.Subject(ctx).Superuser {
				p.raw(` `)
				p.a(routes.ModeratorNew, "Novo moderador")
			}
		}).Render(ctx, w)
	})
}

func UserList(users []db.User, actor policies.Subject) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		return layout(t.Users, func(ctx context.Context, p *page) {
			p.raw(`<table><thead><tr><th>`)
			p.text(t.Email)
			p.raw(`</th><th>Staff</th><th>Ativo</th><th></th></tr></thead><tbody>`)
			for _, u := range users {
				p.raw(`<tr><td>`)
				p.text(u.Email)
				p.raw(`</td><td>`)
				p.text(yesNo(u.IsStaff))
				p.raw(`</td><td>`)
				p.text(yesNo(u.IsActive))
				p.raw(`</td><td>`)
				if policies.CanToggleUser(actor, u.ID, u.IsStaff || u.IsSuperuser) == nil {
					label := "Ativar"
					if u.IsActive {
						label = "Desativar"
					}
					p.postButton(ctx, routes.UserToggleURL(u.ID), label)
				}
				p.raw(`</td></tr>`)
			}
			p.raw(`</tbody></table>`)
		}).Render(ctx, w)
	})
}

func RegeneratePassword(email string, fe *validator.FormError, notice string) templ.Component {
	return layout("Recuperar senha", func(ctx context.Context, p *page) {
		t := i18n.Get(ctx)
		p.notice(notice)
		p.formErrors(fe)
		p.raw(`<form method="post" action="`)
		p.text(routes.RegeneratePassword)
		p.raw(`">`)
		p.csrf(ctx)
		p.input(t.Email, "email", "email", email, fe, "email")
		p.raw(`<button type="submit">Enviar nova senha</button></form>`)
	})
}

func ModeratorForm(email string, fe *validator.FormError, notice string) templ.Component {
	return layout("Novo moderador", func(ctx context.Context, p *page) {
		t := i18n.Get(ctx)
		p.notice(notice)
		p.formErrors(fe)
		p.raw(`<form method="post" action="`)
		p.text(routes.ModeratorNew)
		p.raw(`">`)
		p.csrf(ctx)
		p.input(t.Email, "email", "email", email, fe, "email")
		p.input(t.Password, "password", "password", "", fe, "password")
		p.raw(`<button type="submit">`)
		p.text(t.Create)
		p.raw(`</button></form>`)
	})
}

func yesNo(b bool) string {
	if b {
		return "✓"
	}
	return "—"
}
