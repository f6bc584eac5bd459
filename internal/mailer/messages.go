package mailer

import (
	"fmt"
	"html"
)

// ConfirmationEmail monta o e-mail com o link de ativação da conta.
func ConfirmationEmail(link string) (subject, body string) {
	subject = "Подтверждение регистрации"
	body = fmt.Sprintf(`<p>Для подтверждения регистрации перейдите по ссылке:</p>
<p><a href="%[1]s">%[1]s</a></p>`, html.EscapeString(link))
	return subject, body
}

// PasswordEmail leva a senha gerada para o usuário.
func PasswordEmail(password string) (subject, body string) {
	subject = "Новый пароль"
	body = fmt.Sprintf("<p>Ваш новый пароль: <strong>%s</strong></p>", html.EscapeString(password))
	return subject, body
}
