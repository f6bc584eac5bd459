package validator

import (
	"fmt"
	"strings"
)

// Violation aponta o termo proibido encontrado em um campo.
type Violation struct {
	Field string
	Term  string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s contém o termo proibido %q", v.Field, v.Term)
}

// Blocklist é a lista de termos proibidos, já em minúsculas.
type Blocklist []string

func NewBlocklist(terms []string) Blocklist {
	b := make(Blocklist, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			b = append(b, t)
		}
	}
	return b
}

// Check faz a busca por substring sem diferenciar maiúsculas no nome e na
// descrição. Um nome vazio não é verificado.
func (b Blocklist) Check(name, description string) []Violation {
	var out []Violation
	for _, f := range []struct{ field, value string }{
		{"name", name},
		{"description", description},
	} {
		if f.value == "" {
			continue
		}
		lower := strings.ToLower(f.value)
		for _, term := range b {
			if strings.Contains(lower, term) {
				out = append(out, Violation{Field: f.field, Term: term})
			}
		}
	}
	return out
}

// Apply adiciona as violações ao formulário. Devolve fe, criando-o se preciso.
func (b Blocklist) Apply(fe *FormError, name, description string) *FormError {
	for _, v := range b.Check(name, description) {
		if fe == nil {
			fe = &FormError{}
		}
		fe.Add(v.Field, v.Error())
	}
	return fe
}
