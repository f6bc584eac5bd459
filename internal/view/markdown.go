package view

import (
	"github.com/microcosm-cc/bluemonday"
	"gitlab.com/golang-commonmark/markdown"
)

var (
	md        = markdown.New(markdown.HTML(true), markdown.Linkify(true), markdown.Breaks(true))
	sanitizer = bluemonday.UGCPolicy()
)

// Markdown converte a descrição salva em HTML seguro para exibição.
func Markdown(src string) string {
	return sanitizer.Sanitize(md.RenderToString([]byte(src)))
}

// Excerpt corta o texto em n runas, para listagens.
func Excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
