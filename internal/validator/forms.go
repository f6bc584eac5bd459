package validator

import (
	"fmt"
	"strconv"
	"strings"
)

type ProductForm struct {
	Name        string `validate:"required,max=200"`
	Description string `validate:"max=5000"`
	CategoryID  int64  `validate:"required,gt=0"`
	Price       string `validate:"required"`
	IsPublished bool
}

type ModerationForm struct {
	Description string `validate:"max=5000"`
	CategoryID  int64  `validate:"required,gt=0"`
	IsPublished bool
}

type VersionForm struct {
	ID            int64
	VersionNumber int64  `validate:"gte=1"`
	VersionName   string `validate:"required,max=200"`
	IsCurrent     bool
}

type PostForm struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=20000"`
	IsPublished bool
}

type ProfileForm struct {
	Phone   string `validate:"max=32"`
	Country string `validate:"max=64"`
}

type ContactForm struct {
	Name    string `validate:"required,max=100"`
	Phone   string `validate:"required,max=32"`
	Message string `validate:"required,max=2000"`
}

// ParsePrice converte "12.50" ou "12,50" em centavos.
func ParsePrice(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, fmt.Errorf("preço é obrigatório")
	}
	if strings.ContainsAny(s, "+-") {
		return 0, fmt.Errorf("preço inválido")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, fmt.Errorf("preço deve ter no máximo duas casas decimais")
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, fmt.Errorf("preço inválido")
	}

	var cents int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("preço inválido")
		}
	}
	return units*100 + cents, nil
}

// FormatPrice faz o caminho inverso de ParsePrice.
func FormatPrice(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
