package db

import "strings"

// Visibility é a forma SQL de um filtro de listagem. O zero value restringe
// a linhas publicadas em ordem ascendente.
type Visibility struct {
	// All desliga qualquer filtro.
	All bool
	// ActiveOnly exige is_active = 1 nas linhas publicadas (apenas posts).
	ActiveOnly bool
	// OwnerID > 0 inclui as linhas do dono independente da publicação.
	OwnerID    int64
	Descending bool
}

func (v Visibility) where(alias string) (string, []any) {
	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}

	if v.All {
		return "1 = 1", nil
	}

	cond := col("is_published") + " = 1"
	if v.ActiveOnly {
		cond += " AND " + col("is_active") + " = 1"
	}
	if v.OwnerID <= 0 {
		return cond, nil
	}
	return "((" + cond + ") OR " + col("owner_id") + " = ?)", []any{v.OwnerID}
}

func (v Visibility) orderBy(alias string) string {
	var b strings.Builder
	b.WriteString("ORDER BY ")
	if alias != "" {
		b.WriteString(alias + ".")
	}
	b.WriteString("id")
	if v.Descending {
		b.WriteString(" DESC")
	} else {
		b.WriteString(" ASC")
	}
	return b.String()
}
