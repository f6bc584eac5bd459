package policies

import "errors"

var (
	// ErrNotFound é devolvido tanto para entidades inexistentes quanto para
	// acessos negados a um objeto específico.
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

type Kind int

const (
	KindProduct Kind = iota
	KindPost
)

func (k Kind) String() string {
	if k == KindPost {
		return "post"
	}
	return "product"
}

type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Entity é a parte de um Product ou Post que importa para as regras.
// OwnerID zero significa sem dono. Active só é considerado para posts.
type Entity struct {
	Kind      Kind
	ID        int64
	OwnerID   int64
	Published bool
	Active    bool
}

func (e Entity) OwnedBy(s Subject) bool {
	return e.OwnerID != 0 && s.Authenticated && e.OwnerID == s.UserID
}

// Filter descreve o subconjunto de entidades que uma listagem pode devolver.
type Filter struct {
	Unrestricted  bool
	RequireActive bool
	// OwnerID > 0 soma as entidades do dono às publicadas.
	OwnerID    int64
	Descending bool
}

// Match aplica o filtro em memória.
func (f Filter) Match(e Entity) bool {
	if f.Unrestricted {
		return true
	}
	if f.OwnerID > 0 && e.OwnerID == f.OwnerID {
		return true
	}
	if !e.Published {
		return false
	}
	return !f.RequireActive || e.Active
}

// VisibleSet devolve o filtro de listagem do sujeito para um tipo de entidade.
// Listagens de Member e Manager seguem o id ascendente, como as de staff.
func VisibleSet(s Subject, kind Kind) Filter {
	switch s.Role() {
	case Superuser, Staff:
		return Filter{Unrestricted: true}
	case Manager, Member:
		return Filter{OwnerID: s.UserID}
	default:
		return Filter{RequireActive: kind == KindPost, Descending: true}
	}
}

// IsMember indica se o sujeito pertence ao grupo de gerentes.
func IsMember(s Subject) bool {
	return s.InGroup(ManagerGroup)
}

// CanMutate decide edição e remoção pelo caminho do dono. Gerentes donos da
// entidade são recusados e devem usar a moderação.
func CanMutate(s Subject, e Entity, _ Action) error {
	if s.Superuser {
		return nil
	}
	if e.OwnedBy(s) && !IsMember(s) {
		return nil
	}
	return ErrNotFound
}

// CanModerate indica se o sujeito pode usar o formulário restrito de moderação.
func CanModerate(s Subject) bool {
	for _, p := range ModerationPermissions {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// TogglePublished devolve o novo valor de is_published. Só staff pode alternar.
func TogglePublished(s Subject, e Entity) (bool, error) {
	if !s.Staff {
		return e.Published, ErrForbidden
	}
	return !e.Published, nil
}
