package policies

// Role é o papel derivado de um Subject. A ordem das constantes é a precedência.
type Role int

const (
	Anonymous Role = iota
	Member
	Manager
	Staff
	Superuser
)

// ManagerGroup é o grupo que recebe as permissões de moderação.
const ManagerGroup = "manager"

func (r Role) String() string {
	switch r {
	case Anonymous:
		return "anonymous"
	case Member:
		return "member"
	case Manager:
		return "manager"
	case Staff:
		return "staff"
	case Superuser:
		return "superuser"
	default:
		return "unknown"
	}
}

// AtLeast indica se r tem precedência igual ou maior que other.
func (r Role) AtLeast(other Role) bool {
	return r >= other
}

// Permission é uma capacidade concedida a grupos.
type Permission string

const (
	PermSetIsPublished Permission = "set_is_published"
	PermSetDescription Permission = "set_description"
	PermSetCategory    Permission = "set_category"
)

// ModerationPermissions são as permissões exigidas pelo formulário de moderação.
var ModerationPermissions = []Permission{PermSetIsPublished, PermSetDescription, PermSetCategory}

// Subject é o usuário da requisição com as capacidades já resolvidas.
// O zero value é o visitante anônimo.
type Subject struct {
	UserID        int64
	Authenticated bool
	Staff         bool
	Superuser     bool
	Groups        []string
	Capabilities  map[Permission]bool
}

func (s Subject) Role() Role {
	switch {
	case s.Superuser:
		return Superuser
	case s.Staff:
		return Staff
	case s.InGroup(ManagerGroup):
		return Manager
	case s.Authenticated:
		return Member
	default:
		return Anonymous
	}
}

func (s Subject) InGroup(name string) bool {
	for _, g := range s.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// Has indica se o sujeito possui p. Superusuários possuem todas.
func (s Subject) Has(p Permission) bool {
	if s.Superuser {
		return true
	}
	return s.Capabilities[p]
}
