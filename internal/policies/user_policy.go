package policies

// UserScope define quais contas aparecem na lista de usuários.
type UserScope int

const (
	UsersNone UserScope = iota
	UsersNonStaff
	UsersAll
)

// ListableUsers: superusuários veem todos, staff só os não-staff.
func ListableUsers(s Subject) UserScope {
	switch s.Role() {
	case Superuser:
		return UsersAll
	case Staff:
		return UsersNonStaff
	default:
		return UsersNone
	}
}

// CanToggleUser permite a staff ativar/desativar contas que não sejam staff.
// Ninguém desativa a própria conta.
func CanToggleUser(actor Subject, targetID int64, targetStaff bool) error {
	if actor.UserID == targetID {
		return ErrForbidden
	}
	switch actor.Role() {
	case Superuser:
		return nil
	case Staff:
		if targetStaff {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

func CanCreateModerator(s Subject) error {
	if !s.Superuser {
		return ErrForbidden
	}
	return nil
}
