package policies

import (
	"errors"
	"testing"
)

func TestListableUsers(t *testing.T) {
	if ListableUsers(root) != UsersAll {
		t.Error("superusuário deve ver todos")
	}
	if ListableUsers(staff) != UsersNonStaff {
		t.Error("staff deve ver apenas não-staff")
	}
	if ListableUsers(manager) != UsersNone || ListableUsers(anon) != UsersNone {
		t.Error("demais papéis não listam usuários")
	}
}

func TestCanToggleUser(t *testing.T) {
	tests := []struct {
		name        string
		actor       Subject
		targetID    int64
		targetStaff bool
		wantErr     bool
	}{
		{"Staff desativa membro", staff, 20, false, false},
		{"Staff não mexe em staff", staff, 21, true, true},
		{"Superusuário mexe em staff", root, 21, true, false},
		{"Ninguém desativa a si mesmo", root, root.UserID, true, true},
		{"Gerente não pode", manager, 20, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanToggleUser(tt.actor, tt.targetID, tt.targetStaff)
			if tt.wantErr != (err != nil) {
				t.Fatalf("wantErr=%v, obtido %v", tt.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrForbidden) {
				t.Errorf("esperado ErrForbidden, obtido %v", err)
			}
		})
	}

	if CanCreateModerator(staff) == nil || CanCreateModerator(root) != nil {
		t.Error("apenas superusuários criam moderadores")
	}
}
