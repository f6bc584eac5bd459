package services

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/token"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linkRe = regexp.MustCompile(`/users/confirm/([^/]+)/([^"<\s]+)`)

// lastLink lê o link de confirmação do último job de e-mail.
func lastLink(t *testing.T, e *env) (uid, tok string) {
	t.Helper()
	job, err := e.pool.Queries().PickNextJob(context.Background())
	require.NoError(t, err)

	var payload struct {
		Body string `json:"body"`
	}
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	m := linkRe.FindStringSubmatch(payload.Body)
	require.Len(t, m, 3, "no link in %s", payload.Body)
	return m[1], m[2]
}

func TestUsers_RegisterAndConfirm(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.Register(ctx, "New@Example.com", "password123")
	require.NoError(t, err)
	assert.False(t, u.IsActive)
	assert.Equal(t, "new@example.com", u.Email)

	_, err = e.users.Authenticate(ctx, "new@example.com", "password123")
	assert.ErrorIs(t, err, ErrInactiveAccount)

	uid, tok := lastLink(t, e)

	_, err = e.users.Confirm(ctx, uid, tok+"x")
	assert.ErrorIs(t, err, token.ErrInvalidToken)

	confirmed, err := e.users.Confirm(ctx, uid, tok)
	require.NoError(t, err)
	assert.True(t, confirmed.IsActive)

	_, err = e.users.Confirm(ctx, uid, tok)
	assert.ErrorIs(t, err, token.ErrInvalidToken, "links are single use")

	_, err = e.users.Authenticate(ctx, "new@example.com", "password123")
	assert.NoError(t, err)

	_, err = e.users.Register(ctx, "new@example.com", "password123")
	var fe *validator.FormError
	assert.ErrorAs(t, err, &fe)
}

func TestUsers_ReRegisterInactive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.users.Register(ctx, "late@example.com", "password123")
	require.NoError(t, err)
	oldUID, oldTok := lastLink(t, e)

	second, err := e.users.Register(ctx, "late@example.com", "otherpass456")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	newUID, newTok := lastLink(t, e)

	_, err = e.users.Confirm(ctx, oldUID, oldTok)
	assert.ErrorIs(t, err, token.ErrInvalidToken)

	_, err = e.users.Confirm(ctx, newUID, newTok)
	require.NoError(t, err)
	_, err = e.users.Authenticate(ctx, "late@example.com", "otherpass456")
	assert.NoError(t, err)
}

func TestUsers_InvalidRegistration(t *testing.T) {
	e := newEnv(t)

	_, err := e.users.Register(context.Background(), "invalid", "123")
	var fe *validator.FormError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "email")
	assert.Contains(t, fe.Fields, "password")
	assert.Zero(t, jobCount(t, e.pool))
}

func TestUsers_Passwords(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	member := e.subject(t, "member@example.com", AccountOptions{})

	assert.ErrorIs(t, e.users.RegeneratePassword(ctx, "ghost@example.com"), ErrUserNotFound)
	assert.Zero(t, jobCount(t, e.pool))

	require.NoError(t, e.users.RegeneratePassword(ctx, "member@example.com"))
	assert.Equal(t, int64(1), jobCount(t, e.pool))
	_, err := e.users.Authenticate(ctx, "member@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, e.users.GenerateNewPassword(ctx, member))
	assert.Equal(t, int64(2), jobCount(t, e.pool))

	assert.ErrorIs(t, e.users.GenerateNewPassword(ctx, policies.Subject{}), policies.ErrForbidden)

	pw, err := GeneratePassword()
	require.NoError(t, err)
	assert.Len(t, pw, 9)
}

func TestUsers_ListAndToggle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	root := e.subject(t, "root@example.com", AccountOptions{Superuser: true})
	staff := e.subject(t, "staff@example.com", AccountOptions{Staff: true})
	member := e.subject(t, "member@example.com", AccountOptions{})

	all, err := e.users.List(ctx, root)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	visible, err := e.users.List(ctx, staff)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, member.UserID, visible[0].ID)

	_, err = e.users.List(ctx, member)
	assert.ErrorIs(t, err, policies.ErrForbidden)

	active, err := e.users.ToggleActive(ctx, staff, member.UserID)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = e.users.ToggleActive(ctx, staff, root.UserID)
	assert.ErrorIs(t, err, policies.ErrForbidden)
}

func TestUsers_CreateModerator(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	root := e.subject(t, "root@example.com", AccountOptions{Superuser: true})
	staff := e.subject(t, "staff@example.com", AccountOptions{Staff: true})

	_, err := e.users.CreateModerator(ctx, staff, "mod@example.com", "password123")
	assert.ErrorIs(t, err, policies.ErrForbidden)

	mod, err := e.users.CreateModerator(ctx, root, "mod@example.com", "password123")
	require.NoError(t, err)
	assert.True(t, mod.IsStaff)
	assert.True(t, mod.IsActive)

	subj, err := e.users.Subject(ctx, mod)
	require.NoError(t, err)
	assert.True(t, policies.CanModerate(subj))
	assert.Equal(t, policies.Staff, subj.Role())
}

func TestUID(t *testing.T) {
	id, err := DecodeUID(EncodeUID(1234))
	require.NoError(t, err)
	assert.Equal(t, int64(1234), id)

	_, err = DecodeUID("!!!")
	assert.Error(t, err)
}
