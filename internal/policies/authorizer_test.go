package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyFile(t *testing.T) {
	f, err := LoadFile("")
	require.NoError(t, err)

	assert.Contains(t, f.Blocklist, "казино")
	assert.Len(t, f.Grants(), 3)
}

func TestParseFile_UnknownParent(t *testing.T) {
	_, err := ParseFile([]byte("groups:\n  editor:\n    inherits: [ghost]\n"))
	assert.Error(t, err)
}

func TestAuthorizer_Resolve(t *testing.T) {
	f, err := ParseFile([]byte(`
groups:
  manager:
    permissions: [set_is_published, set_description, set_category]
  editor:
    permissions: [set_description]
  senior:
    inherits: [manager]
`))
	require.NoError(t, err)

	authz, err := NewAuthorizerFromFile(f)
	require.NoError(t, err)

	t.Run("Manager recebe as três permissões", func(t *testing.T) {
		caps, err := authz.Resolve([]string{ManagerGroup})
		require.NoError(t, err)
		s := Subject{UserID: 1, Authenticated: true, Groups: []string{ManagerGroup}, Capabilities: caps}
		assert.True(t, CanModerate(s))
	})

	t.Run("Editor recebe só a descrição", func(t *testing.T) {
		caps, err := authz.Resolve([]string{"editor"})
		require.NoError(t, err)
		assert.Equal(t, map[Permission]bool{PermSetDescription: true}, caps)
		assert.False(t, CanModerate(Subject{Authenticated: true, Capabilities: caps}))
	})

	t.Run("Herança entre grupos", func(t *testing.T) {
		caps, err := authz.Resolve([]string{"senior"})
		require.NoError(t, err)
		assert.Len(t, caps, 3)
	})

	t.Run("Sem grupos", func(t *testing.T) {
		caps, err := authz.Resolve(nil)
		require.NoError(t, err)
		assert.Empty(t, caps)
	})
}
