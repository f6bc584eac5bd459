package policies

import (
	"fmt"
	"sort"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Todas as permissões de conteúdo são concedidas sobre o mesmo objeto.
const contentObject = "content"

// Authorizer resolve grupos em capacidades. É montado na inicialização e
// depois só é lido.
type Authorizer struct {
	enforcer    *casbin.Enforcer
	permissions []Permission
}

// NewAuthorizer carrega as concessões e as heranças entre grupos.
func NewAuthorizer(grants []Grant, inherits map[string][]string) (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to build rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	seen := map[Permission]bool{}
	for _, p := range ModerationPermissions {
		seen[p] = true
	}
	for _, g := range grants {
		if _, err := e.AddPolicy(g.Group, contentObject, string(g.Permission)); err != nil {
			return nil, fmt.Errorf("failed to add grant %s/%s: %w", g.Group, g.Permission, err)
		}
		seen[g.Permission] = true
	}
	for child, parents := range inherits {
		for _, parent := range parents {
			if _, err := e.AddGroupingPolicy(child, parent); err != nil {
				return nil, fmt.Errorf("failed to add inheritance %s -> %s: %w", child, parent, err)
			}
		}
	}

	perms := make([]Permission, 0, len(seen))
	for p := range seen {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })

	return &Authorizer{enforcer: e, permissions: perms}, nil
}

// NewAuthorizerFromFile monta o Authorizer a partir de um documento de política.
func NewAuthorizerFromFile(f *File) (*Authorizer, error) {
	inherits := make(map[string][]string)
	for name, g := range f.Groups {
		if len(g.Inherits) > 0 {
			inherits[name] = g.Inherits
		}
	}
	return NewAuthorizer(f.Grants(), inherits)
}

// Resolve devolve o conjunto de capacidades dos grupos informados.
func (a *Authorizer) Resolve(groups []string) (map[Permission]bool, error) {
	caps := make(map[Permission]bool)
	for _, g := range groups {
		for _, p := range a.permissions {
			if caps[p] {
				continue
			}
			ok, err := a.enforcer.Enforce(g, contentObject, string(p))
			if err != nil {
				return nil, fmt.Errorf("failed to enforce %s/%s: %w", g, p, err)
			}
			if ok {
				caps[p] = true
			}
		}
	}
	return caps, nil
}

// Permissions lista todas as permissões conhecidas.
func (a *Authorizer) Permissions() []Permission {
	return a.permissions
}
