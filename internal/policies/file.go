package policies

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicy []byte

type GroupPolicy struct {
	Permissions []Permission `yaml:"permissions"`
	// Inherits lista grupos cujas permissões este grupo também recebe.
	Inherits []string `yaml:"inherits"`
}

// File é o documento YAML com as concessões por grupo e a lista de bloqueio.
type File struct {
	Groups    map[string]GroupPolicy `yaml:"groups"`
	Blocklist []string               `yaml:"blocklist"`
}

// Grant é uma linha (grupo, permissão).
type Grant struct {
	Group      string
	Permission Permission
}

// LoadFile lê path ou, com path vazio, o documento embutido.
func LoadFile(path string) (*File, error) {
	data := defaultPolicy
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read policy file: %w", err)
		}
	}
	return ParseFile(data)
}

func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}
	for name, g := range f.Groups {
		for _, parent := range g.Inherits {
			if _, ok := f.Groups[parent]; !ok {
				return nil, fmt.Errorf("group %q inherits unknown group %q", name, parent)
			}
		}
	}
	return &f, nil
}

// Grants devolve as concessões diretas em ordem estável.
func (f *File) Grants() []Grant {
	var out []Grant
	for name, g := range f.Groups {
		for _, p := range g.Permissions {
			out = append(out, Grant{Group: name, Permission: p})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Permission < out[j].Permission
	})
	return out
}
