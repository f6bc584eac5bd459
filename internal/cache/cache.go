// Package cache guarda valores serializados por chave com expiração própria da store.
package cache

import "context"

// Store é um cache chave/valor. Get devolve ok=false em caso de miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Nop nunca guarda nada. Usado com o cache desligado.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte) error         { return nil }
