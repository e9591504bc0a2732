// Package registry tracks vault instances by address so collaborators can
// construct a vault once and address it afterwards.
package registry

import (
	"errors"
	"sync"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/vault"
)

var ErrVaultNotFound = errors.New("vault not found")

// Registry maps vault addresses to live instances. The options given at
// construction (store, publisher, payout) are applied to every vault it
// creates, so all instances share one wiring.
type Registry struct {
	mu     sync.RWMutex
	vaults map[string]*vault.Vault
	opts   []vault.Option
}

func New(opts ...vault.Option) *Registry {
	return &Registry{
		vaults: make(map[string]*vault.Vault),
		opts:   opts,
	}
}

// Create constructs a vault owned by the caller and registers it under its
// generated address.
func (r *Registry) Create(owner vault.Address) *vault.Vault {
	v := vault.New(owner, r.opts...)

	r.mu.Lock()
	r.vaults[v.Address()] = v
	r.mu.Unlock()

	return v
}

func (r *Registry) Get(address string) (*vault.Vault, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vaults[address]
	if !ok {
		return nil, ErrVaultNotFound
	}
	return v, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.vaults)
}
