package auth

import (
	"context"
	"sync"

	"github.com/KichuProject/Srs-Proj/internal/metrics"
	"github.com/KichuProject/Srs-Proj/internal/validation"
)

// The desk has a single operator account.
const (
	operatorEmail    = "kichu@gmail.com"
	operatorPassword = "kichuu"
)

// FlagStore keeps the signed-in flag outside the process so it survives restarts.
type FlagStore interface {
	IsAuthenticated(ctx context.Context) (bool, error)
	SetAuthenticated(ctx context.Context, v bool) error
}

// MemoryFlag is a FlagStore that lives as long as the process.
type MemoryFlag struct {
	mu sync.RWMutex
	v  bool
}

// IsAuthenticated reports the flag.
func (m *MemoryFlag) IsAuthenticated(context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v, nil
}

// SetAuthenticated sets the flag.
func (m *MemoryFlag) SetAuthenticated(_ context.Context, v bool) error {
	m.mu.Lock()
	m.v = v
	m.mu.Unlock()
	return nil
}

// Authenticator checks the operator credentials and maintains the signed-in flag.
type Authenticator struct {
	flags   FlagStore
	metrics *metrics.Recorder
}

// NewAuthenticator uses flags for the signed-in state; m may be nil.
func NewAuthenticator(flags FlagStore, m *metrics.Recorder) *Authenticator {
	return &Authenticator{flags: flags, metrics: m}
}

// Login validates the form and sets the flag when email and password match exactly.
// A well-formed but wrong pair returns false and no error; the flag is left as it was.
func (a *Authenticator) Login(ctx context.Context, email, password string) (bool, error) {
	if err := validation.Login(validation.Credentials{Email: email, Password: password}); err != nil {
		a.metrics.Login("invalid")
		return false, err
	}
	if email != operatorEmail || password != operatorPassword {
		a.metrics.Login("denied")
		return false, nil
	}
	if err := a.flags.SetAuthenticated(ctx, true); err != nil {
		return false, err
	}
	a.metrics.Login("ok")
	return true, nil
}

// Logout clears the flag.
func (a *Authenticator) Logout(ctx context.Context) error {
	return a.flags.SetAuthenticated(ctx, false)
}

// IsAuthenticated reads the flag.
func (a *Authenticator) IsAuthenticated(ctx context.Context) (bool, error) {
	return a.flags.IsAuthenticated(ctx)
}
