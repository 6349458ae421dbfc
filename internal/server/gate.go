package server

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/shared"
)

// Gate checks a submitted password against the user and admin secrets.
type Gate struct {
	password      []byte
	adminPassword []byte
}

// NewGate creates a [Gate]. Both secrets must be set.
func NewGate(cfg shared.AuthConfig) (*Gate, error) {
	var missing []string
	if cfg.Password == "" {
		missing = append(missing, "auth.password")
	}
	if cfg.AdminPassword == "" {
		missing = append(missing, "auth.admin_password")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, strings.Join(missing, ", "))
	}

	return &Gate{password: []byte(cfg.Password), adminPassword: []byte(cfg.AdminPassword)}, nil
}

// Authenticate returns the role granted by input.
//
// The admin secret is checked first so it wins when both secrets are equal.
// Any other input returns [models.RoleNone] and [shared.ErrAuthFailed].
func (g *Gate) Authenticate(input string) (models.Role, error) {
	in := []byte(input)
	if subtle.ConstantTimeCompare(in, g.adminPassword) == 1 {
		return models.RoleAdmin, nil
	}
	if subtle.ConstantTimeCompare(in, g.password) == 1 {
		return models.RoleUser, nil
	}
	return models.RoleNone, shared.ErrAuthFailed
}
