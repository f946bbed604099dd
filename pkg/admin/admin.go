// Package admin backs the admin settings panel: the user list and creation of
// further admins. Both are gated on the ADMIN role of the current user.
package admin

import (
	"context"
	"errors"

	"tableflip.dev/journal/pkg/api"
)

const (
	NoticeText     = "You must be an admin to access these settings."
	CreatedText    = "Admin created successfully"
	CreateFailText = "Admin creation failed"
)

// ErrNotAdmin is returned without a request when the user lacks the ADMIN role.
var ErrNotAdmin = errors.New("admin: " + NoticeText)

// Backend is the admin part of *api.Client.
type Backend interface {
	ListUsers(ctx context.Context) ([]api.User, error)
	CreateAdmin(ctx context.Context, u api.NewUser) error
}

// Panel performs admin actions on behalf of user.
type Panel struct {
	backend Backend
	user    api.User
}

func NewPanel(b Backend, user api.User) *Panel {
	return &Panel{backend: b, user: user}
}

// Allowed reports whether the panel is usable.
func (p *Panel) Allowed() bool {
	return p.user.IsAdmin()
}

// Users lists every account.
func (p *Panel) Users(ctx context.Context) ([]api.User, error) {
	if !p.Allowed() {
		return nil, ErrNotAdmin
	}
	return p.backend.ListUsers(ctx)
}

// CreateAdmin validates u and registers it as an admin.
func (p *Panel) CreateAdmin(ctx context.Context, u api.NewUser) error {
	if !p.Allowed() {
		return ErrNotAdmin
	}
	if err := u.Validate(); err != nil {
		return err
	}
	return p.backend.CreateAdmin(ctx, u)
}

// ResultText is the line shown under the create form after a CreateAdmin.
func ResultText(err error) string {
	if err == nil {
		return CreatedText
	}
	if errors.Is(err, ErrNotAdmin) {
		return NoticeText
	}
	return api.Message(err, CreateFailText)
}
