package app

import (
	"strings"

	"medequip-admin/internal/core"
)

// LoginRequest holds sign-in credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks both fields are present.
func (r LoginRequest) Validate() error {
	return core.ValidateStruct(r)
}

// RegisterRequest holds sign-up details.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Validate checks the fields and requires a 6-character password.
func (r RegisterRequest) Validate() error {
	return core.ValidateStruct(r)
}

func (r *LoginRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *RegisterRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}
