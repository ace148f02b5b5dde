package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Credentials are platform login details. They are used for a single browser
// session and never persisted or logged.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Usable reports whether both username and password are present.
func (c *Credentials) Usable() bool {
	return c != nil && strings.TrimSpace(c.Username) != "" && c.Password != ""
}

// Validate validates the Credentials using the validator.
func (c *Credentials) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// String masks the password so credentials can never leak through %v.
func (c Credentials) String() string {
	return "Credentials{Username: " + c.Username + ", Password: ****}"
}
