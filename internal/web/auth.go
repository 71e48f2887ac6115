package web

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

var (
	errNoCredentials = errors.New("authentication required")
	errInvalidCreds  = errors.New("invalid credentials")
	errAdminDisabled = errors.New("admin access is not configured")
)

// authorizeAdmin checks HTTP basic credentials against the configured admin
func (s *Server) authorizeAdmin(r *http.Request) error {
	if s.cfg.AdminPasswordHash == "" {
		return errAdminDisabled
	}

	user, password, ok := r.BasicAuth()
	if !ok {
		return errNoCredentials
	}
	if user != s.cfg.AdminUser {
		return errInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return errInvalidCreds
	}
	return nil
}
