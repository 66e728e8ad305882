package services

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"grocer/internal/core"
)

// Action is a menu capability checked against the user's role.
type Action string

const (
	ActionRecordSale Action = "record_sale"
	ActionSearch     Action = "search"
	ActionEditItems  Action = "edit_items"
	ActionReport     Action = "report"
)

var permissions = map[core.Role][]Action{
	core.Manager: {ActionRecordSale, ActionSearch, ActionEditItems, ActionReport},
	core.Cashier: {ActionRecordSale, ActionSearch},
}

// Authenticate finds username in users and checks password. Stored
// passwords may be plaintext or bcrypt hashes.
func Authenticate(users []core.User, username, password string) (core.User, error) {
	for _, u := range users {
		if u.Username != username {
			continue
		}
		if passwordMatches(u.Password, password) {
			return u, nil
		}
		break
	}
	return core.User{}, core.ErrAuthFailed
}

// Authorize reports whether role may perform action.
func Authorize(role core.Role, action Action) error {
	for _, a := range permissions[role] {
		if a == action {
			return nil
		}
	}
	return fmt.Errorf("%w: %s cannot %s", core.ErrForbidden, role, action)
}

func passwordMatches(stored, given string) bool {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func isBcrypt(s string) bool {
	for _, p := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
