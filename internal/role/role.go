// Package role validates and normalizes system role strings against the
// fixed authorization vocabulary. Roles arrive as free text from clients and
// seed data; everything downstream (storage, token claims, shadow account
// sync) sees only the canonical casing.
package role

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/workforce-management/internal"
)

type Role string

const (
	Admin    Role = "Admin"
	HR       Role = "HR"
	Manager  Role = "Manager"
	Employee Role = "Employee"
)

// Default is what an absent role means, applied only to blank input.
const Default = Employee

var vocabulary = []Role{Admin, HR, Manager, Employee}

// All returns the vocabulary in a stable order.
func All() []Role {
	out := make([]Role, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// Canonicalize maps input onto the vocabulary case-insensitively. Blank
// input yields the default member; a non-blank string that matches nothing
// is rejected, never silently coerced to the default.
func Canonicalize(input string) (Role, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Default, nil
	}

	for _, member := range vocabulary {
		if strings.EqualFold(trimmed, string(member)) {
			return member, nil
		}
	}

	return "", internal.NewValidationError(
		fmt.Sprintf("invalid role %q, valid roles are: %s", trimmed, names()),
		internal.ErrCodeInvalidRole,
	)
}

// IsValid reports whether input canonicalizes without error.
func IsValid(input string) bool {
	_, err := Canonicalize(input)
	return err == nil
}

func names() string {
	parts := make([]string, len(vocabulary))
	for i, member := range vocabulary {
		parts[i] = string(member)
	}
	return strings.Join(parts, ", ")
}
