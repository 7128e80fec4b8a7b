// Package authz provides the policy checks every operation runs before
// touching data.
package authz

import "inkwell/internal/models"

// Identity is the resolved caller identity attached to a request. A request
// with no or an invalid credential carries an unauthenticated Identity; it is
// each operation's job to decide whether that matters.
type Identity struct {
	UserID        uint
	Authenticated bool
}

// RequireAuthenticated fails with a 401 error when the caller is not
// authenticated.
func RequireAuthenticated(id Identity) error {
	if !id.Authenticated {
		return models.NewUnauthenticatedError("Not authenticated.")
	}
	return nil
}

// RequireOwner fails with a 403 error when the caller is not the owner of
// the resource.
func RequireOwner(id Identity, ownerID uint) error {
	if id.UserID != ownerID {
		return models.NewForbiddenError("Not authorized.")
	}
	return nil
}
