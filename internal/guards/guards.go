// Package guards holds the authorization decisions consulted by every
// mutating service call before it touches storage.
package guards

import "storefront/internal/models"

// Decision is the outcome of a guard. The zero value is a rejection with
// no reason and should not be used; build decisions with Allow or Reject.
type Decision struct {
	allowed bool
	reason  error
}

func Allow() Decision {
	return Decision{allowed: true}
}

func Reject(reason error) Decision {
	return Decision{reason: reason}
}

func (d Decision) Allowed() bool {
	return d.allowed
}

// Err returns nil for an allowed decision and the rejection reason otherwise.
func (d Decision) Err() error {
	if d.allowed {
		return nil
	}
	if d.reason == nil {
		return models.ErrPermissionDenied
	}
	return d.reason
}

// RequireIdentity rejects anonymous callers.
func RequireIdentity(ac models.AuthContext) Decision {
	if !ac.Authenticated() {
		return Reject(models.ErrNotAuthenticated)
	}
	return Allow()
}

// CheckPermissions allows when granted and required share at least one tag.
func CheckPermissions(granted, required []models.Permission) Decision {
	for _, want := range required {
		for _, have := range granted {
			if have == want {
				return Allow()
			}
		}
	}
	return Reject(models.ErrPermissionDenied)
}

// RequirePermissions checks identity first, then that the caller holds any
// one of required.
func RequirePermissions(ac models.AuthContext, required ...models.Permission) Decision {
	if d := RequireIdentity(ac); !d.Allowed() {
		return d
	}
	if ac.User == nil {
		return Reject(models.ErrNotAuthenticated)
	}
	return CheckPermissions(ac.User.Permissions, required)
}

// CheckOwnership allows iff the resource owner is the caller.
func CheckOwnership(ownerID, callerID string) Decision {
	if ownerID == "" || ownerID != callerID {
		return Reject(models.ErrOwnershipDenied)
	}
	return Allow()
}

// CheckOwnershipOrAdmin is CheckOwnership with a bypass for ADMIN callers.
func CheckOwnershipOrAdmin(ac models.AuthContext, ownerID string) Decision {
	if ac.User.HasPermission(models.PermissionAdmin) {
		return Allow()
	}
	return CheckOwnership(ownerID, ac.UserID)
}
