// Package access decides, per request, whether a caller may perform an
// action. Evaluate is pure: the same claims, role set and owner id always
// yield the same decision, with no side effects, so it can be tested against
// synthetic inputs and reused by middleware and services alike.
package access

import (
	"github.com/google/uuid"

	"github.com/shelterhub/backend/internal/apperr"
	"github.com/shelterhub/backend/internal/domain"
	"github.com/shelterhub/backend/internal/util"
)

type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnauthenticated
	ReasonForbidden
)

type Decision struct {
	Allowed bool
	Reason  Reason
	Message string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason Reason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

// Err converts a decision into the matching operational error, or nil when
// the decision allows the action.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == ReasonUnauthenticated {
		return apperr.Unauthorized("%s", d.Message)
	}
	return apperr.Forbidden("%s", d.Message)
}

// Evaluate applies the authorization rules in order:
//  1. no claims -> deny, unauthenticated
//  2. caller role outside a non-empty required set -> deny, forbidden
//  3. owner check requested -> allow administrators or the owner, else deny
//  4. otherwise allow
func Evaluate(claims *util.Claims, required []domain.Role, ownerID *uuid.UUID) Decision {
	if claims == nil {
		return deny(ReasonUnauthenticated, "authentication required")
	}

	if len(required) > 0 {
		found := false
		for _, role := range required {
			if claims.Role == role {
				found = true
				break
			}
		}
		if !found {
			return deny(ReasonForbidden, "insufficient role for this action")
		}
	}

	if ownerID != nil {
		if claims.Role == domain.RoleAdministrator {
			return allow()
		}
		if claims.AccountID != *ownerID {
			return deny(ReasonForbidden, "you do not have permission to access this resource")
		}
	}

	return allow()
}
