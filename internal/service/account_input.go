package service

import (
	"github.com/shelterhub/backend/internal/apperr"
	"github.com/shelterhub/backend/internal/domain"
	"github.com/shelterhub/backend/internal/util"
)

// accountInput is the normalized result of validating a raw account payload.
// Pointer fields distinguish "absent" from "zero" so updates stay partial.
type accountInput struct {
	Name     *string
	Email    *string
	Password *string
	Phone    *string
	Role     *domain.Role
	Active   *bool
}

var accountFieldSet = map[string]struct{}{
	"name":     {},
	"email":    {},
	"password": {},
	"phone":    {},
	"role":     {},
	"active":   {},
}

// parseAccountInput validates and normalizes a raw payload. It fails fast on
// the first violated rule and never touches persistence; uniqueness is the
// service's concern.
func parseAccountInput(raw map[string]any, create bool) (*accountInput, error) {
	if err := unknownFieldCheck(raw, accountFieldSet); err != nil {
		return nil, err
	}

	in := &accountInput{}
	var err error

	if in.Name, err = stringField(raw, "name"); err != nil {
		return nil, err
	}
	if in.Email, err = stringField(raw, "email"); err != nil {
		return nil, err
	}
	if in.Password, err = stringField(raw, "password"); err != nil {
		return nil, err
	}
	if in.Phone, err = stringField(raw, "phone"); err != nil {
		return nil, err
	}
	if in.Active, err = boolField(raw, "active"); err != nil {
		return nil, err
	}

	if create {
		if err := requiredString(in.Name, "name"); err != nil {
			return nil, err
		}
		if err := requiredString(in.Email, "email"); err != nil {
			return nil, err
		}
		if err := requiredString(in.Password, "password"); err != nil {
			return nil, err
		}
	}

	if in.Email != nil && *in.Email != "" && !validEmail(*in.Email) {
		return nil, apperr.BadRequest("invalid email format")
	}
	if in.Password != nil {
		if err := util.ValidatePassword(*in.Password); err != nil {
			return nil, apperr.BadRequest("%s", err.Error())
		}
	}

	if rawRole, err := stringField(raw, "role"); err != nil {
		return nil, err
	} else if rawRole != nil {
		role, err := domain.ParseRole(*rawRole)
		if err != nil {
			return nil, apperr.BadRequest("%s", err.Error())
		}
		in.Role = &role
	} else if create {
		role := domain.RoleMember
		in.Role = &role
	}

	return in, nil
}
