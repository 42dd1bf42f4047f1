package service

import (
	"github.com/google/uuid"

	"github.com/shelterhub/backend/internal/apperr"
)

type shelterInput struct {
	Name      *string
	Address   *string
	Latitude  *float64
	Longitude *float64
	Capacity  *int
	Email     *string
	Phone     *string
	Active    *bool
	OwnerID   *uuid.UUID
}

var shelterFieldSet = map[string]struct{}{
	"name":      {},
	"address":   {},
	"latitude":  {},
	"longitude": {},
	"capacity":  {},
	"email":     {},
	"phone":     {},
	"active":    {},
	"owner_id":  {},
}

// parseShelterInput validates and normalizes a raw shelter payload. The
// owner_id existence check happens in the service, this stays a pure
// function of its input.
func parseShelterInput(raw map[string]any, create bool) (*shelterInput, error) {
	if err := unknownFieldCheck(raw, shelterFieldSet); err != nil {
		return nil, err
	}

	in := &shelterInput{}
	var err error

	if in.Name, err = stringField(raw, "name"); err != nil {
		return nil, err
	}
	if in.Address, err = stringField(raw, "address"); err != nil {
		return nil, err
	}
	if create {
		if err := requiredString(in.Name, "name"); err != nil {
			return nil, err
		}
		if err := requiredString(in.Address, "address"); err != nil {
			return nil, err
		}
	}

	if in.Latitude, err = floatField(raw, "latitude", -90, 90); err != nil {
		return nil, err
	}
	if in.Longitude, err = floatField(raw, "longitude", -180, 180); err != nil {
		return nil, err
	}
	if in.Capacity, err = nonNegativeIntField(raw, "capacity"); err != nil {
		return nil, err
	}

	if in.Email, err = stringField(raw, "email"); err != nil {
		return nil, err
	}
	if in.Email != nil && *in.Email != "" && !validEmail(*in.Email) {
		return nil, apperr.BadRequest("invalid email format")
	}

	if in.Phone, err = stringField(raw, "phone"); err != nil {
		return nil, err
	}
	if in.Active, err = boolField(raw, "active"); err != nil {
		return nil, err
	}
	if in.OwnerID, err = uuidField(raw, "owner_id"); err != nil {
		return nil, err
	}

	return in, nil
}

// fields flattens the normalized input into column assignments for the
// repository. Only present fields are included.
func (in *shelterInput) fields() map[string]any {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Address != nil {
		fields["address"] = *in.Address
	}
	if in.Latitude != nil {
		fields["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		fields["longitude"] = *in.Longitude
	}
	if in.Capacity != nil {
		fields["capacity"] = *in.Capacity
	}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if in.Active != nil {
		fields["active"] = *in.Active
	}
	if in.OwnerID != nil {
		fields["owner_id"] = *in.OwnerID
	}
	return fields
}
