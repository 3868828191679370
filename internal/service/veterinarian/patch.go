package veterinarian

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vetstack/vetclinic-api/internal/model"
	apperrors "github.com/vetstack/vetclinic-api/pkg/errors"
)

// OptionalString is a three-state JSON value: absent from the patch,
// explicit null, or a string. The distinction drives the per-field
// update semantics below.
type OptionalString struct {
	Set   bool
	Valid bool
	Value string
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) {
		o.Valid = false
		return nil
	}
	o.Valid = true
	return json.Unmarshal(b, &o.Value)
}

// UpdateRequest is the whitelist of patchable veterinarian fields.
// Keys absent from the request body stay Unset and leave the stored
// value untouched.
type UpdateRequest struct {
	FirstName   OptionalString `json:"first_name"`
	LastName    OptionalString `json:"last_name"`
	Email       OptionalString `json:"email"`
	Sex         OptionalString `json:"sex"`
	Languages   OptionalString `json:"languages"`
	Description OptionalString `json:"description"`
}

// DecodeUpdateRequest parses a patch body. Keys outside the whitelist
// are rejected rather than applied blindly.
func DecodeUpdateRequest(r io.Reader) (*UpdateRequest, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var req UpdateRequest
	if err := dec.Decode(&req); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return nil, apperrors.Validation(err.Error(), err)
		}
		return nil, apperrors.Validation("invalid request body", err)
	}
	return &req, nil
}

// applyRequired updates a mandatory field. The value must be present
// and non-empty; null and empty string are both rejected.
func applyRequired(dst *string, field string, v OptionalString) error {
	if !v.Set {
		return nil
	}
	if !v.Valid || v.Value == "" {
		return apperrors.Validation(fmt.Sprintf("%s is mandatory and cannot be empty", field), nil)
	}
	*dst = v.Value
	return nil
}

// applyNullable updates one of the two nullable fields. Empty string
// clears the stored value to NULL; explicit null leaves it unchanged.
func applyNullable(dst **string, v OptionalString) {
	if !v.Set || !v.Valid {
		return
	}
	if v.Value == "" {
		*dst = nil
		return
	}
	value := v.Value
	*dst = &value
}

// Apply mutates vet in place according to the patch. It either applies
// every touched field or, on the first invalid required field, leaves
// the entity untouched for the caller to discard.
func (req *UpdateRequest) Apply(vet *model.Veterinarian) error {
	updated := *vet

	if err := applyRequired(&updated.FirstName, "first_name", req.FirstName); err != nil {
		return err
	}
	if err := applyRequired(&updated.LastName, "last_name", req.LastName); err != nil {
		return err
	}
	if err := applyRequired(&updated.Email, "email", req.Email); err != nil {
		return err
	}
	if err := applyRequired(&updated.Sex, "sex", req.Sex); err != nil {
		return err
	}

	applyNullable(&updated.Languages, req.Languages)
	applyNullable(&updated.Description, req.Description)

	*vet = updated
	return nil
}
