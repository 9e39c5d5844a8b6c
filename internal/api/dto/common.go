package dto

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Kind    string            `json:"kind,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// NullableUUID distinguishes an absent JSON field from an explicit null,
// which update requests use to mean "keep" versus "clear".
type NullableUUID struct {
	Set bool
	ID  *uuid.UUID
}

func (n *NullableUUID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.ID = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.ID = &id
	return nil
}

func (n NullableUUID) MarshalJSON() ([]byte, error) {
	if n.ID == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.ID)
}

// NullableString is the string counterpart of NullableUUID; an explicit null
// clears the field.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

func (n NullableString) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
