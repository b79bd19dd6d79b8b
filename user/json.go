package user

import (
	"encoding/json"
	"fmt"
)

// Variant tags used in the serialized form of a User. The tag is always
// encoded explicitly and unrecognized tags are rejected; there is no
// default branch that falls through to a guest identity.
const (
	TypeGuest    = "guest"
	TypeService  = "service"
	TypeStandard = "standard"
)

// DecodingError reports a serialized identity that could not be decoded.
type DecodingError struct {
	Reason string
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("invalid user encoding: %s", e.Reason)
}

type guestJSON struct {
	Type string  `json:"type"`
	ID   GuestID `json:"id"`
}

type serviceJSON struct {
	Type string    `json:"type"`
	ID   ServiceID `json:"id"`
	Name string    `json:"name"`
}

type standardJSON struct {
	Type       string       `json:"type"`
	ID         StandardID   `json:"id"`
	Role       string       `json:"role"`
	OtherRoles []string     `json:"otherRoles,omitempty"`
	Profile    OrcidProfile `json:"profile"`
}

func (u GuestUser) MarshalJSON() ([]byte, error) {
	return json.Marshal(guestJSON{Type: TypeGuest, ID: u.ID})
}

func (u ServiceUser) MarshalJSON() ([]byte, error) {
	return json.Marshal(serviceJSON{Type: TypeService, ID: u.ID, Name: u.Name})
}

func (u StandardUser) MarshalJSON() ([]byte, error) {
	var others []string
	for _, r := range u.OtherRoles {
		others = append(others, r.String())
	}

	return json.Marshal(standardJSON{
		Type:       TypeStandard,
		ID:         u.ID,
		Role:       u.ActiveRole.String(),
		OtherRoles: others,
		Profile:    u.Profile,
	})
}

// userDecoders dispatches on the variant tag. One canonical decoder exists
// per variant of the closed set.
var userDecoders = map[string]func([]byte) (User, error){
	TypeGuest:    decodeGuest,
	TypeService:  decodeService,
	TypeStandard: decodeStandard,
}

// DecodeUser decodes the JSON representation of a User, dispatching on the
// "type" tag. Unrecognized tags fail with *DecodingError.
func DecodeUser(data []byte) (User, error) {
	var probe struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &DecodingError{Reason: err.Error()}
	}
	if probe.Type == nil {
		return nil, &DecodingError{Reason: "missing type tag"}
	}

	decode, ok := userDecoders[*probe.Type]
	if !ok {
		return nil, &DecodingError{Reason: fmt.Sprintf("unrecognized type tag %q", *probe.Type)}
	}

	return decode(data)
}

func decodeGuest(data []byte) (User, error) {
	var v guestJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &DecodingError{Reason: err.Error()}
	}

	return GuestUser{ID: v.ID}, nil
}

func decodeService(data []byte) (User, error) {
	var v serviceJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &DecodingError{Reason: err.Error()}
	}
	if v.Name == "" {
		return nil, &DecodingError{Reason: "service user is missing a name"}
	}

	return ServiceUser{ID: v.ID, Name: v.Name}, nil
}

func decodeStandard(data []byte) (User, error) {
	var v standardJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &DecodingError{Reason: err.Error()}
	}

	role, err := ParseStandardRole(v.Role)
	if err != nil {
		return nil, &DecodingError{Reason: err.Error()}
	}

	var others []StandardRole
	for _, s := range v.OtherRoles {
		r, err := ParseStandardRole(s)
		if err != nil {
			return nil, &DecodingError{Reason: err.Error()}
		}
		others = append(others, r)
	}

	return StandardUser{ID: v.ID, ActiveRole: role, OtherRoles: others, Profile: v.Profile}, nil
}
