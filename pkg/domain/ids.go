// Package domain holds the typed identifiers shared across bounded contexts.
// Distinct ID types prevent cross-wiring a user where a visit is expected; the
// compiler enforces what code review would otherwise have to catch.
package domain

import (
	"github.com/google/uuid"

	dErrors "trailmark/pkg/domain-errors"
)

// UserID identifies the owner of visit records. Issued by the external
// identity provider; this service only parses and carries it.
type UserID uuid.UUID

// VisitID identifies a single visit record.
type VisitID uuid.UUID

// NewVisitID returns a fresh random VisitID.
func NewVisitID() VisitID {
	return VisitID(uuid.New())
}

// ParseUserID constructs a UserID from external input.
//
// Invariant: IDs must be valid, non-empty, non-nil UUIDs. Returns
// CodeInvalidInput otherwise.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	if err != nil {
		return UserID(uuid.Nil), err
	}
	return UserID(u), nil
}

// ParseVisitID constructs a VisitID from external input. Same rules as
// ParseUserID.
func ParseVisitID(s string) (VisitID, error) {
	u, err := parseUUID(s, "visit id")
	if err != nil {
		return VisitID(uuid.Nil), err
	}
	return VisitID(u), nil
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", label)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", label)
	}
	return u, nil
}

func (u UserID) String() string { return uuid.UUID(u).String() }
func (u UserID) IsNil() bool    { return uuid.UUID(u) == uuid.Nil }

// MarshalText renders the ID as a canonical UUID string, so the type is safe
// as a JSON value and as a JSON map key.
func (u UserID) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// UnmarshalText parses with the same rules as ParseUserID.
func (u *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

func (v VisitID) String() string { return uuid.UUID(v).String() }
func (v VisitID) IsNil() bool    { return uuid.UUID(v) == uuid.Nil }

// MarshalText renders the ID as a canonical UUID string.
func (v VisitID) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText parses with the same rules as ParseVisitID.
func (v *VisitID) UnmarshalText(text []byte) error {
	parsed, err := ParseVisitID(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
