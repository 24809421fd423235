package common

import (
	"fmt"
	"strconv"
)

const (
	PrefixLength = 4
)

// RoleType defines the actor role in the portal.
type RoleType string

const (
	RoleCrew   RoleType = "crew"
	RoleOffice RoleType = "office"
)

// Actor represents a CRM identity that maps to a portal user id.
// Field crew records and office staff records live in separate CRM
// tables with overlapping numeric ids, so the portal id carries a
// role prefix.
type Actor struct {
	Id   int64
	Role RoleType
}

// ToPortalUserId converts an Actor to the portal's string user id.
//
//	Actor{Id: 42, Role: RoleCrew}.ToPortalUserId()   => "cr__42"
//	Actor{Id: 7, Role: RoleOffice}.ToPortalUserId()  => "of__7"
func (a *Actor) ToPortalUserId() (string, error) {
	switch a.Role {
	case RoleCrew:
		return fmt.Sprintf("cr__%d", a.Id), nil
	case RoleOffice:
		return fmt.Sprintf("of__%d", a.Id), nil
	default:
		return "", fmt.Errorf("failed to transfer actor to user id, role: %s", a.Role)
	}
}

// FromPortalUserId parses a portal user id string back into an Actor.
// Returns an error if the format is unrecognised.
func (a *Actor) FromPortalUserId(userId string) error {
	if a == nil {
		return fmt.Errorf("actor is nil")
	}
	if len(userId) < PrefixLength+1 {
		return fmt.Errorf("invalid userId: %q", userId)
	}
	prefix := userId[:PrefixLength]
	idStr := userId[PrefixLength:]
	switch prefix {
	case "cr__":
		a.Role = RoleCrew
	case "of__":
		a.Role = RoleOffice
	default:
		return fmt.Errorf("unknown prefix: %q", prefix)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id: %q", idStr)
	}
	a.Id = id
	return nil
}
