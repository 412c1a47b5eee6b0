package domain

import (
	"fmt"
	"sort"
	"strings"
)

// RoleKind enumerates the role families a tenant role can belong to.
type RoleKind string

const (
	RoleNone       RoleKind = ""
	RoleAdmin      RoleKind = "admin"
	RoleManager    RoleKind = "manager"
	RoleDispatcher RoleKind = "dispatcher"
	RoleWarehouse  RoleKind = "warehouse"
	RoleDriver     RoleKind = "driver"
	RoleViewer     RoleKind = "viewer"
)

var knownRoleKinds = map[RoleKind]struct{}{
	RoleAdmin:      {},
	RoleManager:    {},
	RoleDispatcher: {},
	RoleWarehouse:  {},
	RoleDriver:     {},
	RoleViewer:     {},
}

// ParseRoleKind converts a stored or user supplied value into a RoleKind.
// Unknown values are rejected instead of silently mapping to RoleNone.
func ParseRoleKind(value string) (RoleKind, error) {
	kind := RoleKind(strings.ToLower(strings.TrimSpace(value)))
	if kind == RoleNone {
		return RoleNone, nil
	}
	if _, ok := knownRoleKinds[kind]; !ok {
		return RoleNone, fmt.Errorf("unknown role kind %q", value)
	}
	return kind, nil
}

// Valid reports whether the kind is one of the assignable role kinds.
func (k RoleKind) Valid() bool {
	_, ok := knownRoleKinds[k]
	return ok
}

// RoleSet is an immutable set of role kinds. The zero value is the empty set.
type RoleSet struct {
	kinds map[RoleKind]struct{}
}

// Roles builds a RoleSet from the supplied kinds.
func Roles(kinds ...RoleKind) RoleSet {
	set := RoleSet{kinds: make(map[RoleKind]struct{}, len(kinds))}
	for _, kind := range kinds {
		if kind == RoleNone {
			continue
		}
		set.kinds[kind] = struct{}{}
	}
	return set
}

// Empty reports whether the set allows any authenticated member.
func (s RoleSet) Empty() bool {
	return len(s.kinds) == 0
}

// Contains reports whether kind is a member of the set.
func (s RoleSet) Contains(kind RoleKind) bool {
	if kind == RoleNone {
		return false
	}
	_, ok := s.kinds[kind]
	return ok
}

// Slice returns the members sorted alphabetically.
func (s RoleSet) Slice() []RoleKind {
	out := make([]RoleKind, 0, len(s.kinds))
	for kind := range s.kinds {
		out = append(out, kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s RoleSet) String() string {
	members := s.Slice()
	parts := make([]string, len(members))
	for i, kind := range members {
		parts[i] = string(kind)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Role is a tenant scoped role definition.
type Role struct {
	ID          string   `json:"id"`
	TenantID    string   `json:"tenant_id"`
	Name        string   `json:"name"`
	Kind        RoleKind `json:"kind"`
	Description *string  `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
}
