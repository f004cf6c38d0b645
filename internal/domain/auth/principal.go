package auth

import "github.com/google/uuid"

type Role string

const (
	RoleParent Role = "parent"
	RoleKid    Role = "kid"
)

// Principal is the typed identity resolved from a session token. Downstream
// code never sees the raw claims bag; a principal is either a parent
// (ParentID set, KidID nil) or a kid (both set).
type Principal struct {
	Role     Role
	ParentID uuid.UUID
	KidID    uuid.UUID
}

func (p Principal) IsParent() bool { return p.Role == RoleParent }
func (p Principal) IsKid() bool    { return p.Role == RoleKid }
