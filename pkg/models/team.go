package models

// TeamMember is one person on the roster. The ID is the tracker's opaque
// account identifier and is what the assignment write operation expects.
type TeamMember struct {
	// ID is the opaque, stable account identifier.
	ID string `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// Email is the account email, optional.
	Email string `json:"email,omitempty"`
}

// Skill records that a team member owns a named skill. Owner fields are
// empty for skills tracked without an owner.
type Skill struct {
	// Name is the skill name (e.g. "react", "debugging").
	Name string `json:"name"`
	// Category groups related skills (e.g. "frontend", "process").
	Category string `json:"category"`
	// OwnerID is the owning member's account ID, optional.
	OwnerID string `json:"owner_id,omitempty"`
	// OwnerName is the owning member's display name, optional.
	OwnerName string `json:"owner_name,omitempty"`
}
