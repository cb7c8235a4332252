package domain

import "time"

// Company is the only principal type: it both owns resources and acts on them.
type Company struct {
	ID           int64
	Name         string
	Industry     string
	Email        string
	PasswordHash string
	FoundedYear  int
	Services     []string
	Description  string
	ProfilePhoto *string
	Role         Role
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the company holds one of roles.
func (c *Company) HasRole(roles ...Role) bool {
	if c == nil {
		return false
	}
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}
