package policy

import (
	"fmt"
	"strings"

	"github.com/tcnexs/backend/internal/domain"
)

// ListingVisibility controls which projects the collection endpoint returns.
type ListingVisibility string

const (
	// VisibilityMembership lists only projects the actor is a member of.
	VisibilityMembership ListingVisibility = "membership"
	// VisibilityOpen lists every project to any authenticated actor.
	VisibilityOpen ListingVisibility = "open"
)

// ParseListingVisibility accepts "membership" (also "membership-restricted") or "open".
func ParseListingVisibility(s string) (ListingVisibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(VisibilityMembership), "membership-restricted":
		return VisibilityMembership, nil
	case string(VisibilityOpen):
		return VisibilityOpen, nil
	}
	return "", fmt.Errorf("unknown listing visibility %q", s)
}

// ListScope is the row restriction a listing query must apply.
type ListScope struct {
	// MemberID, when set, limits rows to projects where it is customer or executor.
	MemberID *int64
}

// ProjectListScope decides whether actor may list projects and, if so, which
// rows are visible under vis.
func ProjectListScope(actor *domain.Company, vis ListingVisibility) (ListScope, Decision) {
	d := ForProject(actor, nil, OpList)
	if !d.Permitted() {
		return ListScope{}, d
	}
	if vis == VisibilityOpen {
		return ListScope{}, d
	}
	id := actor.ID
	return ListScope{MemberID: &id}, d
}
