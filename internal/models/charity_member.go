package models

import (
	"fmt"
	"time"
)

// MemberRole is one of the independent role tags a charity member may hold.
type MemberRole string

const (
	RoleAdmin       MemberRole = "admin"
	RoleCoordinator MemberRole = "coordinator"
	RoleEditor      MemberRole = "editor"
	RoleVolunteer   MemberRole = "volunteer"
	RoleSupporter   MemberRole = "supporter"
)

var validMemberRoles = map[MemberRole]struct{}{
	RoleAdmin:       {},
	RoleCoordinator: {},
	RoleEditor:      {},
	RoleVolunteer:   {},
	RoleSupporter:   {},
}

type CharityMember struct {
	ID        uint64       `gorm:"primarykey" json:"id"`
	CharityID uint64       `gorm:"not null;uniqueIndex:idx_charity_members_charity_user" json:"charity_id"`
	UserID    uint64       `gorm:"not null;uniqueIndex:idx_charity_members_charity_user" json:"user_id"`
	Roles     []MemberRole `gorm:"serializer:json" json:"roles"`
	JoinedAt  time.Time    `json:"joined_at"`

	// Relations
	Charity Charity `gorm:"foreignKey:CharityID" json:"charity,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// HasRole reports whether the member holds any of the given roles.
func (m CharityMember) HasRole(roles ...MemberRole) bool {
	for _, held := range m.Roles {
		for _, r := range roles {
			if held == r {
				return true
			}
		}
	}
	return false
}

// NormalizeRoles validates role tags and returns them deduplicated in input order.
func NormalizeRoles(roles []MemberRole) ([]MemberRole, error) {
	seen := make(map[MemberRole]struct{}, len(roles))
	result := make([]MemberRole, 0, len(roles))
	for _, r := range roles {
		if _, ok := validMemberRoles[r]; !ok {
			return nil, fmt.Errorf("unknown member role %q", r)
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		result = append(result, r)
	}
	return result, nil
}
