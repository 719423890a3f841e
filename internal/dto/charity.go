package dto

import (
	"time"

	"github.com/skillanthropy/skillanthropy-api/internal/models"
)

// CharityDTO represents a charity in API responses
type CharityDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Website      string    `json:"website"`
	ContactEmail string    `json:"contact_email"`
	Tags         []string  `json:"tags"`
	InviteCode   string    `json:"invite_code,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CharityMemberDTO represents a member of a charity
type CharityMemberDTO struct {
	User     UserDTO             `json:"user"`
	Roles    []models.MemberRole `json:"roles"`
	JoinedAt time.Time           `json:"joined_at"`
}

// CharityDetailDTO is a charity with its members and the caller's roles
type CharityDetailDTO struct {
	Charity   CharityDTO          `json:"charity"`
	Members   []CharityMemberDTO  `json:"members"`
	YourRoles []models.MemberRole `json:"your_roles"`
}

// MembershipDTO is one charity the caller belongs to
type MembershipDTO struct {
	Charity CharityDTO          `json:"charity"`
	Roles   []models.MemberRole `json:"roles"`
}

// ToCharityDTO converts a Charity model. Invite codes are only shown to members.
func ToCharityDTO(charity models.Charity, includeInviteCode bool) CharityDTO {
	dto := CharityDTO{
		ID:           charity.ID,
		Name:         charity.Name,
		Description:  charity.Description,
		Website:      charity.Website,
		ContactEmail: charity.ContactEmail,
		Tags:         nonNil(charity.Tags),
		CreatedAt:    charity.CreatedAt,
	}
	if includeInviteCode {
		dto.InviteCode = charity.InviteCode
	}
	return dto
}

func ToCharityMemberDTO(member models.CharityMember) CharityMemberDTO {
	return CharityMemberDTO{
		User:     ToUserDTO(member.User, false),
		Roles:    member.Roles,
		JoinedAt: member.JoinedAt,
	}
}

func ToCharityDetailDTO(charity models.Charity, members []models.CharityMember, yourRoles []models.MemberRole) CharityDetailDTO {
	items := make([]CharityMemberDTO, len(members))
	for i, m := range members {
		items[i] = ToCharityMemberDTO(m)
	}
	return CharityDetailDTO{
		Charity:   ToCharityDTO(charity, true),
		Members:   items,
		YourRoles: yourRoles,
	}
}

func ToMembershipDTOs(memberships []models.CharityMember) []MembershipDTO {
	items := make([]MembershipDTO, len(memberships))
	for i, m := range memberships {
		items[i] = MembershipDTO{
			Charity: ToCharityDTO(m.Charity, true),
			Roles:   m.Roles,
		}
	}
	return items
}
