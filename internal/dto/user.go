package dto

import "github.com/skillanthropy/skillanthropy-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64               `json:"id"`
	Name      string               `json:"name"`
	Email     string               `json:"email,omitempty"`
	Roles     []models.AccountRole `json:"roles"`
	Skills    []string             `json:"skills"`
	Bio       string               `json:"bio"`
	TechTitle string               `json:"tech_title"`
}

// ToUserDTO converts a User model to UserDTO. The email is only shown to the user themself.
func ToUserDTO(user models.User, includeEmail bool) UserDTO {
	dto := UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Roles:     nonNilRoles(user.Roles),
		Skills:    nonNil(user.Skills),
		Bio:       user.Bio,
		TechTitle: user.TechTitle,
	}
	if includeEmail {
		dto.Email = user.Email
	}
	return dto
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilRoles(roles []models.AccountRole) []models.AccountRole {
	if roles == nil {
		return []models.AccountRole{}
	}
	return roles
}
