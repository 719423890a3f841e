package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/repository"
	"github.com/skillanthropy/skillanthropy-api/internal/search"
	"github.com/skillanthropy/skillanthropy-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrCharityNotFound            = errors.New("charity not found")
	ErrInvalidCharityName         = errors.New("charity name cannot be empty")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
	ErrInvalidInviteCode          = errors.New("invalid invite code")
	ErrAlreadyCharityMember       = errors.New("user is already a member of this charity")
	ErrCannotRemoveYourself       = errors.New("cannot remove yourself from the charity")
	ErrCharityMemberNotFound      = errors.New("charity member not found")
	ErrInvalidMemberRoles         = errors.New("invalid member roles")
)

// CharityService provides business logic for charity operations.
type CharityService struct {
	charityRepo repository.CharityRepository
	indexer     search.Engine
}

// NewCharityService creates a new CharityService.
func NewCharityService(charityRepo repository.CharityRepository, indexer search.Engine) *CharityService {
	return &CharityService{
		charityRepo: charityRepo,
		indexer:     indexer,
	}
}

// CreateCharityInput represents parameters to create a new charity.
type CreateCharityInput struct {
	Name         string
	Description  string
	Website      string
	ContactEmail string
	Tags         []string
	OwnerID      uint64
}

// CreateCharity creates a new charity with the owner as its admin.
func (s *CharityService) CreateCharity(ctx context.Context, input CreateCharityInput) (*models.Charity, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidCharityName
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	charity := &models.Charity{
		Name:         name,
		Description:  input.Description,
		Website:      input.Website,
		ContactEmail: input.ContactEmail,
		Tags:         cleanList(input.Tags),
		InviteCode:   inviteCode,
	}
	owner := &models.CharityMember{
		UserID:   input.OwnerID,
		Roles:    []models.MemberRole{models.RoleAdmin},
		JoinedAt: time.Now(),
	}

	if err := s.charityRepo.Create(charity, owner); err != nil {
		return nil, fmt.Errorf("failed to create charity: %w", err)
	}

	indexCharity(ctx, s.indexer, charity)
	return charity, nil
}

// ListCharitiesForUser returns the memberships of a user with their charities.
func (s *CharityService) ListCharitiesForUser(userID uint64) ([]models.CharityMember, error) {
	memberships, err := s.charityRepo.ListMembersByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list charities: %w", err)
	}
	return memberships, nil
}

// GetCharityWithMembers returns a charity and all of its members.
func (s *CharityService) GetCharityWithMembers(charityID uint64) (*models.Charity, []models.CharityMember, error) {
	charity, err := s.findCharity(charityID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.charityRepo.ListMembers(charityID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list charity members: %w", err)
	}

	return charity, members, nil
}

// UpdateCharityInput holds the fields to change. Nil fields are left as is.
type UpdateCharityInput struct {
	Name         *string
	Description  *string
	Website      *string
	ContactEmail *string
	Tags         *[]string
}

// UpdateCharity updates a charity's details.
func (s *CharityService) UpdateCharity(ctx context.Context, charityID uint64, input UpdateCharityInput) (*models.Charity, error) {
	charity, err := s.findCharity(charityID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidCharityName
		}
		charity.Name = name
	}
	if input.Description != nil {
		charity.Description = *input.Description
	}
	if input.Website != nil {
		charity.Website = *input.Website
	}
	if input.ContactEmail != nil {
		charity.ContactEmail = *input.ContactEmail
	}
	if input.Tags != nil {
		charity.Tags = cleanList(*input.Tags)
	}

	if err := s.charityRepo.Update(charity); err != nil {
		return nil, fmt.Errorf("failed to update charity: %w", err)
	}

	indexCharity(ctx, s.indexer, charity)
	return charity, nil
}

// DeleteCharity removes a charity with its tasks, applications and members.
func (s *CharityService) DeleteCharity(ctx context.Context, charityID uint64) error {
	if _, err := s.findCharity(charityID); err != nil {
		return err
	}

	if err := s.charityRepo.Delete(charityID); err != nil {
		return fmt.Errorf("failed to delete charity: %w", err)
	}

	unindex(ctx, s.indexer, search.CollectionCharities, charityID)
	return nil
}

// JoinCharityByInvite adds a user to a charity as a volunteer via invite code.
func (s *CharityService) JoinCharityByInvite(userID uint64, inviteCode string) (*models.Charity, error) {
	charity, err := s.charityRepo.FindByInviteCode(utils.NormalizeInviteCode(inviteCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find charity by invite code: %w", err)
	}

	if _, err := s.charityRepo.FindMember(charity.ID, userID); err == nil {
		return nil, ErrAlreadyCharityMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.CharityMember{
		CharityID: charity.ID,
		UserID:    userID,
		Roles:     []models.MemberRole{models.RoleVolunteer},
		JoinedAt:  time.Now(),
	}

	if err := s.charityRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member to charity: %w", err)
	}

	return charity, nil
}

// RegenerateInviteCode generates a new invite code for the charity.
func (s *CharityService) RegenerateInviteCode(charityID uint64) (*models.Charity, error) {
	charity, err := s.findCharity(charityID)
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	charity.InviteCode = code
	if err := s.charityRepo.Update(charity); err != nil {
		return nil, fmt.Errorf("failed to update invite code: %w", err)
	}

	return charity, nil
}

// UpdateMemberRoles replaces the role set of a member. At least one role is required.
func (s *CharityService) UpdateMemberRoles(charityID, targetID uint64, roles []models.MemberRole) (*models.CharityMember, error) {
	normalized, err := models.NormalizeRoles(roles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMemberRoles, err)
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("%w: at least one role is required", ErrInvalidMemberRoles)
	}

	member, err := s.charityRepo.FindMember(charityID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharityMemberNotFound
		}
		return nil, fmt.Errorf("failed to find charity member: %w", err)
	}

	member.Roles = normalized
	if err := s.charityRepo.UpdateMember(member); err != nil {
		return nil, fmt.Errorf("failed to update member roles: %w", err)
	}

	return member, nil
}

// RemoveMember removes a member from the charity.
func (s *CharityService) RemoveMember(charityID, actorID, targetID uint64) error {
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	if _, err := s.charityRepo.FindMember(charityID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCharityMemberNotFound
		}
		return fmt.Errorf("failed to find charity member: %w", err)
	}

	if err := s.charityRepo.RemoveMember(charityID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

func (s *CharityService) findCharity(charityID uint64) (*models.Charity, error) {
	charity, err := s.charityRepo.FindByID(charityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharityNotFound
		}
		return nil, fmt.Errorf("failed to find charity: %w", err)
	}
	return charity, nil
}
