package services

import (
	"strings"

	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/search"
)

func (s *ServiceTestSuite) TestCreateCharity_OwnerIsAdmin() {
	charity, err := s.charities.CreateCharity(s.ctx, CreateCharityInput{
		Name:    "  Code Club  ",
		Tags:    []string{"education", ""},
		OwnerID: s.techie.ID,
	})
	s.Require().NoError(err)
	s.Equal("Code Club", charity.Name)
	s.Equal([]string{"education"}, charity.Tags)
	s.Len(charity.InviteCode, 14)

	member, err := s.charityRepo.FindMember(charity.ID, s.techie.ID)
	s.Require().NoError(err)
	s.Equal([]models.MemberRole{models.RoleAdmin}, member.Roles)
	s.Contains(s.engine.docs, "charities/"+search.DocumentID(charity.ID))

	_, err = s.charities.CreateCharity(s.ctx, CreateCharityInput{Name: " ", OwnerID: s.techie.ID})
	s.ErrorIs(err, ErrInvalidCharityName)
}

func (s *ServiceTestSuite) TestJoinCharityByInvite() {
	charity, err := s.charities.JoinCharityByInvite(s.techie.ID, " "+strings.ToLower(s.charity.InviteCode)+" ")
	s.Require().NoError(err)
	s.Equal(s.charity.ID, charity.ID)

	member, err := s.charityRepo.FindMember(s.charity.ID, s.techie.ID)
	s.Require().NoError(err)
	s.Equal([]models.MemberRole{models.RoleVolunteer}, member.Roles)

	_, err = s.charities.JoinCharityByInvite(s.techie.ID, s.charity.InviteCode)
	s.ErrorIs(err, ErrAlreadyCharityMember)

	_, err = s.charities.JoinCharityByInvite(s.techie.ID, "NOPE-NOPE-NOPE")
	s.ErrorIs(err, ErrInvalidInviteCode)
}

func (s *ServiceTestSuite) TestRegenerateInviteCode() {
	old := s.charity.InviteCode

	charity, err := s.charities.RegenerateInviteCode(s.charity.ID)
	s.Require().NoError(err)
	s.NotEqual(old, charity.InviteCode)

	_, err = s.charities.JoinCharityByInvite(s.techie.ID, old)
	s.ErrorIs(err, ErrInvalidInviteCode)
}

func (s *ServiceTestSuite) TestUpdateMemberRoles() {
	member, err := s.charities.UpdateMemberRoles(s.charity.ID, s.coordinator.ID, []models.MemberRole{models.RoleEditor, models.RoleEditor, models.RoleSupporter})
	s.Require().NoError(err)
	s.ElementsMatch([]models.MemberRole{models.RoleEditor, models.RoleSupporter}, member.Roles)

	_, err = s.charities.UpdateMemberRoles(s.charity.ID, s.coordinator.ID, []models.MemberRole{"owner"})
	s.ErrorIs(err, ErrInvalidMemberRoles)

	_, err = s.charities.UpdateMemberRoles(s.charity.ID, s.coordinator.ID, nil)
	s.ErrorIs(err, ErrInvalidMemberRoles)

	_, err = s.charities.UpdateMemberRoles(s.charity.ID, s.techie.ID, []models.MemberRole{models.RoleEditor})
	s.ErrorIs(err, ErrCharityMemberNotFound)
}

func (s *ServiceTestSuite) TestRemoveMember() {
	s.ErrorIs(s.charities.RemoveMember(s.charity.ID, s.owner.ID, s.owner.ID), ErrCannotRemoveYourself)
	s.ErrorIs(s.charities.RemoveMember(s.charity.ID, s.owner.ID, s.techie.ID), ErrCharityMemberNotFound)

	s.Require().NoError(s.charities.RemoveMember(s.charity.ID, s.owner.ID, s.coordinator.ID))
	_, members, err := s.charities.GetCharityWithMembers(s.charity.ID)
	s.Require().NoError(err)
	s.Len(members, 1)
}

func (s *ServiceTestSuite) TestUpdateAndDeleteCharity() {
	name := "Food Bank North"
	website := "https://foodbank.example.org"
	charity, err := s.charities.UpdateCharity(s.ctx, s.charity.ID, UpdateCharityInput{Name: &name, Website: &website})
	s.Require().NoError(err)
	s.Equal(name, charity.Name)
	s.Equal(website, charity.Website)

	task := s.openTask("Doomed", models.UrgencyLow, 1)
	s.apply(task, s.techie)

	s.Require().NoError(s.charities.DeleteCharity(s.ctx, s.charity.ID))

	_, _, err = s.charities.GetCharityWithMembers(s.charity.ID)
	s.ErrorIs(err, ErrCharityNotFound)
	_, err = s.tasks.GetTask(task.ID)
	s.ErrorIs(err, ErrTaskNotFound)

	memberships, err := s.charities.ListCharitiesForUser(s.owner.ID)
	s.Require().NoError(err)
	s.Empty(memberships)
}
