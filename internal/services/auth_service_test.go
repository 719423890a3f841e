package services

import (
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/search"
)

func (s *ServiceTestSuite) TestSignup() {
	user, err := s.auth.Signup(s.ctx, SignupInput{
		Name:     " Newcomer ",
		Email:    " New@Example.org ",
		Password: "long-enough",
		Skills:   []string{"react", "", "react"},
	})
	s.Require().NoError(err)

	s.Equal("Newcomer", user.Name)
	s.Equal("new@example.org", user.Email)
	s.Equal(models.AccountVolunteer, user.PrimaryRole())
	s.Equal([]string{"react"}, user.Skills)
	s.NotEqual("long-enough", user.PasswordHash)
	s.Contains(s.engine.docs, "users/"+search.DocumentID(user.ID))
}

func (s *ServiceTestSuite) TestSignup_Validation() {
	cases := []struct {
		input SignupInput
		want  error
	}{
		{SignupInput{Email: "a@example.org", Password: "long-enough"}, ErrNameRequired},
		{SignupInput{Name: "A", Password: "long-enough"}, ErrEmailRequired},
		{SignupInput{Name: "A", Email: "a@example.org", Password: "short"}, ErrPasswordTooShort},
		{SignupInput{Name: "A", Email: "a@example.org", Password: "long-enough", Role: "admin"}, ErrInvalidAccountRole},
		{SignupInput{Name: "A", Email: "TESS@example.org", Password: "long-enough"}, ErrEmailTaken},
	}

	for _, tc := range cases {
		_, err := s.auth.Signup(s.ctx, tc.input)
		s.ErrorIs(err, tc.want)
	}
}

func (s *ServiceTestSuite) TestLogin() {
	user, err := s.auth.Login(LoginInput{Email: "tess@example.org", Password: "correct-horse"})
	s.Require().NoError(err)
	s.Equal(s.techie.ID, user.ID)

	_, err = s.auth.Login(LoginInput{Email: "tess@example.org", Password: "wrong-horse"})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.auth.Login(LoginInput{Email: "nobody@example.org", Password: "correct-horse"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceTestSuite) TestGetUser() {
	user, err := s.auth.GetUser(s.techie.ID)
	s.Require().NoError(err)
	s.Equal("Tess Techie", user.Name)

	_, err = s.auth.GetUser(9999)
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *ServiceTestSuite) TestUpdateProfile() {
	bio := "Backend developer"
	title := "Senior Engineer"
	skills := []string{"go", "kubernetes"}

	user, err := s.users.UpdateProfile(s.ctx, s.techie.ID, UpdateProfileInput{Bio: &bio, TechTitle: &title, Skills: &skills})
	s.Require().NoError(err)
	s.Equal("Tess Techie", user.Name)
	s.Equal(bio, user.Bio)
	s.Equal([]string{"go", "kubernetes"}, user.Skills)

	reloaded, err := s.auth.GetUser(s.techie.ID)
	s.Require().NoError(err)
	s.Equal(title, reloaded.TechTitle)

	empty := "  "
	_, err = s.users.UpdateProfile(s.ctx, s.techie.ID, UpdateProfileInput{Name: &empty})
	s.ErrorIs(err, ErrNameRequired)
}
