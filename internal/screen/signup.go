package screen

import (
	"context"
	"strings"

	"classpick/internal/event"
	"classpick/internal/model"
)

type SignupForm struct {
	Username string
	Email    string
	Password string
	Class    string
}

type Signup struct {
	*base
	api API
}

func NewSignup(api API, session Session, bus event.Bus) *Signup {
	return &Signup{base: newBase(RouteSignup, bus, session, StateReady), api: api}
}

// Classes lists the classes offered in the form.
func (s *Signup) Classes() []string {
	return append([]string(nil), model.Classes...)
}

// Submit registers the account, signs it in and sends the user Home.
func (s *Signup) Submit(ctx context.Context, form SignupForm) error {
	return s.run(ctx, TriggerSubmit, func(ctx context.Context) (func(), error) {
		token, err := s.api.Register(ctx, model.RegisterRequest{
			Username: strings.TrimSpace(form.Username),
			Email:    strings.TrimSpace(form.Email),
			Password: form.Password,
			Class:    strings.TrimSpace(form.Class),
		})
		if err != nil {
			return nil, err
		}

		return signIn(s.base, token)
	})
}

func (s *Signup) GoToLogin() {
	s.navigate(RouteLogin)
}
