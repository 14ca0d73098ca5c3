package screen

import (
	"context"
	"strings"

	"classpick/internal/event"
	"classpick/pkg/apierror"
)

type LoginForm struct {
	Email    string
	Password string
}

type Login struct {
	*base
	api API
}

func NewLogin(api API, session Session, bus event.Bus) *Login {
	return &Login{base: newBase(RouteLogin, bus, session, StateReady), api: api}
}

// Submit signs the user in and sends them Home.
func (s *Login) Submit(ctx context.Context, form LoginForm) error {
	return s.run(ctx, TriggerSubmit, func(ctx context.Context) (func(), error) {
		token, err := s.api.Login(ctx, strings.TrimSpace(form.Email), form.Password)
		if err != nil {
			return nil, err
		}

		return signIn(s.base, token)
	})
}

// GoToSignup is the "create an account" link.
func (s *Login) GoToSignup() {
	s.navigate(RouteSignup)
}

// signIn persists a freshly issued token and returns the apply step that announces it.
func signIn(b *base, token string) (func(), error) {
	if token == "" {
		return nil, apierror.New(apierror.KindAPI, "The server did not return a session.", "", 0)
	}

	claims, err := b.session.SignIn(token)
	if err != nil {
		return nil, err
	}

	return func() {
		b.publish(event.TypeSignedIn, claims.Username)
		b.navigate(RouteHome)
	}, nil
}
