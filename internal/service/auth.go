package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"furniture/admin/internal/session"

	log "github.com/sirupsen/logrus"
)

// Login authenticates against the API and stores the session. On failure no
// session is left behind.
func (s *Service) Login(ctx context.Context, creds session.Credentials) (*session.Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	token := creds.Token()
	s.api.SetToken(token)

	resp, err := s.api.Login(ctx)
	if err != nil {
		s.api.ClearToken()
		if clearErr := s.sessions.Clear(ctx); clearErr != nil {
			log.Warnf("⚠️ Failed to clear session: %v", clearErr)
		}
		return nil, err
	}

	sess := &session.Session{
		Token:     token,
		User:      resp.User,
		CreatedAt: time.Now().UTC(),
	}
	if sess.User.Phone == "" {
		sess.User.Phone = creds.Phone
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		s.api.ClearToken()
		return nil, err
	}
	s.setActor(sess.User.Phone)

	log.Infof("🔑 Logged in as %s (%s)", sess.User.Name, sess.User.Phone)
	return sess, nil
}

// Restore loads the stored session into the API client
func (s *Service) Restore(ctx context.Context) (*session.Session, error) {
	sess, err := s.sessions.Load(ctx)
	if err != nil {
		s.api.ClearToken()
		return nil, err
	}

	s.api.SetToken(sess.Token)
	s.setActor(sess.User.Phone)
	return sess, nil
}

func (s *Service) Logout(ctx context.Context) error {
	s.api.ClearToken()
	s.setActor("")
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}
	log.Info("👋 Logged out")
	return nil
}

// WhoAmI returns the stored session, or nil when nobody is logged in
func (s *Service) WhoAmI(ctx context.Context) (*session.Session, error) {
	sess, err := s.sessions.Load(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return nil, nil
	}
	return sess, err
}
