package service

import (
	"context"
	"errors"
	"sync"

	"furniture/admin/internal/client"
	"furniture/admin/internal/domain"
	"furniture/admin/internal/domain/event"
	"furniture/admin/internal/hierarchy"
	"furniture/admin/internal/session"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrCascadeNotConfirmed is returned when a category with subcategories is
	// deleted without confirming that the subcategories go with it
	ErrCascadeNotConfirmed = errors.New("category has subcategories: confirm deleting them too")
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
)

// Publisher receives an event for every successful mutation
type Publisher interface {
	Publish(ctx context.Context, e event.Event) (string, error)
}

type Service struct {
	api       client.AdminAPI
	sessions  session.Store
	publisher Publisher

	mu    sync.RWMutex
	actor string
}

// NewService wires the admin operations. publisher may be nil when auditing is
// disabled.
func NewService(api client.AdminAPI, sessions session.Store, publisher Publisher) *Service {
	return &Service{
		api:       api,
		sessions:  sessions,
		publisher: publisher,
	}
}

func (s *Service) setActor(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actor = phone
}

func (s *Service) currentActor() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actor
}

// publish never fails the mutation it reports on
func (s *Service) publish(ctx context.Context, e event.Event) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.Publish(ctx, e); err != nil {
		log.Warnf("⚠️ Failed to publish %s: %v", e.EventType(), err)
	}
}

func (s *Service) mutation(action event.Action, id domain.ID, name string) event.Mutation {
	return event.NewMutation(action, id, name, s.currentActor())
}

// checkAuth drops the stored session after the API rejected our credentials
func (s *Service) checkAuth(ctx context.Context, err error) error {
	if err != nil && client.IsUnauthorized(err) {
		if clearErr := s.sessions.Clear(ctx); clearErr != nil {
			log.Warnf("⚠️ Failed to clear session: %v", clearErr)
		}
		s.setActor("")
	}
	return err
}

// categoryTree prefers the API's own tree and falls back to building it from
// the flat list
func (s *Service) categoryTree(ctx context.Context) ([]domain.CategoryNode, error) {
	tree, err := s.api.CategoryTree(ctx)
	if err == nil {
		return tree, nil
	}
	if client.IsUnauthorized(err) {
		return nil, s.checkAuth(ctx, err)
	}

	log.Warnf("⚠️ Category tree endpoint failed, building it locally: %v", err)
	flat, err := s.api.ListCategories(ctx)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}
	return hierarchy.BuildTree(flat), nil
}
