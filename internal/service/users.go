package service

import (
	"context"
	"fmt"
	"strings"

	"furniture/admin/internal/domain"
	"furniture/admin/internal/domain/event"

	log "github.com/sirupsen/logrus"
)

func (s *Service) Users(ctx context.Context) ([]domain.User, error) {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}
	return users, nil
}

// CreateUser registers a new admin; the password is required only here
func (s *Service) CreateUser(ctx context.Context, input domain.UserInput) (*domain.User, error) {
	input = trimUser(input)
	if err := validate.Struct(input); err != nil {
		return nil, validationError(err)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	created, err := s.api.RegisterUser(ctx, input)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}

	log.Infof("✅ User %s created", input.Phone)
	s.publish(ctx, &event.UserEvent{
		Mutation: s.mutation(event.ActionCreate, created.ID, input.Name),
	})
	return created, nil
}

// UpdateUser changes name and phone; passwords are never sent on update
func (s *Service) UpdateUser(ctx context.Context, id domain.ID, input domain.UserInput) (*domain.User, error) {
	input = trimUser(input)
	input.Password = ""
	if err := validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	updated, err := s.api.UpdateUser(ctx, id, input)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}

	log.Infof("✅ User %s updated", id)
	s.publish(ctx, &event.UserEvent{
		Mutation: s.mutation(event.ActionUpdate, id, input.Name),
	})
	return updated, nil
}

func (s *Service) DeleteUser(ctx context.Context, id domain.ID) error {
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return s.checkAuth(ctx, err)
	}

	log.Infof("🗑️ User %s deleted", id)
	s.publish(ctx, &event.UserEvent{
		Mutation: s.mutation(event.ActionDelete, id, ""),
	})
	return nil
}

func trimUser(input domain.UserInput) domain.UserInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	return input
}
