package service

import (
	"context"

	"furniture/admin/internal/domain"
	"furniture/admin/internal/hierarchy"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Dashboard fetches the three collections in parallel. A collection that
// fails to load counts as empty.
func (s *Service) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	var (
		categories []domain.Category
		products   []domain.Product
		users      []domain.User
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := s.api.ListCategories(gctx)
		if err != nil {
			log.Warnf("⚠️ Dashboard: %v", s.checkAuth(ctx, err))
			return nil
		}
		categories = result
		return nil
	})

	g.Go(func() error {
		result, err := s.api.ListProducts(gctx)
		if err != nil {
			log.Warnf("⚠️ Dashboard: %v", s.checkAuth(ctx, err))
			return nil
		}
		products = result
		return nil
	})

	g.Go(func() error {
		result, err := s.api.ListUsers(gctx)
		if err != nil {
			log.Warnf("⚠️ Dashboard: %v", s.checkAuth(ctx, err))
			return nil
		}
		users = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.DashboardStats{
		Categories:    len(hierarchy.Roots(categories)),
		Subcategories: len(hierarchy.Subcategories(categories)),
		Products:      len(products),
		Users:         len(users),
	}, nil
}
