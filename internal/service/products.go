package service

import (
	"context"
	"fmt"

	"furniture/admin/internal/domain"
	"furniture/admin/internal/domain/event"
	"furniture/admin/internal/hierarchy"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Products is the products screen: the products of the selected tab with
// their category names, plus the counters of every tab
func (s *Service) Products(ctx context.Context, tab domain.ProductTab) (*domain.ProductList, error) {
	var (
		products []domain.Product
		tree     []domain.CategoryNode
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := s.api.ListProducts(gctx)
		if err != nil {
			return err
		}
		products = result
		return nil
	})
	g.Go(func() error {
		result, err := s.categoryTree(gctx)
		if err != nil {
			return err
		}
		tree = result
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, s.checkAuth(ctx, err)
	}

	list := &domain.ProductList{
		Rows:  make([]domain.ProductRow, 0, len(products)),
		Total: len(products),
	}
	for _, p := range products {
		switch p.Status {
		case domain.ProductStatusActive:
			list.Active++
		case domain.ProductStatusInactive:
			list.Inactive++
		}

		if !tab.Includes(p.Status) {
			continue
		}
		list.Rows = append(list.Rows, domain.ProductRow{
			Product:    p,
			Categories: hierarchy.ResolveNames(tree, hierarchy.NewSet(p.CategoryIDs...)),
		})
	}

	return list, nil
}

// ProductDetail is the product page
func (s *Service) ProductDetail(ctx context.Context, id domain.ID) (*domain.ProductDetail, error) {
	product, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}

	tree, err := s.categoryTree(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.ProductDetail{
		Product:       *product,
		CategoryNames: hierarchy.CategoryNames(tree, hierarchy.NewSet(product.CategoryIDs...)),
	}, nil
}

// ToggleStatus flips a product between active and inactive
func (s *Service) ToggleStatus(ctx context.Context, id domain.ID) (domain.ProductStatus, error) {
	product, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return "", s.checkAuth(ctx, err)
	}

	next := product.Status.Toggle()
	if err := s.api.SetProductStatus(ctx, id, next); err != nil {
		return "", s.checkAuth(ctx, err)
	}

	log.Infof("🔄 Product %q is now %s", product.Name, next)
	s.publish(ctx, &event.ProductEvent{
		Mutation: s.mutation(event.ActionStatus, id, product.Name),
		Status:   next,
	})
	return next, nil
}

func (s *Service) CreateProduct(ctx context.Context, form *ProductForm) (*domain.Product, error) {
	form.RecalculatePrice()
	if err := form.Validate(true); err != nil {
		return nil, err
	}

	created, err := s.api.CreateProduct(ctx, form.Payload(true))
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}

	log.Infof("✅ Product %q created", form.Name)
	s.publish(ctx, &event.ProductEvent{
		Mutation:    s.mutation(event.ActionCreate, created.ID, form.Name),
		Status:      form.Status,
		CategoryIDs: form.Categories.IDs(),
	})
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id domain.ID, form *ProductForm) (*domain.Product, error) {
	form.RecalculatePrice()
	if err := form.Validate(false); err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateProduct(ctx, id, form.Payload(false))
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}

	log.Infof("✅ Product %s updated", id)
	s.publish(ctx, &event.ProductEvent{
		Mutation:    s.mutation(event.ActionUpdate, id, form.Name),
		Status:      form.Status,
		CategoryIDs: form.Categories.IDs(),
	})
	return updated, nil
}

// EditForm loads a product into a pre-populated form
func (s *Service) EditForm(ctx context.Context, id domain.ID) (*ProductForm, error) {
	product, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}
	return ProductFormFrom(*product), nil
}

func (s *Service) DeleteProduct(ctx context.Context, id domain.ID) error {
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return s.checkAuth(ctx, fmt.Errorf("product %s: %w", id, err))
	}

	log.Infof("🗑️ Product %s deleted", id)
	s.publish(ctx, &event.ProductEvent{
		Mutation: s.mutation(event.ActionDelete, id, ""),
	})
	return nil
}

// SelectCategories toggles each id in the form's selection. Only ids found in
// the category tree can be added; stale ids already selected can still be
// removed.
func (s *Service) SelectCategories(ctx context.Context, form *ProductForm, ids []domain.ID) error {
	if len(ids) == 0 {
		return nil
	}

	tree, err := s.categoryTree(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if !form.Categories.Has(id) {
			if _, ok := hierarchy.Find(tree, id); !ok {
				return fmt.Errorf("%w: unknown category %s", ErrValidation, id)
			}
		}
		form.ToggleCategory(id)
	}
	return nil
}
