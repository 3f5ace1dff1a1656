package service

import (
	"context"
	"fmt"
	"strings"

	"furniture/admin/internal/domain"
	"furniture/admin/internal/domain/event"
	"furniture/admin/internal/hierarchy"

	log "github.com/sirupsen/logrus"
)

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	flat, err := s.api.ListCategories(ctx)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}
	return flat, nil
}

// CategoryRows is the categories screen: roots with their subcategory counts
func (s *Service) CategoryRows(ctx context.Context) ([]domain.CategoryRow, error) {
	flat, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	counts := hierarchy.ChildCounts(flat)
	roots := hierarchy.Roots(flat)

	rows := make([]domain.CategoryRow, 0, len(roots))
	for _, root := range roots {
		rows = append(rows, domain.CategoryRow{
			Category:   root,
			ChildCount: counts[root.ID],
		})
	}
	return rows, nil
}

// SubcategoryRows is the subcategories screen
func (s *Service) SubcategoryRows(ctx context.Context) ([]domain.SubcategoryRow, error) {
	flat, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	subs := hierarchy.Subcategories(flat)
	rows := make([]domain.SubcategoryRow, 0, len(subs))
	for _, sub := range subs {
		rows = append(rows, domain.SubcategoryRow{
			Category:   sub,
			ParentName: hierarchy.ParentName(flat, sub.Parent()),
		})
	}
	return rows, nil
}

// Tree returns the two-level hierarchy built from the flat list
func (s *Service) Tree(ctx context.Context, sortByName bool) ([]domain.CategoryNode, error) {
	flat, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	tree := hierarchy.BuildTree(flat)
	if sortByName {
		tree = hierarchy.SortByName(tree)
	}
	return tree, nil
}

// Orphans lists the categories the tree cannot show
func (s *Service) Orphans(ctx context.Context) ([]domain.Category, error) {
	flat, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return hierarchy.Orphans(flat), nil
}

func (s *Service) CreateCategory(ctx context.Context, name, comment string) (*domain.Category, error) {
	input, err := categoryInput(name, comment, nil)
	if err != nil {
		return nil, err
	}

	created, err := s.api.CreateCategory(ctx, input)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}

	log.Infof("✅ Category %q created", input.Name)
	s.publishCategory(ctx, event.ActionCreate, created, input)
	return created, nil
}

// UpdateCategory renames a top-level category. Subcategories are edited with
// UpdateSubcategory so their parent is never dropped.
func (s *Service) UpdateCategory(ctx context.Context, id domain.ID, name, comment string) (*domain.Category, error) {
	input, err := categoryInput(name, comment, nil)
	if err != nil {
		return nil, err
	}

	flat, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	target, err := findCategory(flat, id)
	if err != nil {
		return nil, err
	}
	if !target.IsRoot() {
		return nil, fmt.Errorf("%w: %q is a subcategory", ErrValidation, target.Name)
	}

	updated, err := s.api.UpdateCategory(ctx, id, input)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}

	log.Infof("✅ Category %s updated", id)
	s.publishCategory(ctx, event.ActionUpdate, withID(updated, id), input)
	return updated, nil
}

// CreateSubcategory files a new category under parentID, which must be a root
func (s *Service) CreateSubcategory(ctx context.Context, parentID domain.ID, name, comment string) (*domain.Category, error) {
	flat, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	input, err := subcategoryInput(flat, parentID, name, comment)
	if err != nil {
		return nil, err
	}

	created, err := s.api.CreateCategory(ctx, input)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}

	log.Infof("✅ Subcategory %q created", input.Name)
	s.publishCategory(ctx, event.ActionCreate, created, input)
	return created, nil
}

func (s *Service) UpdateSubcategory(ctx context.Context, id, parentID domain.ID, name, comment string) (*domain.Category, error) {
	if id == parentID {
		return nil, fmt.Errorf("%w: a category cannot be its own parent", ErrValidation)
	}

	flat, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	target, err := findCategory(flat, id)
	if err != nil {
		return nil, err
	}
	// Only two levels: a category with subcategories cannot become one
	if children := hierarchy.CountChildren(flat, id); children > 0 {
		return nil, fmt.Errorf("%w: %q has %d subcategories", ErrValidation, target.Name, children)
	}

	input, err := subcategoryInput(flat, parentID, name, comment)
	if err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateCategory(ctx, id, input)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}

	log.Infof("✅ Subcategory %s updated", id)
	s.publishCategory(ctx, event.ActionUpdate, withID(updated, id), input)
	return updated, nil
}

// DeleteCategory removes a category. A category that still has subcategories
// is only removed when confirmCascade is set, together with its subcategories.
func (s *Service) DeleteCategory(ctx context.Context, id domain.ID, confirmCascade bool) error {
	flat, err := s.Categories(ctx)
	if err != nil {
		return err
	}

	target, err := findCategory(flat, id)
	if err != nil {
		return err
	}

	children := hierarchy.CountChildren(flat, id)
	if children > 0 && !confirmCascade {
		return fmt.Errorf("%w (%q has %d)", ErrCascadeNotConfirmed, target.Name, children)
	}

	if err := s.api.DeleteCategory(ctx, id, children > 0); err != nil {
		return s.checkAuth(ctx, err)
	}

	if children > 0 {
		log.Infof("🗑️ Category %q deleted with %d subcategories", target.Name, children)
	} else {
		log.Infof("🗑️ Category %q deleted", target.Name)
	}

	s.publish(ctx, &event.CategoryEvent{
		Mutation:        s.mutation(event.ActionDelete, id, target.Name),
		ParentID:        target.ParentID,
		DeletedChildren: children > 0,
	})
	return nil
}

func findCategory(flat []domain.Category, id domain.ID) (*domain.Category, error) {
	for i := range flat {
		if flat[i].ID == id {
			return &flat[i], nil
		}
	}
	return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
}

func subcategoryInput(flat []domain.Category, parentID domain.ID, name, comment string) (domain.CategoryInput, error) {
	if parentID.IsZero() {
		return domain.CategoryInput{}, fmt.Errorf("%w: parent category is required", ErrValidation)
	}

	valid := false
	for _, option := range hierarchy.ParentOptions(flat) {
		if option.ID == parentID {
			valid = true
			break
		}
	}
	if !valid {
		return domain.CategoryInput{}, fmt.Errorf("%w: %s is not a top-level category", ErrValidation, parentID)
	}

	return categoryInput(name, comment, &parentID)
}

// categoryInput builds the request body. Root categories send parentId null and
// an empty comment is sent as null.
func categoryInput(name, comment string, parentID *domain.ID) (domain.CategoryInput, error) {
	input := domain.CategoryInput{
		Name:     strings.TrimSpace(name),
		ParentID: parentID,
	}
	if c := strings.TrimSpace(comment); c != "" {
		input.Comment = &c
	}

	if err := validate.Struct(input); err != nil {
		return domain.CategoryInput{}, validationError(err)
	}
	return input, nil
}

func (s *Service) publishCategory(ctx context.Context, action event.Action, c *domain.Category, input domain.CategoryInput) {
	if c == nil {
		return
	}
	name := c.Name
	if name == "" {
		name = input.Name
	}
	s.publish(ctx, &event.CategoryEvent{
		Mutation: s.mutation(action, c.ID, name),
		ParentID: input.ParentID,
	})
}

// withID fills in the id when the API answers an update without the record
func withID(c *domain.Category, id domain.ID) *domain.Category {
	if c == nil {
		return &domain.Category{ID: id}
	}
	if c.ID.IsZero() {
		c.ID = id
	}
	return c
}
