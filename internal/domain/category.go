package domain

import (
	"encoding/json"
	"fmt"
)

// ID is an opaque identifier assigned by the catalog API. The API is not
// consistent about sending ids as strings or numbers, so both decode to the
// same textual form.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return id == ""
}

func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(data), err)
	}
	*id = ID(n.String())
	return nil
}

// Category is a single record of the flat list returned by GET /categories
type Category struct {
	ID       ID      `json:"id"`
	Name     string  `json:"name"`
	ParentID *ID     `json:"parentId"`
	Comment  *string `json:"comment,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"` // roots only, by convention
}

// IsRoot reports whether the category is a top-level grouping
func (c Category) IsRoot() bool {
	return c.ParentID == nil || c.ParentID.IsZero()
}

// Parent returns the parent id, or the zero ID for roots
func (c Category) Parent() ID {
	if c.ParentID == nil {
		return ""
	}
	return *c.ParentID
}

// CommentText returns the comment or an empty string
func (c Category) CommentText() string {
	if c.Comment == nil {
		return ""
	}
	return *c.Comment
}

// CategoryNode is the derived two-level view of the flat list. It decodes the
// GET /categories/tree/hierarchy response as-is, since the server embeds
// children next to the category fields.
type CategoryNode struct {
	Category
	Children []CategoryNode `json:"children"`
}

// ResolvedNames holds display names for a product's categories
type ResolvedNames struct {
	ParentNames []string `json:"parent_names"`
	SubNames    []string `json:"sub_names"`
}

// CategoryInput is the payload of POST /categories and PUT /categories/{id}
type CategoryInput struct {
	Name     string  `json:"name" validate:"required"`
	ParentID *ID     `json:"parentId"`
	Comment  *string `json:"comment"`
}

// CategoryRow is one line of the categories screen
type CategoryRow struct {
	Category
	ChildCount int `json:"child_count"`
}

// SubcategoryRow is one line of the subcategories screen
type SubcategoryRow struct {
	Category
	ParentName string `json:"parent_name"`
}
