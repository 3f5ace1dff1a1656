// Package hierarchy derives the two-level category tree from the flat list the
// catalog API returns and answers the queries the admin screens need.
//
// Every function here is a pure projection over an already-fetched snapshot.
// Inputs are never modified; malformed data degrades to omitted entries
// instead of errors.
package hierarchy

import (
	"sort"
	"strings"

	"furniture/admin/internal/domain"
)

// UnknownParent is shown when a subcategory's parent is not in the snapshot
const UnknownParent = "Unknown"

// BuildTree groups the flat list into roots and their direct children.
// Roots keep input order, and so do the children of each root. Records whose
// parent is not a root of this list (orphans, grandchildren) appear nowhere.
func BuildTree(flat []domain.Category) []domain.CategoryNode {
	byParent := indexByParent(flat)

	tree := make([]domain.CategoryNode, 0, len(flat))
	for _, c := range flat {
		if !c.IsRoot() {
			continue
		}

		kids := byParent[c.ID]
		children := make([]domain.CategoryNode, 0, len(kids))
		for _, kid := range kids {
			children = append(children, leaf(kid))
		}

		tree = append(tree, domain.CategoryNode{
			Category: cloneCategory(c),
			Children: children,
		})
	}

	return tree
}

// CountChildren returns how many records of flat name rootID as their parent
func CountChildren(flat []domain.Category, rootID domain.ID) int {
	if rootID.IsZero() {
		return 0
	}

	count := 0
	for _, c := range flat {
		if !c.IsRoot() && c.Parent() == rootID {
			count++
		}
	}
	return count
}

// ChildCounts indexes CountChildren for every parent id in one pass
func ChildCounts(flat []domain.Category) map[domain.ID]int {
	counts := make(map[domain.ID]int)
	for _, c := range flat {
		if c.IsRoot() {
			continue
		}
		counts[c.Parent()]++
	}
	return counts
}

// ResolveNames maps a product's category ids to display names. A selected
// root contributes its own name; a selected subcategory contributes its name
// and its parent's. Both lists are deduplicated by name in tree order, so the
// order of ids does not matter.
func ResolveNames(tree []domain.CategoryNode, ids Set) domain.ResolvedNames {
	parents := newNameList()
	subs := newNameList()

	for _, root := range tree {
		if ids.Has(root.ID) {
			parents.add(root.Name)
		}
		for _, child := range root.Children {
			if !ids.Has(child.ID) {
				continue
			}
			parents.add(root.Name)
			subs.add(child.Name)
		}
	}

	return domain.ResolvedNames{
		ParentNames: parents.names,
		SubNames:    subs.names,
	}
}

// CategoryNames lists the name of every node in ids, roots and subcategories
// alike, in tree order
func CategoryNames(tree []domain.CategoryNode, ids Set) []string {
	names := make([]string, 0, ids.Len())
	if ids.Len() == 0 {
		return names
	}

	for _, root := range tree {
		if ids.Has(root.ID) {
			names = append(names, root.Name)
		}
		for _, child := range root.Children {
			if ids.Has(child.ID) {
				names = append(names, child.Name)
			}
		}
	}
	return names
}

// Find looks a node up by id at either level
func Find(tree []domain.CategoryNode, id domain.ID) (domain.CategoryNode, bool) {
	for _, root := range tree {
		if root.ID == id {
			return root, true
		}
		for _, child := range root.Children {
			if child.ID == id {
				return child, true
			}
		}
	}
	return domain.CategoryNode{}, false
}

// SortByName returns a copy of tree with roots and each children list ordered
// by name, case-insensitively. Equal names keep their relative order.
func SortByName(tree []domain.CategoryNode) []domain.CategoryNode {
	sorted := make([]domain.CategoryNode, len(tree))
	for i, root := range tree {
		children := make([]domain.CategoryNode, len(root.Children))
		copy(children, root.Children)
		sortNodes(children)

		sorted[i] = domain.CategoryNode{
			Category: root.Category,
			Children: children,
		}
	}
	sortNodes(sorted)
	return sorted
}

// Roots returns the top-level categories in input order
func Roots(flat []domain.Category) []domain.Category {
	roots := make([]domain.Category, 0, len(flat))
	for _, c := range flat {
		if c.IsRoot() {
			roots = append(roots, c)
		}
	}
	return roots
}

// ParentOptions are the categories a subcategory may be filed under
func ParentOptions(flat []domain.Category) []domain.Category {
	return Roots(flat)
}

// Subcategories returns every record that declares a parent, orphans included
func Subcategories(flat []domain.Category) []domain.Category {
	subs := make([]domain.Category, 0, len(flat))
	for _, c := range flat {
		if !c.IsRoot() {
			subs = append(subs, c)
		}
	}
	return subs
}

// ParentName returns the name of the category with id parentID, or
// UnknownParent when the list has no such record
func ParentName(flat []domain.Category, parentID domain.ID) string {
	if parentID.IsZero() {
		return UnknownParent
	}
	for _, c := range flat {
		if c.ID == parentID {
			return c.Name
		}
	}
	return UnknownParent
}

// Orphans returns the records BuildTree drops: those whose parent is not a
// root of the same list
func Orphans(flat []domain.Category) []domain.Category {
	roots := make(map[domain.ID]struct{})
	for _, c := range flat {
		if c.IsRoot() {
			roots[c.ID] = struct{}{}
		}
	}

	orphans := make([]domain.Category, 0)
	for _, c := range flat {
		if c.IsRoot() {
			continue
		}
		if _, ok := roots[c.Parent()]; !ok {
			orphans = append(orphans, c)
		}
	}
	return orphans
}

func indexByParent(flat []domain.Category) map[domain.ID][]domain.Category {
	byParent := make(map[domain.ID][]domain.Category)
	for _, c := range flat {
		if c.IsRoot() {
			continue
		}
		byParent[c.Parent()] = append(byParent[c.Parent()], c)
	}
	return byParent
}

func leaf(c domain.Category) domain.CategoryNode {
	return domain.CategoryNode{
		Category: cloneCategory(c),
		Children: []domain.CategoryNode{},
	}
}

func cloneCategory(c domain.Category) domain.Category {
	out := c
	if c.ParentID != nil {
		parent := *c.ParentID
		out.ParentID = &parent
	}
	if c.Comment != nil {
		comment := *c.Comment
		out.Comment = &comment
	}
	if c.ImageURL != nil {
		image := *c.ImageURL
		out.ImageURL = &image
	}
	return out
}

func sortNodes(nodes []domain.CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
}

type nameList struct {
	seen  map[string]struct{}
	names []string
}

func newNameList() *nameList {
	return &nameList{
		seen:  make(map[string]struct{}),
		names: make([]string, 0),
	}
}

func (l *nameList) add(name string) {
	if _, ok := l.seen[name]; ok {
		return
	}
	l.seen[name] = struct{}{}
	l.names = append(l.names, name)
}
