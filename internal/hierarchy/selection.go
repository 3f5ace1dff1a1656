package hierarchy

import (
	"sort"
	"strconv"

	"furniture/admin/internal/domain"
)

// Set is the selection of category ids a product form is editing.
// Order does not matter and each id appears once.
type Set map[domain.ID]struct{}

func NewSet(ids ...domain.ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Has(id domain.ID) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// IDs returns the selection sorted, so submitted forms are stable. Numeric
// ids come first in numeric order, any others follow in string order.
func (s Set) IDs() []domain.ID {
	ids := make([]domain.ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return idLess(ids[i], ids[j])
	})
	return ids
}

func idLess(a, b domain.ID) bool {
	an, aerr := strconv.ParseUint(string(a), 10, 64)
	bn, berr := strconv.ParseUint(string(b), 10, 64)

	switch {
	case aerr == nil && berr == nil:
		if an != bn {
			return an < bn
		}
		return a < b
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}

func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// ToggleSelection returns a new set with id removed if current has it and
// added otherwise. current is left untouched.
func ToggleSelection(current Set, id domain.ID) Set {
	next := make(Set, len(current)+1)
	for existing := range current {
		next[existing] = struct{}{}
	}

	if current.Has(id) {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	return next
}
