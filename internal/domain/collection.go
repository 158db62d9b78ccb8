package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyName is returned when a group is created or renamed with an
	// empty name.
	ErrEmptyName = errors.New("group name cannot be empty")

	// ErrIndexOutOfRange is returned when a group or keyword index does
	// not exist in the collection.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// AddGroup appends a new empty group and returns the updated collection.
func (c Collection) AddGroup(name string) (Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return c, ErrEmptyName
	}
	return append(c, Group{Name: name, Keywords: []string{}}), nil
}

// RenameGroup changes the name of the group at index.
func (c Collection) RenameGroup(index int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if index < 0 || index >= len(c) {
		return fmt.Errorf("%w: group %d", ErrIndexOutOfRange, index)
	}
	c[index].Name = name
	return nil
}

// DeleteGroup removes the group at index.
func (c Collection) DeleteGroup(index int) (Collection, error) {
	if index < 0 || index >= len(c) {
		return c, fmt.Errorf("%w: group %d", ErrIndexOutOfRange, index)
	}
	return append(c[:index], c[index+1:]...), nil
}

// MoveGroup removes the group at from and reinserts it at to, shifting
// the groups in between. This is the drag-and-drop reorder: a single
// atomic mutation, nothing is persisted mid-drag.
func (c Collection) MoveGroup(from, to int) error {
	if from < 0 || from >= len(c) {
		return fmt.Errorf("%w: source %d", ErrIndexOutOfRange, from)
	}
	if to < 0 || to >= len(c) {
		return fmt.Errorf("%w: target %d", ErrIndexOutOfRange, to)
	}
	if from == to {
		return nil
	}
	moved := c[from]
	if from < to {
		copy(c[from:to], c[from+1:to+1])
	} else {
		copy(c[to+1:from+1], c[to:from])
	}
	c[to] = moved
	return nil
}

// AddKeyword appends a keyword to the group at index.
func (c Collection) AddKeyword(index int, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return errors.New("keyword cannot be empty")
	}
	if index < 0 || index >= len(c) {
		return fmt.Errorf("%w: group %d", ErrIndexOutOfRange, index)
	}
	c[index].Keywords = append(c[index].Keywords, keyword)
	return nil
}

// EditKeyword replaces the keyword at position kw in the group at index.
func (c Collection) EditKeyword(index, kw int, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return errors.New("keyword cannot be empty")
	}
	if index < 0 || index >= len(c) {
		return fmt.Errorf("%w: group %d", ErrIndexOutOfRange, index)
	}
	if kw < 0 || kw >= len(c[index].Keywords) {
		return fmt.Errorf("%w: keyword %d", ErrIndexOutOfRange, kw)
	}
	c[index].Keywords[kw] = keyword
	return nil
}

// DeleteKeyword removes the keyword at position kw from the group at index.
func (c Collection) DeleteKeyword(index, kw int) error {
	if index < 0 || index >= len(c) {
		return fmt.Errorf("%w: group %d", ErrIndexOutOfRange, index)
	}
	if kw < 0 || kw >= len(c[index].Keywords) {
		return fmt.Errorf("%w: keyword %d", ErrIndexOutOfRange, kw)
	}
	c[index].Keywords = append(c[index].Keywords[:kw], c[index].Keywords[kw+1:]...)
	return nil
}

// Filter returns the groups whose name or any keyword contains term,
// case-insensitive. An empty term returns a clone of the whole
// collection. Used by the search endpoint; the filter never mutates.
func (c Collection) Filter(term string) Collection {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return c.Clone()
	}
	var out Collection
	for _, g := range c {
		if strings.Contains(strings.ToLower(g.Name), term) {
			out = append(out, g)
			continue
		}
		for _, kw := range g.Keywords {
			if strings.Contains(strings.ToLower(kw), term) {
				out = append(out, g)
				break
			}
		}
	}
	return out.Clone()
}

// FindKeyword returns the first keyword matching raw exactly, scanning
// groups in order. Used by the open endpoint to resolve a stored term.
func (c Collection) FindKeyword(raw string) (string, bool) {
	for _, g := range c {
		for _, kw := range g.Keywords {
			if kw == raw {
				return kw, true
			}
		}
	}
	return "", false
}
