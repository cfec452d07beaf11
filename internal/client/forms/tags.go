package forms

import (
	"errors"
	"slices"
	"strings"
)

const DefaultMaxTags = 10

var (
	ErrEmptyTag     = errors.New("tag is empty")
	ErrDuplicateTag = errors.New("tag already added")
	ErrTagLimit     = errors.New("tag limit reached")
)

// TagInput is an ordered set of trimmed, unique tags with an upper bound.
type TagInput struct {
	max  int
	tags []string
}

func NewTagInput(max int, initial ...string) *TagInput {
	if max <= 0 {
		max = DefaultMaxTags
	}
	t := &TagInput{max: max}
	for _, tag := range initial {
		_ = t.Add(tag)
	}
	return t
}

func (t *TagInput) Add(tag string) error {
	tag = strings.TrimSpace(tag)
	switch {
	case tag == "":
		return ErrEmptyTag
	case slices.Contains(t.tags, tag):
		return ErrDuplicateTag
	case len(t.tags) >= t.max:
		return ErrTagLimit
	}
	t.tags = append(t.tags, tag)
	return nil
}

// Remove drops tag and reports whether it was present.
func (t *TagInput) Remove(tag string) bool {
	i := slices.Index(t.tags, tag)
	if i < 0 {
		return false
	}
	t.tags = slices.Delete(t.tags, i, i+1)
	return true
}

func (t *TagInput) Tags() []string { return slices.Clone(t.tags) }
func (t *TagInput) Full() bool     { return len(t.tags) >= t.max }
func (t *TagInput) Len() int       { return len(t.tags) }
