package models

import (
	"strings"
	"unicode/utf8"
)

// Initials returns up to two upper-case initials for a display name.
// A single word yields its first two letters; an empty name yields "U".
func Initials(name string) string {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return "U"
	case 1:
		return strings.ToUpper(firstRunes(words[0], 2))
	default:
		return strings.ToUpper(firstRunes(words[0], 1) + firstRunes(words[1], 1))
	}
}

func firstRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// ResolveImageURL turns a stored image reference into a fetchable URL.
// Absolute http(s) and data: URLs are kept; relative paths are joined to base.
func ResolveImageURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") || strings.HasPrefix(path, "data:") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// ProfileForm is the editable subset of the account record.
type ProfileForm struct {
	Name       string `form:"name" validate:"min=2"`
	Email      string `form:"email" validate:"emailshape"`
	Role       Role   `form:"role"`
	Profession string `form:"profession"`
	Phone      string `form:"phone"`
}

// LoginForm signs an existing account in.
type LoginForm struct {
	Email    string `form:"email" validate:"emailshape"`
	Password string `form:"password" validate:"notblank"`
}

// SignupForm is the registration form.
type SignupForm struct {
	Name            string `form:"name" validate:"min=2"`
	Email           string `form:"email" validate:"emailshape"`
	Role            Role   `form:"role" validate:"notblank"`
	Location        string `form:"location" validate:"notblank"`
	Password        string `form:"password" validate:"min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"eqfield=Password"`
	AgreeToTerms    bool   `form:"agreeToTerms" validate:"eq=true"`
}
