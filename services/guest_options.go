package services

import (
	"fmt"
	"strings"
)

// IdentityUser is an external-identity account normalized to a guest-shaped record.
type IdentityUser struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// GuestOption is one selectable entry in the booking form's guest list.
type GuestOption struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Label string `json:"label"`
}

// CabinOption is one selectable entry in the booking form's cabin list.
type CabinOption struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// MergeGuestOptions unions the guest directory with identity-provider users,
// deduplicated by email. Identity entries go in first so that a directory
// entry with the same email overwrites it in place; first-seen order is kept.
// Pure and idempotent; either input may be nil.
func MergeGuestOptions(directory []GuestOption, identity []GuestOption) []GuestOption {
	byEmail := make(map[string]int, len(directory)+len(identity))
	out := make([]GuestOption, 0, len(directory)+len(identity))

	add := func(opt GuestOption) {
		key := strings.ToLower(strings.TrimSpace(opt.Email))
		if key == "" {
			key = opt.Label
		}
		if i, ok := byEmail[key]; ok {
			out[i] = opt
			return
		}
		byEmail[key] = len(out)
		out = append(out, opt)
	}

	for _, opt := range identity {
		add(opt)
	}
	for _, opt := range directory {
		add(opt)
	}
	return out
}

// GuestOptionLabel formats the label shown for a guest, embedding the email.
func GuestOptionLabel(name, email string) string {
	if strings.TrimSpace(name) == "" {
		name = email
	}
	return fmt.Sprintf("%s (%s)", name, email)
}
