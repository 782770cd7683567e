package application

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
)

// slugAttempts bounds the dedup loop. Hitting it means thousands of entries
// share a title, which points at a data problem rather than a slug clash.
const slugAttempts = 1000

// SlugExistsFunc reports whether a slug is already taken. Each store exposes
// a method with this shape.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// UniqueSlug derives a URL slug from the title and deduplicates it against
// the store with numeric suffixes: "anima-fest", "anima-fest-2", ...
func UniqueSlug(ctx context.Context, title string, exists SlugExistsFunc) (string, error) {
	base := slug.Make(title)
	if base == "" {
		return "", fmt.Errorf("cannot derive a slug from %q", title)
	}

	candidate := base
	for i := 2; i <= slugAttempts; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	return "", fmt.Errorf("no free slug for %q after %d attempts", title, slugAttempts)
}
