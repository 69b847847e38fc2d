// Package widget assembles render-ready view models for each widget family.
package widget

import (
	"errors"
	"fmt"
	"strings"
)

// Family is the widget slot size the view is built for.
type Family string

const (
	FamilySmall  Family = "small"
	FamilyMedium Family = "medium"
	FamilyLarge  Family = "large"
)

var ErrUnknownFamily = errors.New("unknown widget family")

// ParseFamily reads a family name case-insensitively. Empty means medium.
func ParseFamily(s string) (Family, error) {
	switch Family(strings.ToLower(strings.TrimSpace(s))) {
	case "", FamilyMedium:
		return FamilyMedium, nil
	case FamilySmall:
		return FamilySmall, nil
	case FamilyLarge:
		return FamilyLarge, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
	}
}
