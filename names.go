// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package indexed

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ReservedName cannot be used for a layer; project files use it for
// their own metadata section.
const ReservedName = "___meta"

// normalizeName returns the canonical form of a layer name.
// Names are NFC-normalized and trimmed, must be non-empty, must not
// contain a comma and must not be ReservedName.
func normalizeName(name string) (string, error) {
	n := norm.NFC.String(strings.TrimSpace(name))
	switch {
	case n == "":
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.ContainsRune(n, ','):
		return "", fmt.Errorf("%w: %q contains ','", ErrInvalidName, n)
	case nameKey(n) == nameKey(ReservedName):
		return "", fmt.Errorf("%w: %q is reserved", ErrInvalidName, n)
	}
	return n, nil
}

// nameKey folds case so that "Shadows" and "shadows" collide. Queries
// are normalized too, so NFD input finds an NFC name.
func nameKey(name string) string {
	return cases.Fold().String(norm.NFC.String(name))
}
