// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package indexed

import "errors"

// Errors returned by Canvas and Project.
var (
	// ErrInvalidArgument reports a precondition violation by the caller:
	// an out-of-range rank or coordinate, or an empty rectangle.
	ErrInvalidArgument = errors.New("indexed: invalid argument")

	// ErrNoActiveLayer is returned by writes on a canvas with no layers.
	ErrNoActiveLayer = errors.New("indexed: no active layer")

	// ErrLayerNotFound is returned when a layer does not belong to the canvas.
	ErrLayerNotFound = errors.New("indexed: layer not found")

	// ErrInvalidName is returned for an empty, reserved or malformed layer name.
	ErrInvalidName = errors.New("indexed: invalid layer name")

	// ErrDuplicateName is returned when a layer name is already taken.
	ErrDuplicateName = errors.New("indexed: duplicate layer name")

	// ErrCanvasNotFound is returned when a canvas does not belong to the project.
	ErrCanvasNotFound = errors.New("indexed: canvas not found")
)
