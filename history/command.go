// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package history

import "fmt"

// Domain is where a command must execute.
type Domain uint8

const (
	// AnyDomain commands may run on any goroutine.
	AnyDomain Domain = iota
	// RenderDomain commands must run where the composited cache is
	// uploaded for display.
	RenderDomain
)

// String implements fmt.Stringer.
func (d Domain) String() string {
	switch d {
	case AnyDomain:
		return "any"
	case RenderDomain:
		return "render"
	}
	return fmt.Sprintf("Domain(%d)", uint8(d))
}

// Type identifies the kind of a command.
type Type uint8

const (
	TypeWriteColor     Type = iota // Write a colour to a rectangle
	TypeErase                      // Erase a rectangle
	TypeFloodFill                  // Flood fill from a seed
	TypeMoveRank                   // Move a visual layer
	TypeSetHidden                  // Hide or show a layer
	TypeSetLocked                  // Lock or unlock a layer
	TypeSetActive                  // Change the active layer
	TypeRemoveLayer                // Remove a layer
	TypeAddLayer                   // Add an empty layer
	TypeLoadLayer                  // Replace a layer's pixels
	TypeSetCheckerSize             // Resize the background tiles
)

// typeNames maps Type values to their string representation.
var typeNames = [...]string{
	TypeWriteColor:     "WriteColor",
	TypeErase:          "Erase",
	TypeFloodFill:      "FloodFill",
	TypeMoveRank:       "MoveRank",
	TypeSetHidden:      "SetHidden",
	TypeSetLocked:      "SetLocked",
	TypeSetActive:      "SetActive",
	TypeRemoveLayer:    "RemoveLayer",
	TypeAddLayer:       "AddLayer",
	TypeLoadLayer:      "LoadLayer",
	TypeSetCheckerSize: "SetCheckerSize",
}

// String implements fmt.Stringer.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Command is a reversible canvas edit.
//
// Do and Undo are idempotent: calling Do twice without an Undo in
// between applies the edit once, and the same holds for Undo.
type Command interface {
	Do() error
	Undo() error
	Domain() Domain
	Type() Type
}

// toggle tracks whether a command is applied and guards repeated calls.
type toggle struct {
	applied bool
}

func (t *toggle) do(fn func() error) error {
	if t.applied {
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	t.applied = true
	return nil
}

func (t *toggle) undo(fn func() error) error {
	if !t.applied {
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	t.applied = false
	return nil
}
