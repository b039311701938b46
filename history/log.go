// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package history

import (
	"errors"

	"github.com/gogpu/indexed"
)

// DefaultCapacity is the number of undo steps kept by default.
const DefaultCapacity = 32

// ErrNothingToUndo and ErrNothingToRedo are returned when a stack is empty.
var (
	ErrNothingToUndo = errors.New("history: nothing to undo")
	ErrNothingToRedo = errors.New("history: nothing to redo")
)

// Executor runs fn, one of cmd's Do or Undo, in cmd's domain and returns
// its error. An executor for RenderDomain typically hands fn to the
// render goroutine and waits.
type Executor func(cmd Command, fn func() error) error

// inline runs every command on the calling goroutine.
func inline(_ Command, fn func() error) error { return fn() }

// Option configures a Log.
type Option func(*Log)

// WithCapacity sets how many commands each stack keeps. Values below 1
// are ignored.
func WithCapacity(n int) Option {
	return func(l *Log) {
		if n >= 1 {
			l.capacity = n
		}
	}
}

// WithExecutor sets the executor used for Do and Undo.
func WithExecutor(e Executor) Option {
	return func(l *Log) {
		if e != nil {
			l.exec = e
		}
	}
}

// Log is a bounded pair of undo and redo stacks.
//
// Pushing a command runs it and clears the redo stack. When a stack is
// full the oldest command is dropped.
//
// Log is not safe for concurrent use.
type Log struct {
	capacity int
	exec     Executor
	undo     []Command
	redo     []Command
}

// NewLog creates an empty log.
func NewLog(opts ...Option) *Log {
	l := &Log{capacity: DefaultCapacity, exec: inline}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Push runs cmd and records it. A command whose Do fails is not recorded.
func (l *Log) Push(cmd Command) error {
	if err := l.exec(cmd, cmd.Do); err != nil {
		return err
	}
	l.undo = l.bounded(append(l.undo, cmd))
	clear(l.redo)
	l.redo = l.redo[:0]
	indexed.Logger().Debug("history: push", "type", cmd.Type(), "domain", cmd.Domain(), "depth", len(l.undo))
	return nil
}

// Undo reverts the most recent command and moves it to the redo stack.
func (l *Log) Undo() error {
	if len(l.undo) == 0 {
		return ErrNothingToUndo
	}
	cmd := l.undo[len(l.undo)-1]
	if err := l.exec(cmd, cmd.Undo); err != nil {
		return err
	}
	l.undo[len(l.undo)-1] = nil
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = l.bounded(append(l.redo, cmd))
	return nil
}

// Redo re-applies the most recently undone command.
func (l *Log) Redo() error {
	if len(l.redo) == 0 {
		return ErrNothingToRedo
	}
	cmd := l.redo[len(l.redo)-1]
	if err := l.exec(cmd, cmd.Do); err != nil {
		return err
	}
	l.redo[len(l.redo)-1] = nil
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = l.bounded(append(l.undo, cmd))
	return nil
}

// bounded drops the oldest entries beyond capacity.
func (l *Log) bounded(s []Command) []Command {
	if over := len(s) - l.capacity; over > 0 {
		n := copy(s, s[over:])
		clear(s[n:])
		s = s[:n]
	}
	return s
}

// CanUndo reports whether Undo has something to revert.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether Redo has something to re-apply.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// UndoLen returns the number of commands that can be undone.
func (l *Log) UndoLen() int { return len(l.undo) }

// RedoLen returns the number of commands that can be redone.
func (l *Log) RedoLen() int { return len(l.redo) }

// Capacity returns the maximum depth of each stack.
func (l *Log) Capacity() int { return l.capacity }

// Clear drops every command.
func (l *Log) Clear() {
	clear(l.undo)
	clear(l.redo)
	l.undo = l.undo[:0]
	l.redo = l.redo[:0]
}
