// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package history provides undoable canvas commands and a bounded
// undo/redo log.
//
// Every command snapshots, when it is constructed, the state it is about
// to overwrite, so Undo restores the canvas byte for byte. Commands are
// meant to be constructed and pushed immediately:
//
//	log := history.NewLog(history.WithCapacity(64))
//	cmd, err := history.NewWriteColor(c, image.Rect(0, 0, 8, 8), red)
//	if err != nil {
//	    return err
//	}
//	if err := log.Push(cmd); err != nil {
//	    return err
//	}
//	log.Undo()
//
// # Execution domains
//
// Commands that change the composited cache declare [RenderDomain]: they
// must run where the cache's backing resource lives, typically the
// render goroutine. A [Log] routes every Do and Undo through its
// [Executor], which decides where the call runs. The default executor
// runs everything inline.
package history
