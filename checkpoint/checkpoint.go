// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package checkpoint saves and restores combined learning-rate schedules.
//
// Example:
//
//	if err := checkpoint.Save("schedule.json", lrScheduler, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	// After a restart, rebuild the schedule the same way and load:
//	ckpt, err := checkpoint.Load("schedule.json", lrScheduler)
package checkpoint

import (
	"io"

	"github.com/born-ml/lrschedule/internal/checkpoint"
	"github.com/born-ml/lrschedule/internal/scheduler"
)

// FormatVersion is the current checkpoint format version.
const FormatVersion = checkpoint.FormatVersion

// Common errors.
var (
	ErrUnsupportedVersion = checkpoint.ErrUnsupportedVersion
	ErrStageCountMismatch = checkpoint.ErrStageCountMismatch
)

// File is the on-disk checkpoint.
type File = checkpoint.File

// Save writes the state of c to path.
func Save(path string, c *scheduler.Combined, metadata map[string]any) error {
	return checkpoint.Save(path, c, metadata)
}

// Load reads the checkpoint at path and restores it into c.
func Load(path string, c *scheduler.Combined) (*File, error) {
	return checkpoint.Load(path, c)
}

// Write encodes the state of c to w.
func Write(w io.Writer, c *scheduler.Combined, metadata map[string]any) error {
	return checkpoint.Write(w, c, metadata)
}

// Read decodes a checkpoint from r.
func Read(r io.Reader) (*File, error) {
	return checkpoint.Read(r)
}
