// Package checkpoint saves and restores the state of a combined
// learning-rate schedule so training can resume where it stopped.
//
// A checkpoint holds the Combined state and the State of every stage, as JSON:
//
//	{
//	  "version": 1,
//	  "created_at": "2025-01-02T15:04:05Z",
//	  "combined": {"global_step": 1200, "active_index": 1, ...},
//	  "stages": [{"last_step": 1000, "base_lrs": [0.1], "last_lrs": [0.1]}, ...],
//	  "metadata": {"epoch": 3}
//	}
//
// The schedule itself is not stored: the caller rebuilds it with the same
// stages and loads the checkpoint into it.
//
// Example usage:
//
//	// Save
//	if err := checkpoint.Save("schedule.json", lrScheduler, map[string]any{"epoch": epoch}); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Resume
//	lrScheduler, _ := scheduler.NewWarmUpCosine(optimizer, 500, 10_000, 0)
//	ckpt, err := checkpoint.Load("schedule.json", lrScheduler)
//	if err != nil {
//	    log.Fatal(err)
//	}
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/born-ml/lrschedule/internal/scheduler"
)

// FormatVersion is the current checkpoint format version.
const FormatVersion = 1

// Common errors.
var (
	ErrUnsupportedVersion = errors.New("checkpoint: unsupported format version")
	ErrStageCountMismatch = errors.New("checkpoint: stage count does not match schedule")
)

// File is the on-disk checkpoint.
type File struct {
	Version   int                     `json:"version"`
	CreatedAt time.Time               `json:"created_at"`
	Combined  scheduler.CombinedState `json:"combined"`
	Stages    []scheduler.State       `json:"stages"`
	Metadata  map[string]any          `json:"metadata,omitempty"`
}

// New captures the current state of c.
func New(c *scheduler.Combined, metadata map[string]any) *File {
	stages := c.Schedulers()
	states := make([]scheduler.State, len(stages))
	for i, stage := range stages {
		states[i] = stage.StateDict()
	}

	return &File{
		Version:   FormatVersion,
		CreatedAt: time.Now().UTC(),
		Combined:  c.StateDict(),
		Stages:    states,
		Metadata:  metadata,
	}
}

// Restore loads the checkpoint into c.
//
// The active stage is restored last so the optimizer ends up with its rates.
func (f *File) Restore(c *scheduler.Combined) error {
	stages := c.Schedulers()
	if len(stages) != len(f.Stages) {
		return fmt.Errorf("%w: checkpoint has %d, schedule has %d", ErrStageCountMismatch, len(f.Stages), len(stages))
	}

	active := f.Combined.ActiveIndex
	for i, stage := range stages {
		if i != active {
			stage.LoadStateDict(f.Stages[i])
		}
	}
	if active >= 0 && active < len(stages) {
		stages[active].LoadStateDict(f.Stages[active])
	}
	c.LoadStateDict(f.Combined)

	return nil
}

// Write encodes the state of c to w.
func Write(w io.Writer, c *scheduler.Combined, metadata map[string]any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(New(c, metadata)); err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	return nil
}

// Read decodes a checkpoint from r.
func Read(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	if f.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}
	return &f, nil
}

// Save writes the state of c to path.
//
// The file is written to a temporary file in the same directory and renamed
// into place, so an interrupted save never leaves a truncated checkpoint.
func Save(path string, c *scheduler.Combined, metadata map[string]any) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Write(tmp, c, metadata); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move checkpoint into place: %w", err)
	}

	return nil
}

// Load reads the checkpoint at path and restores it into c.
func Load(path string, c *scheduler.Combined) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint: %w", err)
	}
	defer file.Close()

	f, err := Read(file)
	if err != nil {
		return nil, err
	}
	if err := f.Restore(c); err != nil {
		return nil, err
	}

	return f, nil
}
