package iconconv

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"github.com/corona10/goimagehash"
	"github.com/k1LoW/errors"
	"golang.org/x/image/bmp"
)

// IconState is the verdict of Verify for a single icon.
type IconState int

const (
	// StateFresh: the bitmap is byte-identical to what the current source
	// produces.
	StateFresh IconState = iota
	// StateStale: bytes differ but the images are visually equivalent, so
	// only the encoding drifted. Re-running convert fixes it.
	StateStale
	// StateDiverged: the source artwork changed since the bitmap was
	// generated.
	StateDiverged
	// StateMissingSource: no <name>.png to compare against.
	StateMissingSource
	// StateMissingOutput: the <name>.bmp has not been generated yet.
	StateMissingOutput
)

func (s IconState) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	case StateDiverged:
		return "diverged"
	case StateMissingSource:
		return "missing source"
	case StateMissingOutput:
		return "missing output"
	}
	return "unknown"
}

// VerifyEntry is the verdict for one configured icon.
type VerifyEntry struct {
	Name  string
	State IconState
}

// Verify regenerates every configured icon in memory and compares it
// against the bitmap on disk. Nothing is written.
func (c *Converter) Verify(ctx context.Context) (_ []VerifyEntry, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	var entries []VerifyEntry
	for _, name := range c.icons {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		state, err := c.verifyIcon(name)
		if err != nil {
			return nil, err
		}
		c.logger.Info("verified icon", slog.String("name", name), slog.String("state", state.String()))
		entries = append(entries, VerifyEntry{Name: name, State: state})
	}
	return entries, nil
}

func (c *Converter) verifyIcon(name string) (_ IconState, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if _, err := os.Stat(c.SourcePath(name)); err != nil {
		if os.IsNotExist(err) {
			return StateMissingSource, nil
		}
		return 0, err
	}
	got, err := os.ReadFile(c.OutPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return StateMissingOutput, nil
		}
		return 0, err
	}
	want, err := c.render(c.SourcePath(name))
	if err != nil {
		return 0, err
	}
	if checksum(got) == checksum(want) && bytes.Equal(got, want) {
		return StateFresh, nil
	}
	// Bytes differ. Use perceptual hashing to tell a re-encode apart
	// from changed artwork.
	wantImg, err := bmp.Decode(bytes.NewReader(want))
	if err != nil {
		return 0, err
	}
	gotImg, err := bmp.Decode(bytes.NewReader(got))
	if err != nil {
		return 0, err
	}
	wantHash, err := goimagehash.PerceptionHash(wantImg)
	if err != nil {
		return 0, err
	}
	gotHash, err := goimagehash.PerceptionHash(gotImg)
	if err != nil {
		return 0, err
	}
	distance, err := wantHash.Distance(gotHash)
	if err != nil {
		return 0, err
	}
	if distance < 5 { // threshold for similarity
		return StateStale, nil
	}
	return StateDiverged, nil
}
