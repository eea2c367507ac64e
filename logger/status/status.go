package status

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/k1LoW/errors"
	"github.com/mattn/go-colorable"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

var _ slog.Handler = (*statusHandler)(nil)

// statusHandler renders the converter's log records as the per-icon
// console lines. While watch mode is idle it shows a spinner instead.
type statusHandler struct {
	handler slog.Handler
	spinner *spinner.Spinner
	stdout  io.Writer
}

func New(h slog.Handler) (_ *statusHandler, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	stdout := colorable.NewColorableStdout()
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(stdout))
	if err := s.Color("yellow"); err != nil {
		return nil, err
	}
	s.Start()
	s.Disable()
	return &statusHandler{
		handler: h,
		spinner: s,
		stdout:  stdout,
	}, nil
}

func (h *statusHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *statusHandler) Handle(ctx context.Context, r slog.Record) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	if r.Message == "watching for changes" {
		if !h.spinner.Enabled() {
			h.spinner.Enable()
		}
		return nil
	}
	if h.spinner.Enabled() {
		h.spinner.Disable()
	}
	switch r.Message {
	case "converted icon":
		return h.write(fmt.Sprintf("  [%s] %s\n", green("OK"), attr(r, "file")))
	case "skipped icon":
		return h.write(fmt.Sprintf("  [%s] %s not found\n", yellow("SKIP"), attr(r, "path")))
	case "verified icon":
		state := attr(r, "state")
		switch state {
		case "fresh":
			state = green(state)
		case "diverged":
			state = red(state)
		default:
			state = yellow(state)
		}
		return h.write(fmt.Sprintf("  [%s] %s\n", state, attr(r, "name")))
	case "convert completed":
		var converted, total int64
		r.Attrs(func(a slog.Attr) bool {
			switch a.Key {
			case "converted":
				converted = a.Value.Int64()
			case "total":
				total = a.Value.Int64()
			}
			return true
		})
		return h.write(fmt.Sprintf("\nConverted %d/%d icons\n", converted, total))
	}
	return nil
}

func (h *statusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &statusHandler{handler: h.handler.WithAttrs(attrs), spinner: h.spinner, stdout: h.stdout}
}

func (h *statusHandler) WithGroup(name string) slog.Handler {
	return &statusHandler{handler: h.handler.WithGroup(name), spinner: h.spinner, stdout: h.stdout}
}

func (h *statusHandler) write(s string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	_, err = h.stdout.Write([]byte(s))
	return err
}

func attr(r slog.Record, key string) string {
	var v string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			v = a.Value.String()
			return false
		}
		return true
	})
	return v
}
