package iconconv

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/k1LoW/errors"
)

// Defaults mirror the resource layout of the manager source tree this
// tool was written for.
var (
	DefaultSourceDir = filepath.Join("src", "manager", "resources", "material")
	DefaultOutDir    = filepath.Join("src", "manager", "resources")

	// DefaultIcons is the toolbar button set, in display order.
	DefaultIcons = []string{
		"new_vm",
		"edit",
		"delete",
		"start",
		"stop",
		"reboot",
		"shutdown",
	}
)

// Converter turns PNG toolbar icons into fixed-size color-keyed BMP
// resources.
type Converter struct {
	srcDir string
	outDir string
	icons  []string
	logger *slog.Logger
}

type Option func(*Converter) error

// WithSourceDir sets the directory the <name>.png sources are read
// from. An empty dir keeps the current value.
func WithSourceDir(dir string) Option {
	return func(c *Converter) error {
		if dir != "" {
			c.srcDir = dir
		}
		return nil
	}
}

// WithOutDir sets the directory the <name>.bmp resources are written
// to. An empty dir keeps the current value.
func WithOutDir(dir string) Option {
	return func(c *Converter) error {
		if dir != "" {
			c.outDir = dir
		}
		return nil
	}
}

// WithIcons sets the icon base names to convert, in order. An empty
// list keeps the current value.
func WithIcons(names []string) Option {
	return func(c *Converter) error {
		for _, name := range names {
			// Base names only: no path separators, no extension.
			if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, ".") {
				return fmt.Errorf("invalid icon name: %q", name)
			}
		}
		if len(names) > 0 {
			c.icons = names
		}
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

func New(opts ...Option) (_ *Converter, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	c := &Converter{
		srcDir: DefaultSourceDir,
		outDir: DefaultOutDir,
		icons:  DefaultIcons,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Icons returns the configured icon names in conversion order.
func (c *Converter) Icons() []string {
	return slices.Clone(c.icons)
}

// SourceDir returns the directory PNG sources are read from.
func (c *Converter) SourceDir() string {
	return c.srcDir
}

// OutDir returns the directory BMP resources are written to.
func (c *Converter) OutDir() string {
	return c.outDir
}

// SourcePath returns the path the PNG source for name is expected at.
func (c *Converter) SourcePath(name string) string {
	return filepath.Join(c.srcDir, name+".png")
}

// OutPath returns the path the BMP resource for name is written to.
func (c *Converter) OutPath(name string) string {
	return filepath.Join(c.outDir, name+".bmp")
}

// Entry is the outcome of converting a single icon.
type Entry struct {
	Name      string
	Source    string // path the PNG source was looked up at
	Converted bool
}

// Result aggregates a batch run.
type Result struct {
	Converted int
	Total     int
	Entries   []Entry
}

func (r *Result) Summary() string {
	return fmt.Sprintf("Converted %d/%d icons", r.Converted, r.Total)
}

// Report renders the per-icon outcome the way the batch prints it.
func (r *Result) Report() string {
	var b strings.Builder
	for _, e := range r.Entries {
		if e.Converted {
			fmt.Fprintf(&b, "  [OK] %s.bmp\n", e.Name)
		} else {
			fmt.Fprintf(&b, "  [SKIP] %s not found\n", e.Source)
		}
	}
	b.WriteString("\n")
	b.WriteString(r.Summary())
	b.WriteString("\n")
	return b.String()
}

// Convert converts a single icon. A missing source is not an error: it
// is logged, nothing is written, and Convert returns false. Decode and
// write failures are returned and abort the batch.
func (c *Converter) Convert(ctx context.Context, name string) (_ bool, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if err := ctx.Err(); err != nil {
		return false, err
	}
	src := c.SourcePath(name)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			c.logger.Warn("skipped icon", slog.String("name", name), slog.String("path", src))
			return false, nil
		}
		return false, err
	}
	b, err := c.render(src)
	if err != nil {
		return false, err
	}
	dst := c.OutPath(name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(dst, b, 0o644); err != nil {
		return false, err
	}
	c.logger.Info("converted icon", slog.String("name", name), slog.String("file", name+".bmp"))
	return true, nil
}

// ConvertAll converts the configured icons in order, one at a time.
// Skipped icons do not affect the rest of the batch.
func (c *Converter) ConvertAll(ctx context.Context) (_ *Result, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	res := &Result{Total: len(c.icons)}
	for _, name := range c.icons {
		ok, err := c.Convert(ctx, name)
		if err != nil {
			return nil, err
		}
		if ok {
			res.Converted++
		}
		res.Entries = append(res.Entries, Entry{Name: name, Source: c.SourcePath(name), Converted: ok})
	}
	c.logger.Info("convert completed", slog.Int("converted", res.Converted), slog.Int("total", res.Total))
	return res, nil
}

// render runs the pixel pipeline for one source file and returns the
// encoded BMP.
func (c *Converter) render(path string) (_ []byte, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := decodeIcon(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return encodeIcon(renderIcon(m))
}
