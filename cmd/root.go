package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/hvmanager/iconconv"
	"github.com/hvmanager/iconconv/config"
	"github.com/hvmanager/iconconv/logger/status"
	"github.com/hvmanager/iconconv/version"
	"github.com/k1LoW/errors"
	"github.com/k1LoW/tail"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
)

var (
	profile string
	srcDir  string
	outDir  string
	only    []string

	// tb keeps the latest structured logs in memory for the error dump.
	tb = tail.New(100)
)

var rootCmd = &cobra.Command{
	Use:          "iconconv",
	Short:        "iconconv converts PNG toolbar icons into color-keyed BMP resources",
	Long:         `iconconv converts PNG toolbar icons into color-keyed BMP resources.`,
	SilenceUsage: true,
	Version:      fmt.Sprintf("%s (rev:%s)", version.Version, version.Revision),
}

type errorData struct {
	LatestLogs  []any     `json:"latest_logs"`
	StackTraces any       `json:"stack_traces"`
	CreatedAt   time.Time `json:"created_at"`
	Version     string    `json:"version"`
	Revision    string    `json:"revision"`
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Write stack trace log to state directory
		var latestLogs []any
		for _, line := range tb.Lines() {
			var m map[string]any
			if err := json.Unmarshal([]byte(line), &m); err != nil {
				latestLogs = append(latestLogs, line)
			} else {
				latestLogs = append(latestLogs, m)
			}
		}
		d := &errorData{
			LatestLogs:  latestLogs,
			StackTraces: errors.StackTraces(err),
			CreatedAt:   time.Now(),
			Version:     version.Version,
			Revision:    version.Revision,
		}
		b, err := json.Marshal(d)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		} else {
			if err := os.MkdirAll(config.StateHomePath(), 0o700); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
			}
			dumpPath := filepath.Join(config.StateHomePath(), "error.json")
			if err := os.WriteFile(dumpPath, b, 0o600); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "failed to write error.json to %s: %v\n", dumpPath, err)
			}
		}
		os.Exit(1)
	}
}

// newLogger fans out to the console status handler and a JSON buffer
// kept for the error dump.
func newLogger() (*slog.Logger, error) {
	h, err := status.New(slog.NewTextHandler(io.Discard, nil))
	if err != nil {
		return nil, err
	}
	return slog.New(slogmulti.Fanout(
		h,
		slog.NewJSONHandler(tb, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)), nil
}

// newConverter resolves settings in order: defaults, config file, then
// flags.
func newConverter(logger *slog.Logger) (*iconconv.Converter, error) {
	cfg, err := config.Load(profile)
	if err != nil {
		return nil, err
	}
	opts := []iconconv.Option{
		iconconv.WithSourceDir(cfg.Source),
		iconconv.WithOutDir(cfg.Out),
		iconconv.WithIcons(cfg.Icons),
		iconconv.WithSourceDir(srcDir),
		iconconv.WithOutDir(outDir),
		iconconv.WithIcons(only),
	}
	if logger != nil {
		opts = append(opts, iconconv.WithLogger(logger))
	}
	return iconconv.New(opts...)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "", "", "profile name")
}
