package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"code.byted.org/khicago/dynamic"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "dyn",
		Short:         "Merge and query YAML/JSON documents as dynamic mappings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.AddCommand(newMergeCmd(opts), newGetCmd(opts))
	return cmd
}

// configureLogger builds the stderr logger. Terminals get console output,
// everything else JSON lines.
func configureLogger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}

	out := w
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// loadDocument reads a JSON (by .json extension) or YAML file.
func loadDocument(path string, opts ...dynamic.Option) (*dynamic.Dynamic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var d *dynamic.Dynamic
	if strings.EqualFold(filepath.Ext(path), ".json") {
		d, err = dynamic.FromJSON(data, opts...)
	} else {
		d, err = dynamic.FromYAML(data, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return d, nil
}
