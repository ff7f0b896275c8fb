package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/gridbuf"
	"github.com/hupe1980/gridbuf/blobstore"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type app struct {
	logLevel  string
	logFormat string
	store     string

	logger  *gridbuf.Logger
	opened  blobstore.BlobStore
	closers []io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "gridbuf",
		Short:         "Inspect power-grid dataset schemas and snapshots",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setupLogger()
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "text", "log format (text, json)")
	flags.StringVar(&a.store, "store", "", "blob store: a directory, badger://dir, s3://bucket/prefix, gs://bucket/prefix or minio://host/bucket/prefix")

	root.AddCommand(
		newSchemaCmd(a),
		newInspectCmd(a),
		newListCmd(a),
		newPackCmd(a),
	)
	return root
}

func (a *app) setupLogger() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.logLevel, err)
	}
	switch a.logFormat {
	case "text":
		a.logger = gridbuf.NewTextLogger(level)
	case "json":
		a.logger = gridbuf.NewJSONLogger(level)
	default:
		return fmt.Errorf("invalid log format %q", a.logFormat)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
