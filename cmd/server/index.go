package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/sidenote/backend/internal/providers/filesystem"
)

// Output formats for the tree command
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

func newTreeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tree <root>",
		Short: "Print the markdown document tree under root",
		Long: `Print the document tree the editor sidebar shows for root.

Hidden entries are skipped, only markdown files are listed and directories
without markdown are pruned.

Examples:
  sidenote-core tree ~/notes
  sidenote-core tree ~/notes --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indexer, err := newIndexer()
			if err != nil {
				return err
			}
			entries, err := indexer.BuildTree(contextOf(cmd), args[0])
			if err != nil {
				return err
			}
			return writeTree(cmd.OutOrStdout(), entries, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatJSON, "Output format: json, yaml or toml")
	return cmd
}

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <root>",
		Short: "List every markdown document under root, one path per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indexer, err := newIndexer()
			if err != nil {
				return err
			}
			docs, err := indexer.ListDocuments(contextOf(cmd), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, doc := range docs {
				fmt.Fprintln(out, doc)
			}
			return nil
		},
	}
}

// newIndexer builds a tree indexer from the environment configuration
func newIndexer() (*filesystem.TreeIndexer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	filter, err := filesystem.NewFilter(cfg.Index.Extensions, cfg.Index.Ignore)
	if err != nil {
		return nil, err
	}
	logger := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)

	return filesystem.NewTreeIndexer(filesystem.Options{
		Filter:       filter,
		Logger:       logger.Component("filesystem"),
		SkipSymlinks: !cfg.Index.FollowSymlinks,
	}), nil
}

// writeTree encodes entries in the requested format
func writeTree(w io.Writer, entries []filesystem.Entry, format string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(format) {
	case FormatJSON:
		data, err = sonic.ConfigStd.MarshalIndent(entries, "", "  ")
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(entries)
	case FormatTOML:
		// TOML documents are tables at the top level
		data, err = toml.Marshal(struct {
			Entries []filesystem.Entry `toml:"entries"`
		}{Entries: entries})
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or toml)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}

	_, err = w.Write(data)
	return err
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
