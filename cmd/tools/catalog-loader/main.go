// cmd/tools/catalog-loader/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"collegeequity-workers/internal/common/config"
	"collegeequity-workers/internal/common/database"
	"collegeequity-workers/internal/repository"
	"collegeequity-workers/pkg/catalog"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog-loader",
		Short:         "Validate, export and index the university and scholarship catalog",
		SilenceUsage:  true,
	}
	root.SetOut(out)
	root.AddCommand(newValidateCmd(), newExportCmd(), newIndexCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a catalog file for duplicate names and unparseable acceptance rates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog %s is valid: %d universities, %d scholarships, %d milestones\n",
				args[0], len(cat.Universities), len(cat.Scholarships), len(cat.Milestones))
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the built-in catalog as YAML or JSON, as a starting point for a custom file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.Default()
			cat.LastUpdated = time.Now().UTC().Format(time.RFC3339)
			return encode(cmd.OutOrStdout(), format, cat)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}

func encode(w io.Writer, format string, cat *catalog.Catalog) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cat)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func newIndexCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "index [file]",
		Short: "Load the universities into the Elasticsearch search index",
		Long:  "Loads the catalog file, or the built-in catalog when no file is given, and bulk-indexes its universities.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if !cfg.Database.Elasticsearch.Enabled() {
				return fmt.Errorf("database.elasticsearch is not configured")
			}

			path := cfg.Catalog.Path
			if len(args) == 1 {
				path = args[0]
			}
			cat, err := catalog.LoadOrDefault(path)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			index := cfg.Database.Elasticsearch.Index
			if err := es.EnsureIndex(ctx, index); err != nil {
				return err
			}

			n, err := repository.NewElasticsearchUniversities(es.Client, index).IndexUniversities(ctx, cat.Universities)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d universities into %s\n", n, index)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default: configs/config.yaml lookup)")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return config.LoadFromFile(abs)
}
