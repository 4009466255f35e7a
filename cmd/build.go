package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bitlatte/docnav/internal/config"
	"github.com/Bitlatte/docnav/internal/markdown"
	"github.com/Bitlatte/docnav/internal/model"
	"github.com/Bitlatte/docnav/internal/site"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the navigation config from the docs tree and site definition",
	Long: `The build command loads the site definition (default './docs/site.yaml'),
resolves every sidebar group against the docs root, computes the head
tags of every Markdown page and writes nav.json and nav.yaml to the
configured output directory (default './public/').`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuildProcess(cmd.Context(), appConfig, nil, logger)
	},
}

// runBuildProcess performs one full build. reader may be shared between
// builds so unchanged documents are not parsed again.
func runBuildProcess(ctx context.Context, cfg config.Config, reader *markdown.Reader, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Info("starting build",
		zap.String("docsRoot", cfg.DocsRoot),
		zap.String("outputDir", cfg.OutputDir),
		zap.String("baseURL", cfg.BaseURL))

	if _, err := os.Stat(cfg.DocsRoot); os.IsNotExist(err) {
		return fmt.Errorf("docs directory '%s' not found", cfg.DocsRoot)
	}

	def, err := site.Load(cfg.SitePath())
	if err != nil {
		return err
	}

	docs := os.DirFS(cfg.DocsRoot)
	if reader == nil {
		if reader, err = markdown.NewReader(docs, cfg.CacheSize, logger); err != nil {
			return err
		}
	}

	search := model.SearchSettings{
		AppID:     cfg.Search.AppID,
		APIKey:    cfg.Search.APIKey,
		IndexName: cfg.Search.IndexName,
	}
	data, err := site.Build(ctx, site.Options{
		Docs:       docs,
		BaseURL:    cfg.BaseURL,
		Production: cfg.Production,
		Search:     search,
		Reader:     reader,
		Logger:     logger,
	}, def)
	if err != nil {
		return err
	}

	if err := site.Write(data, cfg.OutputDir); err != nil {
		return err
	}
	logger.Info("build completed", zap.String("outputDir", cfg.OutputDir))
	return nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
