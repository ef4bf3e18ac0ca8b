package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/newsloom/newsloom/internal/config"
	"github.com/newsloom/newsloom/internal/enrich"
	"github.com/newsloom/newsloom/internal/fetcher"
	"github.com/newsloom/newsloom/internal/harvest"
	"github.com/newsloom/newsloom/internal/pipeline"
	"github.com/newsloom/newsloom/internal/store"
	"github.com/newsloom/newsloom/pkg/ratelimit"
)

var (
	keyword         string
	outputPath      string
	storeType       string
	maxBodyPages    int
	maxCommentPages int
	maxComments     int
	noAI            bool
)

// harvestCmd creates the "harvest" subcommand.
func harvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Run one incremental harvest",
		Long: `Run one harvest: fetch the search listing for the keyword, process every
article not already in the store, and merge the results. Articles already
present are never re-fetched or re-analyzed.`,
		RunE: runHarvest,
	}

	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "search keyword (overrides config)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "store file path (overrides config)")
	cmd.Flags().StringVar(&storeType, "store", "", "store backend: csv or mongo (overrides config)")
	cmd.Flags().IntVar(&maxBodyPages, "max-body-pages", 0, "max body pages per article (overrides config)")
	cmd.Flags().IntVar(&maxCommentPages, "max-comment-pages", 0, "max comment pages per article (overrides config)")
	cmd.Flags().IntVar(&maxComments, "max-comments", 0, "max total comments per article (overrides config)")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "disable AI enrichment for this run")

	return cmd
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	logger := setupLogger(&cfg.Logging)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpFetcher, err := fetcher.NewHTTPFetcher(&cfg.Fetcher, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	defer httpFetcher.Close()

	browserFetcher, err := fetcher.NewBrowserFetcher(&cfg.Browser, logger)
	if err != nil {
		return fmt.Errorf("create browser: %w", err)
	}
	defer browserFetcher.Close()

	st, closeStore, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	limiter := ratelimit.NewLimiter(cfg.Harvest.PageDelay, 0.25)
	logger.Info("per-host pacing",
		"interval", limiter.Interval(),
		"article_delay", cfg.Harvest.ArticleDelay,
	)

	enricher := buildEnricher(cfg, logger)
	if !enricher.Enabled() {
		logger.Warn("AI enrichment disabled, articles get unavailable labels")
	}

	runner := pipeline.NewRunner(
		harvest.NewSearchHarvester(browserFetcher, &cfg.Site, logger),
		harvest.NewBodyPaginator(httpFetcher, &cfg.Site, limiter, cfg.Harvest.MaxBodyPages, logger),
		harvest.NewCommentPaginator(browserFetcher, &cfg.Site, limiter, cfg.Harvest.MaxCommentPages, cfg.Harvest.MaxTotalComments, logger),
		enricher,
		st,
		cfg.Harvest.ArticleDelay,
		logger,
	)

	summary, err := runner.Run(ctx, cfg.Harvest.Keyword)
	if err != nil {
		return err
	}

	fmt.Printf("discovered %d, skipped %d known, added %d new article(s)\n",
		summary.Discovered, summary.SkippedKnown, summary.Added)
	return nil
}

// buildStore creates the configured store backend and its cleanup func.
func buildStore(cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.Storage.Type {
	case "mongo":
		ms, err := store.NewMongoStore(cfg.Storage.MongoURI, cfg.Storage.MongoDB, cfg.Storage.Collection, logger)
		if err != nil {
			return nil, nil, err
		}
		return ms, func() { _ = ms.Close() }, nil
	default:
		cs, err := store.NewCSVStore(cfg.Storage.OutputPath, logger)
		if err != nil {
			return nil, nil, err
		}
		return cs, func() {}, nil
	}
}

// buildEnricher resolves the AI credential and creates the enricher. A
// missing credential disables enrichment for the whole run rather than
// failing it.
func buildEnricher(cfg *config.Config, logger *slog.Logger) *enrich.Enricher {
	if !cfg.AI.Enabled {
		return enrich.NewEnricher(nil, &cfg.AI, logger)
	}

	apiKey := os.Getenv(cfg.AI.APIKeyEnv)
	if apiKey == "" && cfg.AI.Provider != "ollama" {
		logger.Warn("AI credential not set", "env", cfg.AI.APIKeyEnv)
		return enrich.NewEnricher(nil, &cfg.AI, logger)
	}

	client := enrich.NewClient(
		enrich.Provider(cfg.AI.Provider),
		cfg.AI.Endpoint,
		cfg.AI.Model,
		apiKey,
		cfg.AI.Timeout,
		logger,
	)
	return enrich.NewEnricher(client, &cfg.AI, logger)
}

// applyCLIOverrides copies set flags onto the loaded config.
func applyCLIOverrides(cfg *config.Config) {
	if keyword != "" {
		cfg.Harvest.Keyword = keyword
	}
	if outputPath != "" {
		cfg.Storage.OutputPath = outputPath
	}
	if storeType != "" {
		cfg.Storage.Type = storeType
	}
	if maxBodyPages > 0 {
		cfg.Harvest.MaxBodyPages = maxBodyPages
	}
	if maxCommentPages > 0 {
		cfg.Harvest.MaxCommentPages = maxCommentPages
	}
	if maxComments > 0 {
		cfg.Harvest.MaxTotalComments = maxComments
	}
	if noAI {
		cfg.AI.Enabled = false
	}
}
