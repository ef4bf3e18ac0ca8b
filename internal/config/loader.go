package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
// CLI flag overrides are applied by the caller on the returned Config.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("NEWSLOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("newsloom")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".newsloom"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper so env/file overrides merge
// onto them field by field.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("harvest.keyword", cfg.Harvest.Keyword)
	v.SetDefault("harvest.max_body_pages", cfg.Harvest.MaxBodyPages)
	v.SetDefault("harvest.max_comment_pages", cfg.Harvest.MaxCommentPages)
	v.SetDefault("harvest.max_total_comments", cfg.Harvest.MaxTotalComments)
	v.SetDefault("harvest.page_delay", cfg.Harvest.PageDelay)
	v.SetDefault("harvest.article_delay", cfg.Harvest.ArticleDelay)

	v.SetDefault("fetcher.request_timeout", cfg.Fetcher.RequestTimeout)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.idle_conn_timeout", cfg.Fetcher.IdleConnTimeout)
	v.SetDefault("fetcher.max_idle_conns", cfg.Fetcher.MaxIdleConns)
	v.SetDefault("fetcher.user_agents", cfg.Fetcher.UserAgents)

	v.SetDefault("browser.stealth", cfg.Browser.Stealth)
	v.SetDefault("browser.nav_timeout", cfg.Browser.NavTimeout)
	v.SetDefault("browser.wait_timeout", cfg.Browser.WaitTimeout)
	v.SetDefault("browser.user_agent", cfg.Browser.UserAgent)

	v.SetDefault("site.search_url", cfg.Site.SearchURL)
	v.SetDefault("site.search_ready", cfg.Site.SearchReadySel)
	v.SetDefault("site.result_item", cfg.Site.ResultItemSel)
	v.SetDefault("site.result_title", cfg.Site.ResultTitleSel)
	v.SetDefault("site.result_time", cfg.Site.ResultTimeSel)
	v.SetDefault("site.result_source", cfg.Site.ResultSourceSel)
	v.SetDefault("site.body_region", cfg.Site.BodyRegionSel)
	v.SetDefault("site.article_path_prefix", cfg.Site.ArticlePathPrefix)
	v.SetDefault("site.comment_url", cfg.Site.CommentURL)
	v.SetDefault("site.comment_ready", cfg.Site.CommentReadySel)

	v.SetDefault("ai.enabled", cfg.AI.Enabled)
	v.SetDefault("ai.provider", cfg.AI.Provider)
	v.SetDefault("ai.model", cfg.AI.Model)
	v.SetDefault("ai.endpoint", cfg.AI.Endpoint)
	v.SetDefault("ai.api_key_env", cfg.AI.APIKeyEnv)
	v.SetDefault("ai.timeout", cfg.AI.Timeout)
	v.SetDefault("ai.min_body_len", cfg.AI.MinBodyLen)
	v.SetDefault("ai.max_body_len", cfg.AI.MaxBodyLen)
	v.SetDefault("ai.categories", cfg.AI.Categories)
	v.SetDefault("ai.fallback", cfg.AI.Fallback)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.output_path", cfg.Storage.OutputPath)
	v.SetDefault("storage.mongo_uri", cfg.Storage.MongoURI)
	v.SetDefault("storage.mongo_db", cfg.Storage.MongoDB)
	v.SetDefault("storage.collection", cfg.Storage.Collection)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
