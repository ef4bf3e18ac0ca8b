package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Harvest.Keyword) == "" {
		return fmt.Errorf("harvest.keyword must not be empty")
	}
	if cfg.Harvest.MaxBodyPages < 1 {
		return fmt.Errorf("harvest.max_body_pages must be >= 1, got %d", cfg.Harvest.MaxBodyPages)
	}
	if cfg.Harvest.MaxCommentPages < 1 {
		return fmt.Errorf("harvest.max_comment_pages must be >= 1, got %d", cfg.Harvest.MaxCommentPages)
	}
	if cfg.Harvest.MaxTotalComments < 1 {
		return fmt.Errorf("harvest.max_total_comments must be >= 1, got %d", cfg.Harvest.MaxTotalComments)
	}
	if cfg.Harvest.PageDelay < 0 {
		return fmt.Errorf("harvest.page_delay must be >= 0")
	}

	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if cfg.Browser.NavTimeout <= 0 {
		return fmt.Errorf("browser.nav_timeout must be > 0")
	}
	if cfg.Browser.WaitTimeout <= 0 {
		return fmt.Errorf("browser.wait_timeout must be > 0")
	}

	if !strings.Contains(cfg.Site.SearchURL, "%s") {
		return fmt.Errorf("site.search_url must contain a %%s keyword placeholder")
	}
	if !strings.Contains(cfg.Site.CommentURL, "%s") {
		return fmt.Errorf("site.comment_url must contain a %%s article-id placeholder")
	}
	for _, rule := range cfg.Site.CommentRules {
		if rule.Type != "" && rule.Type != "css" && rule.Type != "xpath" {
			return fmt.Errorf("site.comment_rules type must be 'css' or 'xpath', got %q", rule.Type)
		}
		if rule.Selector == "" {
			return fmt.Errorf("site.comment_rules selector must not be empty")
		}
	}

	if cfg.AI.Enabled {
		validProviders := map[string]bool{
			"gemini": true, "openai": true, "ollama": true,
		}
		if !validProviders[cfg.AI.Provider] {
			return fmt.Errorf("ai.provider %q is not supported (valid: gemini, openai, ollama)", cfg.AI.Provider)
		}
		if cfg.AI.MinBodyLen < 0 {
			return fmt.Errorf("ai.min_body_len must be >= 0")
		}
		if cfg.AI.MaxBodyLen < 1 {
			return fmt.Errorf("ai.max_body_len must be >= 1")
		}
		if len(cfg.AI.Categories) == 0 {
			return fmt.Errorf("ai.categories must not be empty when ai is enabled")
		}
	}

	if cfg.Storage.Type != "csv" && cfg.Storage.Type != "mongo" {
		return fmt.Errorf("storage.type %q is not supported (valid: csv, mongo)", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "csv" && cfg.Storage.OutputPath == "" {
		return fmt.Errorf("storage.output_path must not be empty for csv storage")
	}
	if cfg.Storage.Type == "mongo" && cfg.Storage.MongoURI == "" {
		return fmt.Errorf("storage.mongo_uri must not be empty for mongo storage")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}
