package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for newsloom.
type Config struct {
	Harvest  HarvestConfig  `mapstructure:"harvest"  yaml:"harvest"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher"  yaml:"fetcher"`
	Browser  BrowserConfig  `mapstructure:"browser"  yaml:"browser"`
	Site     SiteProfile    `mapstructure:"site"     yaml:"site"`
	AI       AIConfig       `mapstructure:"ai"       yaml:"ai"`
	Storage  StorageConfig  `mapstructure:"storage"  yaml:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// HarvestConfig bounds the pagination loops and the request rate.
type HarvestConfig struct {
	Keyword          string        `mapstructure:"keyword"            yaml:"keyword"`
	MaxBodyPages     int           `mapstructure:"max_body_pages"     yaml:"max_body_pages"`
	MaxCommentPages  int           `mapstructure:"max_comment_pages"  yaml:"max_comment_pages"`
	MaxTotalComments int           `mapstructure:"max_total_comments" yaml:"max_total_comments"`
	PageDelay        time.Duration `mapstructure:"page_delay"         yaml:"page_delay"`
	ArticleDelay     time.Duration `mapstructure:"article_delay"      yaml:"article_delay"`
}

// FetcherConfig controls the plain HTTP fetcher.
type FetcherConfig struct {
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	UserAgents      []string      `mapstructure:"user_agents"       yaml:"user_agents"`
}

// BrowserConfig controls the headless browser used for rendered fetches.
type BrowserConfig struct {
	Stealth     bool          `mapstructure:"stealth"      yaml:"stealth"`
	NavTimeout  time.Duration `mapstructure:"nav_timeout"  yaml:"nav_timeout"`
	WaitTimeout time.Duration `mapstructure:"wait_timeout" yaml:"wait_timeout"`
	UserAgent   string        `mapstructure:"user_agent"   yaml:"user_agent"`
}

// SelectorRule is one extraction rule: a CSS selector (via goquery) or an
// XPath expression (via htmlquery), applied against rendered or raw markup.
type SelectorRule struct {
	Type     string `mapstructure:"type"     yaml:"type"` // css (default) or xpath
	Selector string `mapstructure:"selector" yaml:"selector"`
}

// SiteProfile externalizes the site-specific markup selectors. This is the
// part of the system expected to break over time, so it is configuration
// data, not code.
type SiteProfile struct {
	SearchURL         string `mapstructure:"search_url"          yaml:"search_url"`
	SearchReadySel    string `mapstructure:"search_ready"        yaml:"search_ready"`
	ResultItemSel     string `mapstructure:"result_item"         yaml:"result_item"`
	ResultTitleSel    string `mapstructure:"result_title"        yaml:"result_title"`
	ResultTimeSel     string `mapstructure:"result_time"         yaml:"result_time"`
	ResultSourceSel   string `mapstructure:"result_source"       yaml:"result_source"`
	BodyRegionSel     string `mapstructure:"body_region"         yaml:"body_region"`
	ArticlePathPrefix string `mapstructure:"article_path_prefix" yaml:"article_path_prefix"`
	CommentURL        string `mapstructure:"comment_url"         yaml:"comment_url"`
	CommentReadySel   string `mapstructure:"comment_ready"       yaml:"comment_ready"`

	// CommentRules are tried in order against every comment page and their
	// results unioned, because different comment renderings can coexist on
	// one page.
	CommentRules []SelectorRule `mapstructure:"comment_rules" yaml:"comment_rules"`
}

// AIConfig controls the enrichment service.
type AIConfig struct {
	Enabled     bool          `mapstructure:"enabled"       yaml:"enabled"`
	Provider    string        `mapstructure:"provider"      yaml:"provider"` // gemini, openai, ollama
	Model       string        `mapstructure:"model"         yaml:"model"`
	Endpoint    string        `mapstructure:"endpoint"      yaml:"endpoint"`
	APIKeyEnv   string        `mapstructure:"api_key_env"   yaml:"api_key_env"`
	Timeout     time.Duration `mapstructure:"timeout"       yaml:"timeout"`
	MinBodyLen  int           `mapstructure:"min_body_len"  yaml:"min_body_len"`
	MaxBodyLen  int           `mapstructure:"max_body_len"  yaml:"max_body_len"`
	Categories  []string      `mapstructure:"categories"    yaml:"categories"`
	Fallback    string        `mapstructure:"fallback"      yaml:"fallback"` // catch-all category
}

// StorageConfig controls the persistent store.
type StorageConfig struct {
	Type       string `mapstructure:"type"        yaml:"type"` // csv or mongo
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
	MongoURI   string `mapstructure:"mongo_uri"   yaml:"mongo_uri"`
	MongoDB    string `mapstructure:"mongo_db"    yaml:"mongo_db"`
	Collection string `mapstructure:"collection"  yaml:"collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults. The site profile
// defaults target the Yahoo! News Japan search listing.
func DefaultConfig() *Config {
	return &Config{
		Harvest: HarvestConfig{
			MaxBodyPages:     10,
			MaxCommentPages:  10,
			MaxTotalComments: 500,
			PageDelay:        1 * time.Second,
			ArticleDelay:     1 * time.Second,
		},
		Fetcher: FetcherConfig{
			RequestTimeout:  10 * time.Second,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			FollowRedirects: true,
			MaxRedirects:    10,
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		Browser: BrowserConfig{
			Stealth:     true,
			NavTimeout:  30 * time.Second,
			WaitTimeout: 10 * time.Second,
			UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Site: SiteProfile{
			SearchURL:         "https://news.yahoo.co.jp/search?p=%s&ei=utf-8",
			SearchReadySel:    "li[class*='sc-1u4589e-0']",
			ResultItemSel:     "li[class*='sc-1u4589e-0']",
			ResultTitleSel:    "div[class*='sc-3ls169-0']",
			ResultTimeSel:     "time",
			ResultSourceSel:   "div[class*='sc-n3vj8g-0']",
			BodyRegionSel:     "div[class*='article_body']",
			ArticlePathPrefix: "/articles/",
			CommentURL:        "https://news.yahoo.co.jp/articles/%s/comments",
			CommentReadySel:   "ul[class*='comments-list']",
			CommentRules: []SelectorRule{
				{Type: "css", Selector: "p.sc-169yn8p-10"},
				{Type: "css", Selector: "p[data-ylk*='cm_body']"},
				{Type: "css", Selector: "p[class*='comment']"},
				{Type: "css", Selector: "div[data-testid='comment-body-text']"},
				{Type: "css", Selector: "div.commentBody, p.commentBody"},
				{Type: "xpath", Selector: "//div[contains(@data-ylk,'cm_body')]"},
			},
		},
		AI: AIConfig{
			Enabled:    true,
			Provider:   "gemini",
			Model:      "gemini-1.5-flash",
			APIKeyEnv:  "GEMINI_API_KEY",
			Timeout:    60 * time.Second,
			MinBodyLen: 10,
			MaxBodyLen: 2000,
			Categories: []string{
				"technology-rnd",
				"management-finance",
				"sales-marketing",
				"production-quality",
				"hr-labor",
				"scandal-litigation",
				"other",
			},
			Fallback: "other",
		},
		Storage: StorageConfig{
			Type:       "csv",
			OutputPath: "./news_analysis.csv",
			MongoDB:    "newsloom",
			Collection: "articles",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
