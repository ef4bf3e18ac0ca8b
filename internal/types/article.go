package types

import "strings"

// Sentiment is the three-way tone classification, plus degraded states.
type Sentiment string

const (
	SentimentPositive    Sentiment = "positive"
	SentimentNegative    Sentiment = "negative"
	SentimentNeutral     Sentiment = "neutral"
	SentimentUnavailable Sentiment = "unavailable"
	SentimentError       Sentiment = "error"
)

// Degraded category values, used alongside the configured closed label set.
const (
	CategoryUnavailable = "unavailable"
	CategoryError       = "error"
)

// ParseSentiment maps free-form model output onto the closed sentiment set.
// Unrecognized values degrade to SentimentError rather than passing through.
func ParseSentiment(s string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "ポジティブ":
		return SentimentPositive
	case "negative", "ネガティブ":
		return SentimentNegative
	case "neutral", "ニュートラル":
		return SentimentNeutral
	case "":
		return SentimentUnavailable
	default:
		return SentimentError
	}
}

// ArticleStub is the minimal article identity extracted from a search
// listing, before body and comment retrieval. URL is the identity key.
type ArticleStub struct {
	Title       string
	URL         string
	PublishedAt string
	Source      string
}

// Analysis holds AI-derived labels for one unit of text.
type Analysis struct {
	Sentiment Sentiment
	Category  string
}

// UnavailableAnalysis is returned when enrichment is disabled or skipped.
func UnavailableAnalysis() Analysis {
	return Analysis{Sentiment: SentimentUnavailable, Category: CategoryUnavailable}
}

// ErrorAnalysis is returned when the enrichment service failed or replied
// with something unparseable.
func ErrorAnalysis() Analysis {
	return Analysis{Sentiment: SentimentError, Category: CategoryError}
}

// ArticleRecord is the persisted unit: one harvested article with its
// paginated body and comment text and enrichment labels. Page slices are
// 1-based by position (BodyPages[0] is page 1) and contiguous.
type ArticleRecord struct {
	ArticleStub

	CommentCount int
	TitleLabels  Analysis
	BodyLabels   Analysis

	BodyPages    []string
	CommentPages []string
}

// NewRecord assembles a record from a stub and its harvested parts.
func NewRecord(stub ArticleStub, bodyPages []string, commentCount int, commentPages []string, title, body Analysis) ArticleRecord {
	return ArticleRecord{
		ArticleStub:  stub,
		CommentCount: commentCount,
		TitleLabels:  title,
		BodyLabels:   body,
		BodyPages:    bodyPages,
		CommentPages: commentPages,
	}
}
