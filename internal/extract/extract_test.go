package extract

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/newsloom/newsloom/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

const sampleMarkup = `<html><body>
	<div class="comments">
		<p class="comment">  first  </p>
		<p class="comment">second</p>
		<p class="comment"></p>
		<div data-ylk="rsec:cm_body;pos:1">from xpath</div>
	</div>
</body></html>`

func TestTextsCSS(t *testing.T) {
	got, err := Texts([]byte(sampleMarkup), config.SelectorRule{Type: "css", Selector: "p.comment"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"first", "second"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTextsEmptyTypeDefaultsToCSS(t *testing.T) {
	got, err := Texts([]byte(sampleMarkup), config.SelectorRule{Selector: "p.comment"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d matches, want 2", len(got))
	}
}

func TestTextsXPath(t *testing.T) {
	rule := config.SelectorRule{Type: "xpath", Selector: "//div[contains(@data-ylk,'cm_body')]"}
	got, err := Texts([]byte(sampleMarkup), rule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"from xpath"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTextsXPathInvalidExpression(t *testing.T) {
	rule := config.SelectorRule{Type: "xpath", Selector: "//div[unclosed"}
	if _, err := Texts([]byte(sampleMarkup), rule); err == nil {
		t.Fatal("expected error for invalid xpath")
	}
}

func TestTextsNoMatches(t *testing.T) {
	got, err := Texts([]byte(sampleMarkup), config.SelectorRule{Type: "css", Selector: "article.absent"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestUnionSkipsFailingRules(t *testing.T) {
	rules := []config.SelectorRule{
		{Type: "xpath", Selector: "//div[unclosed"},
		{Type: "css", Selector: "p.comment"},
		{Type: "xpath", Selector: "//div[contains(@data-ylk,'cm_body')]"},
	}
	got := Union([]byte(sampleMarkup), rules, testLogger())
	want := []string{"first", "second", "from xpath"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"b", "a", "b", "c", "a"})
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := Dedupe(nil); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
