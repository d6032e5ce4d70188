package meetings

import (
	"errors"
	"strings"
	"testing"
)

func TestClassifyCategories(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", errors.New("context deadline exceeded"), CategoryTimeout},
		{"timed out", errors.New("openai request timed out"), CategoryTimeout},
		{"file size", errors.New("upload is too large"), CategoryFileSize},
		{"file format", errors.New("cannot extract text from docx"), CategoryFileFormat},
		{"database", errors.New("pq: connection pool exhausted"), CategoryDatabase},
		{"sql", errors.New("sql: no rows in result set"), CategoryDatabase},
		{"network", errors.New("dial tcp: connection refused"), CategoryNetwork},
		{"api aggregate", errors.New("all providers failed: openai: http status 500"), CategoryAPIError},
		{"rate limit", errors.New("anthropic rate limit: http status 429"), CategoryAPIError},
		{"unknown", errors.New("something inexplicable"), CategoryUnknown},
		{"nil error", nil, CategoryUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.err)
			if got.Category != tc.want {
				t.Errorf("category = %q, want %q", got.Category, tc.want)
			}
			if got.Title == "" || got.Message == "" || len(got.Suggestions) == 0 {
				t.Error("classification is missing user-facing fields")
			}
		})
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	// Timeout keywords outrank the api_error keywords even when both match.
	got := Classify(errors.New("openai request timeout"))
	if got.Category != CategoryTimeout {
		t.Errorf("category = %q, want %q", got.Category, CategoryTimeout)
	}
}

func TestClassifyTechnicalDetailSanitized(t *testing.T) {
	raw := "line one\nline two\r\n" + strings.Repeat("x", 600)
	got := Classify(errors.New(raw))
	if strings.ContainsAny(got.TechnicalDetail, "\n\r") {
		t.Error("technical detail contains line breaks")
	}
	if len(got.TechnicalDetail) > 500 {
		t.Errorf("technical detail length = %d, want <= 500", len(got.TechnicalDetail))
	}
}

func TestClassifyDetailMatchesClassify(t *testing.T) {
	// A stored detail must classify the same way the original error did.
	err := errors.New("summarize meeting: all providers failed: openai: http status 500")
	fromErr := Classify(err)
	fromDetail := ClassifyDetail(fromErr.TechnicalDetail)
	if fromDetail.Category != fromErr.Category {
		t.Errorf("category = %q, want %q", fromDetail.Category, fromErr.Category)
	}
	if fromDetail.TechnicalDetail != fromErr.TechnicalDetail {
		t.Errorf("detail = %q, want %q", fromDetail.TechnicalDetail, fromErr.TechnicalDetail)
	}
}
