package meetings

import "strings"

// Classification is the user-facing rendering of a failure. Only the
// sanitized error detail is persisted with the record; the rest is derived
// from it on demand, so message wording can change without a migration.
type Classification struct {
	Category        string   `json:"category"`
	Title           string   `json:"title"`
	Message         string   `json:"message"`
	Suggestions     []string `json:"suggestions"`
	TechnicalDetail string   `json:"technicalDetail"`
}

const (
	CategoryTimeout    = "timeout"
	CategoryAPIError   = "api_error"
	CategoryFileFormat = "file_format"
	CategoryFileSize   = "file_size"
	CategoryDatabase   = "database"
	CategoryNetwork    = "network"
	CategoryUnknown    = "unknown"
)

type classifierRule struct {
	keywords []string
	result   Classification
}

// classifierRules is matched top to bottom against the lowercased error
// text; the first rule with any keyword hit wins. New categories only need a
// new table entry.
var classifierRules = []classifierRule{
	{
		keywords: []string{"timeout", "timed out", "deadline exceeded"},
		result: Classification{
			Category: CategoryTimeout,
			Title:    "Analysis timed out",
			Message:  "The analysis took longer than expected and had to stop. This usually means the AI service was unusually slow.",
			Suggestions: []string{
				"Try running the analysis again in a few minutes",
				"If the meeting is very long, check whether the transcript can be trimmed",
				"Contact support if this keeps happening",
			},
		},
	},
	{
		keywords: []string{"too large", "file size", "size limit", "exceeds the maximum"},
		result: Classification{
			Category: CategoryFileSize,
			Title:    "Recording too large",
			Message:  "The uploaded recording or transcript is larger than we can process.",
			Suggestions: []string{
				"Split the recording into shorter segments",
				"Upload the transcript text instead of the full recording",
				"Compress the file before uploading",
			},
		},
	},
	{
		keywords: []string{"unsupported file", "file format", "docx", "mp4", "extract text"},
		result: Classification{
			Category: CategoryFileFormat,
			Title:    "Unsupported file format",
			Message:  "We couldn't read the uploaded file. Only DOCX transcripts and MP4 recordings are supported.",
			Suggestions: []string{
				"Re-export the transcript as a DOCX file",
				"Check that the file isn't corrupted by opening it locally",
				"Paste the transcript text directly if the file keeps failing",
			},
		},
	},
	{
		keywords: []string{"database", "sql", "postgres", "constraint", "connection pool"},
		result: Classification{
			Category: CategoryDatabase,
			Title:    "Storage problem",
			Message:  "We hit a problem saving your analysis. Your meeting data is safe, but the results didn't get stored.",
			Suggestions: []string{
				"Try running the analysis again",
				"Check the status page for ongoing incidents",
				"Contact support if the problem persists",
			},
		},
	},
	{
		keywords: []string{"connection refused", "connection reset", "no such host", "broken pipe", "network", "eof"},
		result: Classification{
			Category: CategoryNetwork,
			Title:    "Network problem",
			Message:  "We couldn't reach one of the services needed for the analysis.",
			Suggestions: []string{
				"Try again in a few minutes",
				"Check your connection if you're running this locally",
				"Contact support if the problem persists",
			},
		},
	},
	{
		keywords: []string{"all providers failed", "openai", "anthropic", "rate limit", "output parse", "api error", "provider"},
		result: Classification{
			Category: CategoryAPIError,
			Title:    "AI service problem",
			Message:  "The AI service couldn't complete the analysis. This is on our side, not yours.",
			Suggestions: []string{
				"Try running the analysis again in a few minutes",
				"If it fails repeatedly, wait a little longer between attempts",
				"Contact support with the technical details below if it keeps failing",
			},
		},
	},
}

var unknownClassification = Classification{
	Category: CategoryUnknown,
	Title:    "Something went wrong",
	Message:  "The analysis failed for an unexpected reason. Your meeting data is safe.",
	Suggestions: []string{
		"Try running the analysis again",
		"If it fails again, wait a few minutes before retrying",
		"Contact support with the technical details below",
	},
}

// Classify derives the user-facing classification from a raw error.
func Classify(err error) Classification {
	return ClassifyDetail(sanitizeError(err))
}

// ClassifyDetail derives the classification from an already-sanitized error
// detail, as stored on a failed record.
func ClassifyDetail(detail string) Classification {
	msg := strings.ToLower(detail)
	for _, rule := range classifierRules {
		for _, kw := range rule.keywords {
			if strings.Contains(msg, kw) {
				result := rule.result
				result.TechnicalDetail = detail
				return result
			}
		}
	}
	result := unknownClassification
	result.TechnicalDetail = detail
	return result
}

// sanitizeError flattens an error message to a single capped line.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
