package crawler

import "time"

// RuleKind identifies how codes appear in a source's markup. The set is
// closed; the extractor dispatches on it.
type RuleKind string

const (
	// RulePattern scans the document text for tokens matching a code shape
	RulePattern RuleKind = "pattern"
	// RuleLabel anchors the code token to a label word ("code:", "use code")
	RuleLabel RuleKind = "label"
	// RuleStructural selects elements by CSS selector and scans their text
	RuleStructural RuleKind = "structural"
)

// ExtractionRule describes how candidate codes are pulled out of one
// source's content.
type ExtractionRule struct {
	Kind RuleKind

	// Pattern is an optional regexp a token must fully match. When empty,
	// the default code shape applies: MinLen..MaxLen characters, at least
	// one letter and one digit.
	Pattern string

	// MinLen and MaxLen bound the token length for the default shape.
	// Zero values fall back to 5 and 20.
	MinLen int
	MaxLen int

	// Labels are the anchor words for label rules, matched case-insensitively.
	Labels []string

	// Selector is the CSS selector for structural rules.
	Selector string

	// RequireShape additionally requires the dash-stripped token length to
	// be one of the lengths the game actually issues (12 or 16).
	RequireShape bool
}

// CandidateCode is a code string extracted from a source before
// deduplication.
type CandidateCode struct {
	// Code is the raw extracted token. Non-empty after trimming.
	Code string

	// Source names the source the code came from. Informational only,
	// never part of code identity.
	Source string

	// SourceURL is the page the code was found on.
	SourceURL string

	// ExpiresAt is the unix timestamp the source hints the code expires at.
	ExpiresAt int64
}

// Crawler is the contract for all source crawler implementations
type Crawler interface {
	// FetchCodes retrieves candidate codes from a source
	FetchCodes() ([]CandidateCode, error)

	// GetName returns the source name for logging and identification
	GetName() string
}

// SourceConfig contains the configuration for one source crawler
type SourceConfig struct {
	Name        string
	URL         string
	CacheKey    string
	BlockTime   int
	MaxAttempts int
	RetryDelay  time.Duration
	Rule        ExtractionRule
}
