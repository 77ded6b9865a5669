package crawler

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultMinLen = 5
	defaultMaxLen = 20
)

// tokenRunRe matches maximal runs of code-alphabet characters. A maximal
// run is word-boundary delimited by construction, so a token embedded in a
// longer word can never be extracted on its own.
var tokenRunRe = regexp.MustCompile(`[A-Za-z0-9-]+`)

// Extractor applies one source's extraction rule to fetched content.
type Extractor struct {
	rule     ExtractionRule
	pattern  *regexp.Regexp
	labelRes []*regexp.Regexp
	now      func() time.Time
}

// NewExtractor compiles an extraction rule. Invalid rules are rejected here
// so that misconfiguration surfaces before any network activity.
func NewExtractor(rule ExtractionRule) (*Extractor, error) {
	e := &Extractor{
		rule: rule,
		now:  time.Now,
	}

	switch rule.Kind {
	case RulePattern:
	case RuleLabel:
		if len(rule.Labels) == 0 {
			return nil, fmt.Errorf("label rule needs at least one label")
		}
	case RuleStructural:
		if rule.Selector == "" {
			return nil, fmt.Errorf("structural rule needs a selector")
		}
	default:
		return nil, fmt.Errorf("unknown rule kind %q", rule.Kind)
	}

	if rule.Pattern != "" {
		re, err := regexp.Compile(`^(?:` + rule.Pattern + `)$`)
		if err != nil {
			return nil, fmt.Errorf("invalid token pattern %q: %w", rule.Pattern, err)
		}
		e.pattern = re
	}

	for _, label := range rule.Labels {
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(label) + `[\s:=]*([A-Za-z0-9-]+)`)
		if err != nil {
			return nil, fmt.Errorf("invalid label %q: %w", label, err)
		}
		e.labelRes = append(e.labelRes, re)
	}

	return e, nil
}

// FromDocument extracts candidate codes from a parsed document. A document
// yielding zero candidates is a valid empty result, not an error.
func (e *Extractor) FromDocument(doc *goquery.Document, sourceName, sourceURL string) []CandidateCode {
	var candidates []CandidateCode

	if e.rule.Kind == RuleStructural {
		doc.Find(e.rule.Selector).Each(func(i int, s *goquery.Selection) {
			candidates = append(candidates, e.scanText(s.Text(), sourceName, sourceURL)...)
		})
		return candidates
	}

	return e.scanText(doc.Text(), sourceName, sourceURL)
}

// scanText finds validated code tokens line by line. Text after a token on
// the same line may carry an expiry annotation.
func (e *Extractor) scanText(text, sourceName, sourceURL string) []CandidateCode {
	var candidates []CandidateCode

	for _, line := range strings.Split(text, "\n") {
		seen := make(map[int]bool)

		for _, span := range e.findTokens(line) {
			start, end := span[0], span[1]
			if seen[start] {
				continue
			}
			seen[start] = true

			token := line[start:end]
			if !e.validToken(token) {
				continue
			}

			candidates = append(candidates, CandidateCode{
				Code:      token,
				Source:    sourceName,
				SourceURL: sourceURL,
				ExpiresAt: e.expiresAt(line[end:]),
			})
		}
	}

	return candidates
}

// findTokens returns the [start, end) spans of candidate tokens in a line,
// according to the rule kind.
func (e *Extractor) findTokens(line string) [][]int {
	if e.rule.Kind == RuleLabel {
		var spans [][]int
		for _, re := range e.labelRes {
			for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
				// Group 1 is the token following the label.
				spans = append(spans, []int{m[2], m[3]})
			}
		}
		return spans
	}

	return tokenRunRe.FindAllStringIndex(line, -1)
}

// validToken applies the rule's token pattern or the default code shape.
func (e *Extractor) validToken(token string) bool {
	if e.rule.RequireShape && !HasValidShape(token) {
		return false
	}

	if e.pattern != nil {
		return e.pattern.MatchString(token)
	}

	minLen, maxLen := e.rule.MinLen, e.rule.MaxLen
	if minLen == 0 {
		minLen = defaultMinLen
	}
	if maxLen == 0 {
		maxLen = defaultMaxLen
	}
	if len(token) < minLen || len(token) > maxLen {
		return false
	}

	hasLetter, hasDigit := false, false
	for _, r := range token {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '-':
		default:
			return false
		}
	}
	return hasLetter && hasDigit
}

// expiresAt resolves the expiry timestamp for a token from the trailing
// text on its line, falling back to the one-week default.
func (e *Extractor) expiresAt(rest string) int64 {
	now := e.now()
	if t, ok := ParseExpiryHint(expiryHintIn(rest), now); ok {
		return t.Unix()
	}
	return NextWeek(now).Unix()
}
