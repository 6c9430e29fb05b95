package content

import (
	"fmt"

	"github.com/routemark/routemark/pkg/route"
)

// Rule binds a route pattern to the document it renders. The Doc
// template may reuse the pattern's parameter names; captures fill them
// when the rule matches.
type Rule struct {
	// Pattern is the route pattern, e.g. "/list/:channel".
	Pattern string `json:"pattern"`

	// Doc is the document path template, e.g. "/list/:channel.md".
	Doc string `json:"doc"`
}

// DefaultRules serve the repository README at the root and one
// document per channel under /list.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "/", Doc: "/README.md"},
		{Pattern: "/list/:channel", Doc: "/list/:channel.md"},
	}
}

// Resolution is the outcome of matching a path against a rule table.
type Resolution struct {
	// Rule is the first rule whose pattern matched.
	Rule Rule

	// Match carries the captures and query of the matched path.
	Match *route.MatchResult

	// DocPath is the document path derived from Rule.Doc and the
	// captures, with parameter values percent-encoded.
	DocPath string
}

// Resolve matches path against the rules in order and derives the
// document path from the first hit. A nil resolution with a nil error
// means no rule matched.
func Resolve(rules []Rule, path string) (*Resolution, error) {
	for _, rule := range rules {
		m, err := route.Match(rule.Pattern, path)
		if err != nil {
			return nil, fmt.Errorf("match %q against %q: %w", path, rule.Pattern, err)
		}
		if m == nil {
			continue
		}
		docPath, err := route.Generate(rule.Doc, m.Params, nil)
		if err != nil {
			return nil, fmt.Errorf("derive document for %q: %w", rule.Pattern, err)
		}
		return &Resolution{Rule: rule, Match: m, DocPath: docPath}, nil
	}
	return nil, nil
}

// Patterns returns the rule patterns in table order.
func Patterns(rules []Rule) []string {
	out := make([]string, len(rules))
	for i, rule := range rules {
		out[i] = rule.Pattern
	}
	return out
}
