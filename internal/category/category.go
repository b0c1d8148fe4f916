package category

import (
	"fmt"
	"regexp"

	"github.com/GustavoCaso/expensedesk/internal/config"
)

type matcher struct {
	re       *regexp.Regexp
	category string
}

// Matcher picks a category for an expense title. Rules are tried in order.
type Matcher struct {
	matchers []matcher
}

func New(categories []config.Category) (*Matcher, error) {
	matchers := make([]matcher, 0, len(categories))

	for _, category := range categories {
		re, err := regexp.Compile(category.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for category %s: %w", category.Name, err)
		}
		matchers = append(matchers, matcher{re: re, category: category.Name})
	}

	return &Matcher{
		matchers: matchers,
	}, nil
}

// Match returns the first category whose pattern matches title, or "".
func (m *Matcher) Match(title string) string {
	for _, matcher := range m.matchers {
		if matcher.re.MatchString(title) {
			return matcher.category
		}
	}

	return ""
}
