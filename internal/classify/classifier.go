// Package classify assigns spending categories to transaction descriptions.
//
// Remembered choices always take precedence over the keyword rules, and the
// rules are tried in a fixed order with the first match winning.
package classify

import (
	"regexp"
	"strings"

	"github.com/rocjay1/statement-ocr/internal/models"
	"golang.org/x/text/cases"
)

// Memory maps a normalized description to the category the user confirmed
// for it.
type Memory map[string]models.Category

// Lookup returns the remembered category for description, if any.
func (m Memory) Lookup(description string) (models.Category, bool) {
	c, ok := m[Normalize(description)]
	return c, ok
}

// Remember records category for description. Later writes win.
func (m Memory) Remember(description string, category models.Category) {
	m[Normalize(description)] = category
}

// Clone returns a copy of the memory.
func (m Memory) Clone() Memory {
	out := make(Memory, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Normalize trims and case-folds a description for use as a memory key.
func Normalize(description string) string {
	return cases.Fold().String(strings.TrimSpace(description))
}

type rule struct {
	name     string
	pattern  *regexp.Regexp
	category models.Category
}

// Order matters.
var rules = []rule{
	{"essentials", regexp.MustCompile(`rema|coop|kiwi|meny|grocer|butikk|mat`), models.CategoryEssentials},
	{"variable", regexp.MustCompile(`cinema|netflix|spotify|restaurant|kafe|entertain`), models.CategoryVariable},
	{"income", regexp.MustCompile(`salary|lønn|bonus|income`), models.CategoryIncome},
	{"savings", regexp.MustCompile(`saving|fond|aksje|invest|sparekonto`), models.CategorySavings},
}

// Classify returns the category for description. memory may be nil.
func Classify(description string, memory Memory) models.Category {
	key := Normalize(description)
	if c, ok := memory[key]; ok {
		return c
	}

	for _, r := range rules {
		if r.pattern.MatchString(key) {
			return r.category
		}
	}
	return models.CategoryOther
}
