package models

import "strings"

// Category represents spending categories for transactions.
type Category string

const (
	CategoryIncome     Category = "Income"
	CategoryEssentials Category = "Essentials"
	CategoryVariable   Category = "Variable"
	CategorySavings    Category = "Savings"
	CategoryOther      Category = "Other"
)

// AllCategories is the closed category set in cycling order.
var AllCategories = []Category{
	CategoryIncome,
	CategoryEssentials,
	CategoryVariable,
	CategorySavings,
	CategoryOther,
}

// IsKnown reports whether c is a member of the closed category set.
func (c Category) IsKnown() bool {
	return c.index() >= 0
}

// Next returns the category that follows c in AllCategories, wrapping after
// the last one. A category outside the set advances to the first.
func (c Category) Next() Category {
	return AllCategories[(c.index()+1)%len(AllCategories)]
}

func (c Category) index() int {
	for i, known := range AllCategories {
		if c == known {
			return i
		}
	}
	return -1
}

// ParseCategory matches s case-insensitively against the closed set.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range AllCategories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// CategoryStyle is the color and icon a client uses to render a category.
type CategoryStyle struct {
	Category Category `json:"category"`
	Color    string   `json:"color"`
	Icon     string   `json:"icon"`
}

var categoryStyles = map[Category]CategoryStyle{
	CategoryIncome:     {Category: CategoryIncome, Color: "#22c55e", Icon: "cash-outline"},
	CategoryEssentials: {Category: CategoryEssentials, Color: "#fbbf24", Icon: "home-outline"},
	CategoryVariable:   {Category: CategoryVariable, Color: "#3b82f6", Icon: "cart-outline"},
	CategorySavings:    {Category: CategorySavings, Color: "#a21caf", Icon: "trending-up-outline"},
	CategoryOther:      {Category: CategoryOther, Color: "#64748b", Icon: "ellipse-outline"},
}

// StyleFor returns the visual treatment for c. Free-text categories from
// manual entry are rendered like Other but keep their own name.
func StyleFor(c Category) CategoryStyle {
	if style, ok := categoryStyles[c]; ok {
		return style
	}
	style := categoryStyles[CategoryOther]
	style.Category = c
	return style
}

// CategoryStyles returns the styles of the closed set in cycling order.
func CategoryStyles() []CategoryStyle {
	styles := make([]CategoryStyle, 0, len(AllCategories))
	for _, c := range AllCategories {
		styles = append(styles, categoryStyles[c])
	}
	return styles
}
