package domain

import (
	"fmt"
	"strings"
)

// Category is the partition key of the store, one per editorial stance
type Category string

// supported categories, in processing order
const (
	CategoryOptimist Category = "techno-optimist"
	CategorySkeptic  Category = "techno-skeptic"
	CategoryCoding   Category = "ai-coding"
)

// categoryInfo holds display attributes of a category
type categoryInfo struct {
	title       string
	description string
}

var categoryInfos = map[Category]categoryInfo{
	CategoryOptimist: {title: "Techno-Optimist", description: "Positive perspectives on AI development and its potential benefits"},
	CategorySkeptic:  {title: "Techno-Skeptic", description: "Critical analysis of AI risks and challenges"},
	CategoryCoding:   {title: "AI Coding Tools", description: "Latest developments in AI-powered development tools and programming"},
}

// Categories returns all categories in canonical order
func Categories() []Category {
	return []Category{CategoryOptimist, CategorySkeptic, CategoryCoding}
}

// ParseCategory converts a string to a Category, case-insensitive
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Valid reports whether the category is one of the supported ones
func (c Category) Valid() bool {
	_, ok := categoryInfos[c]
	return ok
}

// Title returns human-readable category name
func (c Category) Title() string {
	return categoryInfos[c].title
}

// Description returns category description
func (c Category) Description() string {
	return categoryInfos[c].description
}

func (c Category) String() string { return string(c) }
