// Package rubric provides role-specific evaluation rubrics, cached on disk
// and generated on demand through the reasoning service.
package rubric

import "strings"

type Dimension struct {
	Name           string  `json:"name" yaml:"name"`
	Weight         float64 `json:"weight" yaml:"weight"`
	Description    string  `json:"description" yaml:"description"`
	ExamplesOfGood string  `json:"examplesOfGood" yaml:"examples_of_good"`
	ExamplesOfBad  string  `json:"examplesOfBad" yaml:"examples_of_bad"`
}

type Rubric struct {
	Dimensions []Dimension `json:"dimensions" yaml:"dimensions"`
}

// Slug converts a role label into the cache key used for its rubric file.
func Slug(role string) string {
	return strings.Join(strings.Fields(strings.ToLower(role)), "-")
}
