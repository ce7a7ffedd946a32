package recipes

import (
	"time"
)

// DefaultName is used for records without a name.
const DefaultName = "Unknown Recipe"

// Record is the subset of a recipe document the index cares about. Nil
// pointers mean the key was absent or null.
type Record struct {
	Name        *string  `json:"name" yaml:"name"`
	Description *string  `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
}

// Summary is the per-recipe entry of the index.
type Summary struct {
	Filename    string   `json:"filename"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Index is the aggregate written to the index-form artifact.
type Index struct {
	Recipes      []Summary `json:"recipes"`
	AllTags      []string  `json:"allTags"`
	TotalRecipes int       `json:"totalRecipes"`
	// LastUpdated is always null on disk; the front-end stamps it at load time.
	LastUpdated *time.Time `json:"lastUpdated"`
}

// Skipped names a candidate that contributed nothing to the index.
type Skipped struct {
	File string
	Err  error
}

// Result is what a successful build produces.
type Result struct {
	Index Index
	// Candidates are the recognized file names in listing order, including
	// those that were later skipped.
	Candidates []string
	Skipped    []Skipped
}

// Summarize projects a record onto its summary, applying defaults.
func Summarize(filename string, r Record) Summary {
	s := Summary{
		Filename: filename,
		Name:     DefaultName,
		Tags:     []string{},
	}
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.Tags != nil {
		s.Tags = append(s.Tags, r.Tags...)
	}
	return s
}

// Find returns the summary with the given filename.
func (idx Index) Find(filename string) (Summary, bool) {
	for _, s := range idx.Recipes {
		if s.Filename == filename {
			return s, true
		}
	}
	return Summary{}, false
}

// WithTag returns the summaries carrying tag, in index order.
func (idx Index) WithTag(tag string) []Summary {
	out := []Summary{}
	for _, s := range idx.Recipes {
		for _, t := range s.Tags {
			if t == tag {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
