package recipes

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// BuildOptions controls an index build.
type BuildOptions struct {
	Dir        string
	Extensions []string
}

// Build scans opts.Dir and assembles the index. It fails only when the
// directory itself is unusable; unreadable or malformed recipes are logged,
// listed in Result.Skipped and left out of the index.
func Build(opts BuildOptions, sugar *zap.SugaredLogger) (*Result, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("recipes dir is required")
	}

	files, err := Candidates(opts.Dir, opts.Extensions)
	if err != nil {
		return nil, err
	}

	res := &Result{Candidates: files}
	summaries := make([]Summary, 0, len(files))
	tags := map[string]struct{}{}
	seen := map[string]string{}

	for _, file := range files {
		stem := Stem(file)
		if prev, ok := seen[stem]; ok {
			res.skip(sugar, file, fmt.Errorf("%w: %q already provided by %s", ErrDuplicateRecipe, stem, prev))
			continue
		}

		rec, err := LoadRecord(filepath.Join(opts.Dir, file))
		if err != nil {
			res.skip(sugar, file, err)
			continue
		}
		seen[stem] = file

		s := Summarize(stem, rec)
		for _, t := range s.Tags {
			tags[t] = struct{}{}
		}
		summaries = append(summaries, s)
	}

	res.Index = Finalize(summaries, tags)
	if sugar != nil {
		sugar.Debugw("index built", "dir", opts.Dir, "candidates", len(files), "recipes", res.Index.TotalRecipes, "skipped", len(res.Skipped))
	}
	return res, nil
}

// Finalize sorts the tag vocabulary and assembles the index.
func Finalize(summaries []Summary, tags map[string]struct{}) Index {
	all := make([]string, 0, len(tags))
	for t := range tags {
		all = append(all, t)
	}
	sort.Strings(all)

	if summaries == nil {
		summaries = []Summary{}
	}
	return Index{
		Recipes:      summaries,
		AllTags:      all,
		TotalRecipes: len(summaries),
	}
}

// Paths returns the list-form entries: every candidate joined to prefix
// with a forward slash.
func (r *Result) Paths(prefix string) []string {
	prefix = strings.TrimSuffix(prefix, "/")
	out := make([]string, 0, len(r.Candidates))
	for _, f := range r.Candidates {
		if prefix == "" {
			out = append(out, f)
			continue
		}
		out = append(out, prefix+"/"+f)
	}
	return out
}

func (r *Result) skip(sugar *zap.SugaredLogger, file string, err error) {
	r.Skipped = append(r.Skipped, Skipped{File: file, Err: err})
	if sugar != nil {
		sugar.Warnw("could not process recipe", "file", file, "error", err)
	}
}
