package assets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"recipe_index/internal/recipes"
)

// Indent matches the four-space layout the front-end repository commits.
const Indent = "    "

// WriteList writes the list-form artifact: a JSON array of relative paths.
func WriteList(path string, paths []string) error {
	if paths == nil {
		paths = []string{}
	}
	return writeJSON(path, paths)
}

// WriteIndex writes the index-form artifact.
func WriteIndex(path string, idx recipes.Index) error {
	return writeJSON(path, idx)
}

// Encode renders v the way every artifact is written: indented, with HTML
// and non-ASCII characters kept literally.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(path string, v any) error {
	b, err := Encode(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
