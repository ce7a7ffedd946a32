package recipes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var errEmptyDocument = errors.New("empty document")

// LoadRecord reads and decodes one recipe file. The decoder follows the
// file extension: .yaml and .yml use YAML, everything else JSON.
func LoadRecord(path string) (Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	return DecodeRecord(filepath.Ext(path), b)
}

// DecodeRecord decodes a recipe document. The top level must be an object.
func DecodeRecord(ext string, b []byte) (Record, error) {
	var r Record
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var doc yaml.Node
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return Record{}, fmt.Errorf("invalid YAML: %w", err)
		}
		if len(doc.Content) == 0 || doc.Content[0].Tag == "!!null" {
			return Record{}, errEmptyDocument
		}
		if err := checkYAMLTypes(doc.Content[0]); err != nil {
			return Record{}, fmt.Errorf("invalid recipe: %w", err)
		}
		if err := doc.Decode(&r); err != nil {
			return Record{}, fmt.Errorf("invalid recipe: %w", err)
		}
	default:
		trimmed := bytes.TrimSpace(b)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			return Record{}, errEmptyDocument
		}
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return Record{}, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	return r, nil
}

// checkYAMLTypes rejects the values YAML would quietly turn into strings
// (numbers, booleans) so YAML recipes fail where the JSON equivalent does.
func checkYAMLTypes(root *yaml.Node) error {
	root = deref(root)
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("top level is %s, want a mapping", root.ShortTag())
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, deref(root.Content[i+1])
		switch key {
		case "name", "description":
			if !isStrOrNull(val) {
				return fmt.Errorf("%s: got %s, want a string", key, val.ShortTag())
			}
		case "tags":
			if val.ShortTag() == "!!null" {
				continue
			}
			if val.Kind != yaml.SequenceNode {
				return fmt.Errorf("tags: got %s, want a list of strings", val.ShortTag())
			}
			for _, item := range val.Content {
				if item = deref(item); item.ShortTag() != "!!str" {
					return fmt.Errorf("tags: got %s element, want a string", item.ShortTag())
				}
			}
		}
	}
	return nil
}

func isStrOrNull(n *yaml.Node) bool {
	tag := n.ShortTag()
	return tag == "!!str" || tag == "!!null"
}

func deref(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
