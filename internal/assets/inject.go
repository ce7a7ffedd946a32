package assets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
)

// ErrScriptNotFound indicates the script to inject into does not exist.
var ErrScriptNotFound = errors.New("script not found")

// ErrMarkerNotFound indicates the script has no matching array declaration.
var ErrMarkerNotFound = errors.New("array declaration not found")

// arrayBody matches the contents of a flat array literal up to, not
// including, its closing bracket. Quoted strings may contain brackets.
const arrayBody = `((?:"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'|[^\]"'])*)`

// arrayPattern matches `const|let|var <name> = [ ... ]`. Group 2 is the
// literal contents between the brackets; whatever follows the closing
// bracket, semicolon or not, is not part of the match.
func arrayPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`((?:const|let|var)\s+` + regexp.QuoteMeta(name) + `\s*=\s*\[)` + arrayBody + `(\])`)
}

// InjectText replaces the contents of the first declaration of the named
// array in text with paths. Everything outside the brackets is preserved.
func InjectText(text []byte, name string, paths []string) ([]byte, error) {
	loc := arrayPattern(name).FindSubmatchIndex(text)
	if loc == nil {
		return nil, fmt.Errorf("%w: %s", ErrMarkerNotFound, name)
	}

	lit, err := arrayLiteral(paths)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(text)+len(lit))
	out = append(out, text[:loc[4]]...)
	out = append(out, lit...)
	out = append(out, text[loc[5]:]...)
	return out, nil
}

// Inject rewrites the named array in the script at path. When the
// declaration is missing the file is left untouched and ErrMarkerNotFound
// is returned.
func Inject(path, name string, paths []string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrScriptNotFound, path)
		}
		return fmt.Errorf("cannot stat %s: %w", path, err)
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	out, err := InjectText(text, name, paths)
	if err != nil {
		return err
	}
	if bytes.Equal(out, text) {
		return nil
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// arrayLiteral renders paths as `"a", "b"`.
func arrayLiteral(paths []string) ([]byte, error) {
	var buf bytes.Buffer
	for i, p := range paths {
		if i > 0 {
			buf.WriteString(", ")
		}
		q, err := quote(p)
		if err != nil {
			return nil, err
		}
		buf.Write(q)
	}
	return buf.Bytes(), nil
}

func quote(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
