package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"recipe_index/internal/recipes"
)

// ErrNoCatalog indicates no catalog has been exported yet.
var ErrNoCatalog = errors.New("catalog not found")

const schema = `
DROP TABLE IF EXISTS recipe_tags;
DROP TABLE IF EXISTS recipes;

CREATE TABLE recipes (
	filename    TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	position    INTEGER NOT NULL
);

CREATE TABLE recipe_tags (
	filename TEXT NOT NULL REFERENCES recipes(filename) ON DELETE CASCADE,
	tag      TEXT NOT NULL,
	PRIMARY KEY (filename, tag)
);

CREATE INDEX idx_recipe_tags_tag ON recipe_tags(tag);
`

// Open opens (creating if needed) the catalog database at path.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create dir for %s: %w", path, err)
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	return db, nil
}

// OpenExisting opens a catalog that a previous build exported. Unlike Open
// it never creates the file.
func OpenExisting(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoCatalog, path)
		}
		return nil, fmt.Errorf("cannot stat %s: %w", path, err)
	}
	return Open(path)
}

// Export replaces the catalog contents with idx in a single transaction.
func Export(db *sql.DB, idx recipes.Index, sugar *zap.SugaredLogger) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(schema); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}

	recipeStmt, err := tx.Prepare(`INSERT INTO recipes (filename, name, description, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare recipe insert: %w", err)
	}
	defer recipeStmt.Close()

	// OR IGNORE: a recipe may list the same tag twice
	tagStmt, err := tx.Prepare(`INSERT OR IGNORE INTO recipe_tags (filename, tag) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare tag insert: %w", err)
	}
	defer tagStmt.Close()

	for i, s := range idx.Recipes {
		if _, err = recipeStmt.Exec(s.Filename, s.Name, s.Description, i); err != nil {
			if sugar != nil {
				sugar.Errorw("failed to insert recipe", "filename", s.Filename, "error", err)
			}
			return fmt.Errorf("insert recipe %s: %w", s.Filename, err)
		}
		for _, tag := range s.Tags {
			if _, err = tagStmt.Exec(s.Filename, tag); err != nil {
				return fmt.Errorf("insert tag %q for %s: %w", tag, s.Filename, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog: %w", err)
	}
	return nil
}

// WriteFile opens the catalog at path, exports idx and closes it. It
// returns the number of recipes the catalog holds afterwards.
func WriteFile(path string, idx recipes.Index, sugar *zap.SugaredLogger) (int, error) {
	db, err := Open(path)
	if err != nil {
		return 0, err
	}
	if err := Export(db, idx, sugar); err != nil {
		db.Close()
		return 0, err
	}
	n, err := Count(db)
	if err != nil {
		db.Close()
		return 0, fmt.Errorf("count catalog: %w", err)
	}
	return n, db.Close()
}

// RecipesWithTag returns the filenames carrying tag, in index order.
func RecipesWithTag(db *sql.DB, tag string) ([]string, error) {
	rows, err := db.Query(`
		SELECT r.filename
		FROM recipes r
		JOIN recipe_tags t ON t.filename = r.filename
		WHERE t.tag = ?
		ORDER BY r.position ASC
	`, tag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Tags returns the distinct tags in the catalog, sorted.
func Tags(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT DISTINCT tag FROM recipe_tags ORDER BY tag ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}

// Count returns the number of recipes in the catalog.
func Count(db *sql.DB) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM recipes`).Scan(&n)
	return n, err
}
