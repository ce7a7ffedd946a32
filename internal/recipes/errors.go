package recipes

import "errors"

// ErrSourceNotFound indicates the recipes directory does not exist.
var ErrSourceNotFound = errors.New("recipes directory not found")

// ErrNotADirectory indicates the recipes path exists but is a file.
var ErrNotADirectory = errors.New("recipes path is not a directory")

// ErrDuplicateRecipe indicates two candidates share a filename stem.
var ErrDuplicateRecipe = errors.New("duplicate recipe filename")
