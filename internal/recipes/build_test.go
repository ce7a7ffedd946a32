package recipes

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_AggregatesTags(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"one.json":   `{"name":"One","tags":["b","a"]}`,
		"two.json":   `{"name":"Two","description":"second","tags":["b","c"]}`,
		"three.json": `{"name":"Three"}`,
	})

	res, err := Build(BuildOptions{Dir: dir}, nil)
	require.NoError(t, err)

	idx := res.Index
	assert.Equal(t, []string{"a", "b", "c"}, idx.AllTags)
	assert.Equal(t, 3, idx.TotalRecipes)
	assert.Len(t, idx.Recipes, idx.TotalRecipes)
	assert.Nil(t, idx.LastUpdated)
	assert.Empty(t, res.Skipped)

	three, ok := idx.Find("three")
	require.True(t, ok)
	assert.Equal(t, []string{}, three.Tags)
	assert.Equal(t, "", three.Description)
}

func TestBuild_SkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"good.json":   `{"name":"Good","tags":["x"]}`,
		"broken.json": `{"name":`,
		"other.yaml":  "name: Other\n",
	})
	sugar, logs := observed()

	res, err := Build(BuildOptions{Dir: dir}, sugar)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Index.TotalRecipes)
	_, found := res.Index.Find("broken")
	assert.False(t, found)
	assert.Len(t, res.Candidates, 3)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "broken.json", res.Skipped[0].File)

	warns := logs.FilterMessage("could not process recipe").All()
	require.Len(t, warns, 1)
	assert.Equal(t, "broken.json", warns[0].ContextMap()["file"])
}

func TestBuild_DuplicateStem(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"soup.json": `{"name":"Json Soup"}`,
		"soup.yaml": "name: Yaml Soup\n",
	})

	res, err := Build(BuildOptions{Dir: dir}, nil)
	require.NoError(t, err)

	require.Len(t, res.Index.Recipes, 1)
	// ReadDir lists by name, so the .json file comes first
	assert.Equal(t, "Json Soup", res.Index.Recipes[0].Name)
	require.Len(t, res.Skipped, 1)
	assert.True(t, errors.Is(res.Skipped[0].Err, ErrDuplicateRecipe))
}

func TestBuild_BrokenFileDoesNotClaimStem(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"soup.json": `nope`,
		"soup.yaml": "name: Yaml Soup\n",
	})

	res, err := Build(BuildOptions{Dir: dir}, nil)
	require.NoError(t, err)
	require.Len(t, res.Index.Recipes, 1)
	assert.Equal(t, "Yaml Soup", res.Index.Recipes[0].Name)
}

func TestBuild_EmptyDir(t *testing.T) {
	res, err := Build(BuildOptions{Dir: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.Equal(t, []Summary{}, res.Index.Recipes)
	assert.Equal(t, []string{}, res.Index.AllTags)
	assert.Zero(t, res.Index.TotalRecipes)
}

func TestBuild_MissingDir(t *testing.T) {
	_, err := Build(BuildOptions{Dir: filepath.Join(t.TempDir(), "missing")}, nil)
	assert.ErrorIs(t, err, ErrSourceNotFound)

	_, err = Build(BuildOptions{}, nil)
	assert.Error(t, err)
}

func TestResult_Paths(t *testing.T) {
	r := &Result{Candidates: []string{"a.json", "b.yaml"}}
	assert.Equal(t, []string{"recipes/a.json", "recipes/b.yaml"}, r.Paths("recipes"))
	assert.Equal(t, []string{"recipes/a.json", "recipes/b.yaml"}, r.Paths("recipes/"))
	assert.Equal(t, []string{"a.json", "b.yaml"}, r.Paths(""))
}

func TestIndex_WithTag(t *testing.T) {
	idx := Finalize([]Summary{
		{Filename: "a", Tags: []string{"x"}},
		{Filename: "b", Tags: []string{"y"}},
		{Filename: "c", Tags: []string{"x", "y"}},
	}, map[string]struct{}{"x": {}, "y": {}})

	got := idx.WithTag("x")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Filename)
	assert.Equal(t, "c", got[1].Filename)
	assert.Empty(t, idx.WithTag("z"))
}
