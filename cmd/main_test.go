package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recipe_index/internal/catalog"
	"recipe_index/internal/config"
	"recipe_index/internal/recipes"
)

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "recipes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "recipes", "soup.json"), []byte(`{"name":"Soup","tags":["hot"]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>recipes</h1>"), 0o644))

	cfg, err := config.Load(root, "")
	require.NoError(t, err)
	r := newRouter(cfg, nil, zap.NewNop(), zap.NewNop().Sugar())

	do := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		return w
	}

	w := do("/health")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do("/v1/tags")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["hot"]`, w.Body.String())

	w = do("/v1/recipes/soup")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"filename":"soup","name":"Soup","description":"","tags":["hot"]}`, w.Body.String())

	// static files come from the site root
	w = do("/recipes/soup.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Soup"`)

	w = do("/index.html")
	// http.FileServer redirects /index.html to /
	assert.Equal(t, http.StatusMovedPermanently, w.Code)

	w = do("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>recipes</h1>")
}

func TestRouter_CatalogRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	root := t.TempDir()
	cfg, err := config.Load(root, "")
	require.NoError(t, err)
	cfg.Catalog.Path = filepath.Join(root, "asset", "recipes.db")

	do := func(r http.Handler, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	// nothing exported yet: routes stay unmounted and no file is created
	sugar := zap.NewNop().Sugar()
	assert.Nil(t, openCatalog(cfg, sugar))
	assert.NoFileExists(t, cfg.Catalog.Path)
	w := do(newRouter(cfg, nil, zap.NewNop(), sugar), "/v1/catalog/tags")
	assert.Equal(t, http.StatusNotFound, w.Code)

	idx := recipes.Finalize([]recipes.Summary{
		{Filename: "soup", Name: "Soup", Tags: []string{"hot"}},
		{Filename: "salad", Name: "Salad", Tags: []string{"cold"}},
	}, map[string]struct{}{"hot": {}, "cold": {}})
	_, err = catalog.WriteFile(cfg.Catalog.Path, idx, nil)
	require.NoError(t, err)

	db := openCatalog(cfg, sugar)
	require.NotNil(t, db)
	defer db.Close()
	r := newRouter(cfg, db, zap.NewNop(), sugar)

	w = do(r, "/v1/catalog/tags")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["cold","hot"]`, w.Body.String())

	w = do(r, "/v1/catalog/tags/hot")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["soup"]`, w.Body.String())

	w = do(r, "/v1/catalog/count")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalRecipes":2}`, w.Body.String())
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--root", t.TempDir(), "extra"})
	assert.Error(t, cmd.Execute())
}
