package main

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipe_index/internal/catalog"
	"recipe_index/internal/cli"
	"recipe_index/internal/config"
	"recipe_index/internal/recipes"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &cli.App{}

	cmd := &cobra.Command{
		Use:           "preview",
		Short:         "Serve the site and a live view of the recipe index",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.Sync()
			return serve(a.Config, a.Logger, a.Sugar)
		},
	}
	a.BindFlags(cmd)
	return cmd
}

func serve(cfg config.Config, logger *zap.Logger, sugar *zap.SugaredLogger) error {
	db := openCatalog(cfg, sugar)
	if db != nil {
		defer db.Close()
	}

	r := newRouter(cfg, db, logger, sugar)

	sugar.Infow("listening", "addr", cfg.Preview.Addr, "site", cfg.Preview.SiteDir, "recipes", cfg.RecipesDir)
	if err := r.Run(cfg.Preview.Addr); err != nil {
		sugar.Errorw("server stopped", "error", err)
		return err
	}
	fmt.Println("exiting...")
	return nil
}

// openCatalog opens the exported catalog when one is configured. A missing
// catalog only disables the catalog routes.
func openCatalog(cfg config.Config, sugar *zap.SugaredLogger) *sql.DB {
	if cfg.Catalog.Path == "" {
		return nil
	}
	db, err := catalog.OpenExisting(cfg.Catalog.Path)
	if err != nil {
		if errors.Is(err, catalog.ErrNoCatalog) {
			sugar.Warnw("catalog not exported yet; run build_index first", "path", cfg.Catalog.Path)
		} else {
			sugar.Errorw("failed to open catalog", "path", cfg.Catalog.Path, "error", err)
		}
		return nil
	}
	return db
}

// newRouter serves the static site and a live view of the index. Every
// index request rebuilds it from disk; /v1/catalog reads the last export
// and is only mounted when db is non-nil.
func newRouter(cfg config.Config, db *sql.DB, logger *zap.Logger, sugar *zap.SugaredLogger) *gin.Engine {
	opts := recipes.BuildOptions{Dir: cfg.RecipesDir, Extensions: cfg.Extensions}

	r := gin.New()
	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		v1.GET("/index", func(c *gin.Context) { recipes.IndexHandler(c, opts, sugar) })
		v1.GET("/recipes", func(c *gin.Context) { recipes.ListRecipesHandler(c, opts, sugar) })
		v1.GET("/recipes/:filename", func(c *gin.Context) { recipes.GetRecipeHandler(c, opts, sugar) })
		v1.GET("/tags", func(c *gin.Context) { recipes.ListTagsHandler(c, opts, sugar) })
	}

	if db != nil {
		cat := v1.Group("/catalog")
		cat.GET("/count", func(c *gin.Context) { catalog.CountHandler(c, db, sugar) })
		cat.GET("/tags", func(c *gin.Context) { catalog.ListTagsHandler(c, db, sugar) })
		cat.GET("/tags/:tag", func(c *gin.Context) { catalog.ListRecipesByTagHandler(c, db, sugar) })
	}

	r.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.Preview.SiteDir))))
	return r
}
