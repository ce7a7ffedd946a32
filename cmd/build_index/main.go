package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipe_index/internal/assets"
	"recipe_index/internal/catalog"
	"recipe_index/internal/cli"
	"recipe_index/internal/config"
	"recipe_index/internal/recipes"
)

// errLogged marks errors the logger has already reported.
var errLogged = errors.New("logged")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errLogged) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &cli.App{}

	root := &cobra.Command{
		Use:           "build_index",
		Short:         "Regenerate the recipe list and summary index for the front-end",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.Sync()
			return report(a.Sugar, runBuild(a.Config, a.Sugar))
		},
	}
	a.BindFlags(root)

	root.AddCommand(&cobra.Command{
		Use:   "inject",
		Short: "Rewrite the file list array inside the front-end script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.Sync()
			return report(a.Sugar, runInject(a.Config, a.Sugar))
		},
	})
	return root
}

func report(sugar *zap.SugaredLogger, err error) error {
	if err == nil || sugar == nil {
		return err
	}
	sugar.Errorw("aborted", "error", err)
	return fmt.Errorf("%w: %w", errLogged, err)
}

// runBuild writes the list and index artifacts, plus the SQLite catalog
// when one is configured. Nothing is written if the recipes directory is
// unusable.
func runBuild(cfg config.Config, sugar *zap.SugaredLogger) error {
	res, err := recipes.Build(recipes.BuildOptions{Dir: cfg.RecipesDir, Extensions: cfg.Extensions}, sugar)
	if err != nil {
		return err
	}

	listPath := cfg.ListPath()
	if err := assets.WriteList(listPath, res.Paths(cfg.ListPrefix)); err != nil {
		return err
	}
	sugar.Infow("recipe list updated", "path", listPath, "recipes", len(res.Candidates))

	indexPath := cfg.IndexPath()
	if err := assets.WriteIndex(indexPath, res.Index); err != nil {
		return err
	}
	sugar.Infow("recipe index created", "path", indexPath, "recipes", res.Index.TotalRecipes,
		"tags", len(res.Index.AllTags), "skipped", len(res.Skipped))

	if cfg.Catalog.Path != "" {
		n, err := catalog.WriteFile(cfg.Catalog.Path, res.Index, sugar)
		if err != nil {
			return err
		}
		sugar.Infow("catalog exported", "path", cfg.Catalog.Path, "recipes", n)
	}
	return nil
}

// runInject rewrites the configured script's file list. A script without
// the array declaration is reported and left alone; that is not a failure.
func runInject(cfg config.Config, sugar *zap.SugaredLogger) error {
	res, err := recipes.Build(recipes.BuildOptions{Dir: cfg.RecipesDir, Extensions: cfg.Extensions}, sugar)
	if err != nil {
		return err
	}

	paths := res.Paths(cfg.ListPrefix)
	err = assets.Inject(cfg.Script.Path, cfg.Script.ArrayName, paths)
	switch {
	case errors.Is(err, assets.ErrMarkerNotFound):
		sugar.Warnw("no file list declaration found; script left unchanged", "script", cfg.Script.Path, "array", cfg.Script.ArrayName)
		return nil
	case err != nil:
		return err
	}
	sugar.Infow("script file list updated", "path", cfg.Script.Path, "recipes", len(paths))
	return nil
}
