package recipes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// buildFor rebuilds the index for one request and writes the error response
// itself when the build cannot run.
func buildFor(c *gin.Context, opts BuildOptions, sugar *zap.SugaredLogger) (*Result, bool) {
	res, err := Build(opts, sugar)
	if err != nil {
		if sugar != nil {
			sugar.Errorw("failed to build index", "dir", opts.Dir, "error", err)
		}
		if errors.Is(err, ErrSourceNotFound) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recipes directory not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build index"})
		return nil, false
	}
	return res, true
}

func IndexHandler(c *gin.Context, opts BuildOptions, sugar *zap.SugaredLogger) {
	res, ok := buildFor(c, opts, sugar)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res.Index)
}

// ListRecipesHandler returns every summary, or only those carrying ?tag=.
func ListRecipesHandler(c *gin.Context, opts BuildOptions, sugar *zap.SugaredLogger) {
	res, ok := buildFor(c, opts, sugar)
	if !ok {
		return
	}

	if tag, has := c.GetQuery("tag"); has {
		c.JSON(http.StatusOK, res.Index.WithTag(tag))
		return
	}
	c.JSON(http.StatusOK, res.Index.Recipes)
}

func GetRecipeHandler(c *gin.Context, opts BuildOptions, sugar *zap.SugaredLogger) {
	filename := c.Param("filename")
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filename"})
		return
	}

	res, ok := buildFor(c, opts, sugar)
	if !ok {
		return
	}

	s, found := res.Index.Find(filename)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func ListTagsHandler(c *gin.Context, opts BuildOptions, sugar *zap.SugaredLogger) {
	res, ok := buildFor(c, opts, sugar)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res.Index.AllTags)
}
