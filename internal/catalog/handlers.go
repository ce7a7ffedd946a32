package catalog

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers below read the last exported catalog, not the live recipes
// directory.

func ListTagsHandler(c *gin.Context, db *sql.DB, sugar *zap.SugaredLogger) {
	tags, err := Tags(db)
	if err != nil {
		if sugar != nil {
			sugar.Errorw("failed to query catalog tags", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query tags"})
		return
	}
	if tags == nil {
		tags = []string{}
	}
	c.JSON(http.StatusOK, tags)
}

func ListRecipesByTagHandler(c *gin.Context, db *sql.DB, sugar *zap.SugaredLogger) {
	tag := c.Param("tag")
	if tag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag"})
		return
	}

	files, err := RecipesWithTag(db, tag)
	if err != nil {
		if sugar != nil {
			sugar.Errorw("failed to query catalog recipes", "tag", tag, "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query recipes"})
		return
	}
	if files == nil {
		files = []string{}
	}
	c.JSON(http.StatusOK, files)
}

func CountHandler(c *gin.Context, db *sql.DB, sugar *zap.SugaredLogger) {
	n, err := Count(db)
	if err != nil {
		if sugar != nil {
			sugar.Errorw("failed to count catalog recipes", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalRecipes": n})
}
