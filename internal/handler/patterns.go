package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kanon0111/sdlg-edu/internal/pattern"
)

var patternDescriptions = map[pattern.Kind]string{
	pattern.KindPerfectVsPast: "Contrast a present perfect clause with a simple past clause",
	pattern.KindArticle:       "Fill a blank with a, an, the, or no article",
	pattern.KindFallback:      "One example sentence about the topic; used for any unknown pattern",
}

// Patterns lists the supported pattern identifiers.
func Patterns(c *gin.Context) {
	out := make([]gin.H, 0, len(patternDescriptions))
	for _, k := range pattern.Kinds() {
		out = append(out, gin.H{"id": k.String(), "description": patternDescriptions[k]})
	}
	c.JSON(http.StatusOK, gin.H{"patterns": out})
}
