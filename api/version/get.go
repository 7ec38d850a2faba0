package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Build metadata injected by the cmd package at startup.
var (
	Name    = "Sweeparr"
	Version = "dev"
)

// Get handles version requests
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        Name,
			"version":     Version,
			"description": "Mirrors media-server deletions into the series and movie catalogs",
			"status":      "running",
		})
	}
}
