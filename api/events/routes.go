package events

import (
	"github.com/gin-gonic/gin"
	"github.com/sweeparr/sweeparr/api/types"
)

// RegisterRoutes registers the catalog change webhook
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.POST("/catalog", Post(deps))
}
