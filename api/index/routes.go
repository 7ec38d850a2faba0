package index

import (
	"github.com/gin-gonic/gin"
	"github.com/sweeparr/sweeparr/api/types"
)

// RegisterRoutes registers index maintenance routes
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.POST("/rebuild", PostRebuild(deps))
	group.GET("/status", GetStatus(deps))
}
