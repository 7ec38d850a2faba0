package webhook

import (
	"github.com/gin-gonic/gin"
	"github.com/sweeparr/sweeparr/api/types"
)

// RegisterRoutes registers the media-server deletion webhook
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.POST("/media-server", Post(deps))
}
