package index

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sweeparr/sweeparr/api/types"
)

// PostRebuild triggers a synchronous index rebuild. Unlike the webhook
// endpoints this one reports real failures: it is an operator action, not a
// sender we need to pacify.
func PostRebuild(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		clearStatus := false
		if v := c.Query("clearStatus"); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				types.SendBadRequest(c, "clearStatus must be a boolean")
				return
			}
			clearStatus = parsed
		}

		report, err := deps.Rebuilder.Rebuild(c.Request.Context(), clearStatus)
		if err != nil {
			log.Printf("[ERROR] Manual rebuild failed: %v", err)
			types.SendInternalError(c, "rebuild failed; prior index left intact")
			return
		}

		types.SendSuccess(c, types.RebuildResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Report:       report,
		})
	}
}
