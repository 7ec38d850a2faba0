package webhook

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sweeparr/sweeparr/api/types"
	"github.com/sweeparr/sweeparr/internal/services/deletion"
)

// Post handles a media-server deletion notification. The processor owns the
// full parse/resolve/act flow and never errors; the handler only maps its
// result onto a response. The sender retries anything but 2xx, so internal
// failures are still acknowledged.
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.GetRawData()
		if err != nil {
			// Body too large or the connection died mid-read.
			log.Printf("[WARN] Reading deletion notification body failed: %v", err)
			c.JSON(http.StatusOK, types.DeletionResponse{
				BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "unreadable body ignored"},
				Outcome:      string(deletion.OutcomeIgnored),
			})
			return
		}

		result := deps.Processor.Process(c.Request.Context(), raw)

		status := types.StatusOK
		if result.Status >= http.StatusBadRequest {
			status = types.StatusError
		}
		c.JSON(result.Status, types.DeletionResponse{
			BaseResponse: types.BaseResponse{Status: status, Message: result.Reason},
			Outcome:      string(result.Outcome),
			Actions:      result.Actions,
		})
	}
}
