package events

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sweeparr/sweeparr/api/types"
	"github.com/sweeparr/sweeparr/internal/services/catalogevents"
)

// Post handles a catalog change event. Always responds 200: the catalog's
// webhook sender disables endpoints that keep failing, and a dropped event is
// recoverable via the next rebuild.
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.GetRawData()
		if err != nil {
			log.Printf("[WARN] Reading catalog event body failed: %v", err)
			c.JSON(http.StatusOK, types.EventResponse{
				BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "unreadable body ignored"},
			})
			return
		}

		event, err := catalogevents.DecodeEvent(raw)
		if err != nil {
			log.Printf("[WARN] Ignoring malformed catalog event: %v", err)
			c.JSON(http.StatusOK, types.EventResponse{
				BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "malformed event ignored"},
			})
			return
		}

		result := deps.Listener.Handle(c.Request.Context(), event)
		c.JSON(http.StatusOK, types.EventResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Applied:      result.Applied,
			Skipped:      result.Skipped,
		})
	}
}
