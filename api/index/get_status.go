package index

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/sweeparr/sweeparr/api/types"
	"github.com/sweeparr/sweeparr/internal/services/providermap"
)

// GetStatus reports the last successful rebuild time and per-table row counts.
func GetStatus(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := deps.Index.CountRows(c.Request.Context())
		if err != nil {
			log.Printf("[ERROR] Counting index rows failed: %v", err)
			types.SendInternalError(c, "index unavailable")
			return
		}

		lastRefresh, err := deps.Index.GetSetting(c.Request.Context(), providermap.SettingLastRefresh)
		if err != nil {
			log.Printf("[WARN] Reading last refresh time failed: %v", err)
		}

		types.SendSuccess(c, types.IndexStatusResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			LastRefresh:  lastRefresh,
			Counts:       counts,
		})
	}
}
