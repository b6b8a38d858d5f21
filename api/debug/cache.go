package debug

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (drm *DebugRoutesManager) CacheStats(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(drm.cacheService.GetConnectionStats()),
		gecho.Send(),
	)
}

// ClearProductCache drops every cached product entry. Carts and revoked
// tokens are left alone.
func (drm *DebugRoutesManager) ClearProductCache(w http.ResponseWriter, r *http.Request) {
	if err := drm.cacheService.DeletePattern("product:*"); err != nil {
		drm.logger.Error("Failed to clear product cache", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to clear product cache"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product cache cleared"),
		gecho.Send(),
	)
}
