package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Shriiii01/investment-agent/internal/cache"
)

// CacheControl exposes cache statistics and invalidation.
type CacheControl interface {
	Stats() cache.Stats
	Clear() error
}

// CacheHandler handles cache monitoring endpoints.
type CacheHandler struct {
	cache CacheControl
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(cacheControl CacheControl) *CacheHandler {
	return &CacheHandler{cache: cacheControl}
}

// GetCacheStats returns hit/miss counters and on-disk entry counts.
func (h *CacheHandler) GetCacheStats(c *gin.Context) {
	respondOK(c, h.cache.Stats())
}

// ClearCache removes every cache entry. The next analysis refetches from
// the upstream provider.
func (h *CacheHandler) ClearCache(c *gin.Context) {
	if err := h.cache.Clear(); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"cleared": true})
}
