package handlers

import (
	"net/http"

	"github.com/Ashvita9/ProjectDashboard/internal/cache"

	"github.com/gin-gonic/gin"
)

type CacheHandler struct {
	Cache cache.Cache
}

func NewCacheHandler(cacheInstance cache.Cache) *CacheHandler {
	return &CacheHandler{Cache: cacheInstance}
}

// GetCacheStats returns cache counters and health.
// GET /cache/stats
func (h *CacheHandler) GetCacheStats(c *gin.Context) {
	if h.Cache == nil {
		c.JSON(http.StatusOK, gin.H{
			"status":  "unavailable",
			"message": "cache is not initialized",
		})
		return
	}

	stats := gin.H{
		"cache":  h.Cache.Stats(),
		"status": "healthy",
	}
	if err := h.Cache.Health(); err != nil {
		stats["status"] = "degraded"
		stats["error"] = err.Error()
	}

	c.JSON(http.StatusOK, stats)
}

// EvictCacheKey evicts a single key, or a pattern when the key carries a
// leading or trailing asterisk.
// DELETE /cache/keys/:key
func (h *CacheHandler) EvictCacheKey(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "key parameter is required"})
		return
	}

	if h.Cache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "cache is not initialized"})
		return
	}

	if containsWildcard(key) {
		if err := h.Cache.DeletePattern(key); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "failed to evict cache pattern",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "cache pattern evicted successfully",
			"pattern": key,
		})
		return
	}

	if err := h.Cache.Delete(key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "failed to evict cache key",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "cache key evicted successfully",
		"key":     key,
	})
}

func containsWildcard(s string) bool {
	return len(s) > 0 && (s[len(s)-1] == '*' || s[0] == '*')
}
