package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bike-probability-api/services"

	"github.com/gin-gonic/gin"
)

type StationsHandler struct {
	catalog   services.StationCatalog
	directory *services.StationDirectory
	cache     *services.CacheService
}

func NewStationsHandler(catalog services.StationCatalog, directory *services.StationDirectory, cache *services.CacheService) *StationsHandler {
	return &StationsHandler{catalog: catalog, directory: directory, cache: cache}
}

func (h *StationsHandler) GetStations(c *gin.Context) {
	p := ParseListParams(c)
	cacheKey := fmt.Sprintf("stations:%s:%d", p.Query, p.Limit)

	var cached struct {
		Data []services.StationSummary `json:"data"`
	}
	if h.cache != nil {
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	stations, err := h.catalog.List(c.Request.Context(), p.Query, p.Limit)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "station catalog query failed"})
		return
	}

	resp := gin.H{"data": stations}
	if h.cache != nil {
		go h.cache.Set(context.Background(), cacheKey, resp, 60*time.Second)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *StationsHandler) GetStation(c *gin.Context) {
	info, err := h.directory.Info(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrStationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "station catalog query failed"})
		return
	}

	c.JSON(http.StatusOK, info)
}
