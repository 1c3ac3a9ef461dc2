package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ghiemer/qr-redirector/internal/models"
	"github.com/ghiemer/qr-redirector/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListRoutes(c *gin.Context) {
	routes, err := h.routeService.List()
	if err != nil {
		h.logger.Error("Failed to list routes", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list routes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

func (h *Handler) CreateRoute(c *gin.Context) {
	var dto services.RouteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if dto.Target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target is required"})
		return
	}

	route, err := h.routeService.Create(dto)
	if errors.Is(err, models.ErrAliasExists) {
		c.JSON(http.StatusConflict, gin.H{"error": "alias already exists"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to create route", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create route"})
		return
	}

	c.JSON(http.StatusCreated, route)
}

func (h *Handler) UpdateRoute(c *gin.Context) {
	var dto services.RouteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	route, err := h.routeService.Update(c.Param("id"), dto)
	if errors.Is(err, models.ErrRouteNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to update route", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update route"})
		return
	}

	c.JSON(http.StatusOK, route)
}

func (h *Handler) DeleteRoute(c *gin.Context) {
	err := h.routeService.Delete(c.Param("id"))
	if errors.Is(err, models.ErrRouteNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to delete route", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete route"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "route deleted"})
}

func (h *Handler) ShowRouteStats(c *gin.Context) {
	stats, err := h.routeService.Stats(c.Param("alias"))
	if err != nil {
		h.logger.Error("Failed to load stats", "alias", c.Param("alias"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ShowRouteQR renders the QR code PNG pointing at the route's public URL.
func (h *Handler) ShowRouteQR(c *gin.Context) {
	route, err := h.routeService.Get(c.Param("id"))
	if errors.Is(err, models.ErrRouteNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load route"})
		return
	}

	size := 0
	if v := c.Query("size"); v != "" {
		size, _ = strconv.Atoi(v)
	}

	content := strings.TrimSuffix(h.cfg.PublicBaseURL, "/") + "/" + route.Alias
	png, err := h.qrService.GeneratePNG(content, size)
	if err != nil {
		h.logger.Error("QR generation failed", "alias", route.Alias, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "qr generation failed"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) ResetAllCounters(c *gin.Context) {
	if err := h.routeService.ResetAllCounters(); err != nil {
		h.logger.Error("Failed to reset counters", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset counters"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all counters reset"})
}

func (h *Handler) ResetCounter(c *gin.Context) {
	err := h.routeService.ResetCounter(c.Param("alias"))
	if errors.Is(err, models.ErrRouteNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to reset counter", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset counter"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "counter reset"})
}

func (h *Handler) CleanupLogs(c *gin.Context) {
	retention := h.cfg.LogRetentionDays
	if v := c.Query("retention_days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "retention_days must be a positive integer"})
			return
		}
		retention = parsed
	}

	if err := h.auditLogger.Cleanup(retention); err != nil {
		h.logger.Error("Log cleanup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "log cleanup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logs cleaned up"})
}
