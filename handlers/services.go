package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"maideasy/models"
	"maideasy/services/booking"
	"maideasy/services/catalog"
	"maideasy/utils"

	"github.com/gin-gonic/gin"
)

const maxProviderLimit = 50

// CatalogHandler serves the service and maid listings and the bookable
// calendar.
type CatalogHandler struct {
	Catalog catalog.CatalogService
	Now     func() time.Time
}

func NewCatalogHandler(svc catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{Catalog: svc, Now: time.Now}
}

// ListServicesHandler supports an optional ?category= filter.
func (h *CatalogHandler) ListServicesHandler(c *gin.Context) {
	category := models.ServiceCategory(c.Query("category"))
	services, err := h.Catalog.ListServices(c.Request.Context(), category)
	if err != nil {
		respondError(c, "Failed to get services", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services, "categories": models.ServiceCategories()})
}

func (h *CatalogHandler) GetServiceHandler(c *gin.Context) {
	svc, err := h.Catalog.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Service not found", err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// ListProvidersHandler supports ?city=, ?skills=a,b, ?verified=true and ?limit=.
func (h *CatalogHandler) ListProvidersHandler(c *gin.Context) {
	filter := models.ProviderFilter{City: c.Query("city")}
	if skills := strings.TrimSpace(c.Query("skills")); skills != "" {
		for _, s := range strings.Split(skills, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Skills = append(filter.Skills, s)
			}
		}
	}
	if v := c.Query("verified"); v != "" {
		verified, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.VerifiedOnly = verified
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil || limit <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request", "limit must be a positive integer")
			return
		}
		if limit > maxProviderLimit {
			limit = maxProviderLimit
		}
		filter.Limit = limit
	}

	providers, err := h.Catalog.ListProviders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to get maids", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"maids": providers})
}

func (h *CatalogHandler) GetProviderHandler(c *gin.Context) {
	p, err := h.Catalog.GetProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Maid not found", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ScheduleHandler returns the bookable dates and time slots.
func (h *CatalogHandler) ScheduleHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"dates":     booking.AvailableDates(h.Now()),
		"timeSlots": booking.TimeSlots(),
	})
}
