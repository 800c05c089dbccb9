package handlers

import (
	"net/http"
	"strings"

	"starship-dashboard/internal/catalog"
	"starship-dashboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

// DashboardForm is the manufacturer filter payload
type DashboardForm struct {
	Manufacturer string `form:"manufacturer"`
}

// Dashboard lists every starship
// GET /dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	h.dashboard(c, catalog.All)
}

// FilterDashboard lists the starships of the submitted manufacturer
// POST /dashboard
func (h *Handler) FilterDashboard(c *gin.Context) {
	var form DashboardForm
	_ = c.ShouldBind(&form)
	filter := strings.TrimSpace(form.Manufacturer)
	if filter == "" {
		filter = catalog.All
	}
	h.dashboard(c, filter)
}

func (h *Handler) dashboard(c *gin.Context, filter string) {
	ctx := c.Request.Context()

	makers, err := h.catalog.ListManufacturers(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	ships, err := h.catalog.ListStarships(ctx, filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, "dashboard.html", "Dashboard", gin.H{
		"Username":      middleware.CurrentUsername(c),
		"Manufacturers": makers,
		"Starships":     ships,
		"Selected":      filter,
	})
}
