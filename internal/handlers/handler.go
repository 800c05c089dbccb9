package handlers

import (
	"net/http"

	"starship-dashboard/internal/auth"
	"starship-dashboard/internal/catalog"
	"starship-dashboard/internal/database"
	"starship-dashboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash"

// Handler serves the HTML pages. Build it with New.
type Handler struct {
	store         *database.Store
	catalog       *catalog.Service
	tokens        *auth.TokenManager
	secureCookies bool
}

// Deps are the collaborators a Handler needs.
type Deps struct {
	Store   *database.Store
	Catalog *catalog.Service
	Tokens  *auth.TokenManager
	// SecureCookies marks session and flash cookies Secure (HTTPS only).
	SecureCookies bool
}

func New(d Deps) *Handler {
	return &Handler{
		store:         d.Store,
		catalog:       d.Catalog,
		tokens:        d.Tokens,
		secureCookies: d.SecureCookies,
	}
}

// render executes a page template, filling in the values every page uses.
func (h *Handler) render(c *gin.Context, status int, page, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	if _, ok := data["Username"]; !ok {
		data["Username"] = h.sessionUsername(c)
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = h.popFlash(c)
	}
	c.HTML(status, page, data)
}

// fail records err for the access log and answers 500.
func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatus(http.StatusInternalServerError)
}

// sessionUsername returns the signed-in user on pages that do not require a
// session, or "".
func (h *Handler) sessionUsername(c *gin.Context) string {
	if name := middleware.CurrentUsername(c); name != "" {
		return name
	}
	token, err := c.Cookie(middleware.SessionCookie)
	if err != nil || token == "" {
		return ""
	}
	claims, err := h.tokens.Validate(token)
	if err != nil {
		return ""
	}
	return claims.Username
}

func (h *Handler) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.tokens.TTL().Seconds()), "/", "", h.secureCookies, true)
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookies, true)
}

// setFlash stores a one-shot message shown by the next rendered page.
func (h *Handler) setFlash(c *gin.Context, msg string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, msg, 60, "/", "", h.secureCookies, true)
}

func (h *Handler) popFlash(c *gin.Context) string {
	// gin escapes cookie values on write and unescapes them on read
	msg, err := c.Cookie(flashCookie)
	if err != nil || msg == "" {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", h.secureCookies, true)
	return msg
}
