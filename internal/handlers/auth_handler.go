package handlers

import (
	"errors"
	"net/http"
	"strings"

	"starship-dashboard/internal/auth"
	"starship-dashboard/internal/database"
	"starship-dashboard/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	MsgUsernameTaken      = "Username already exists"
	MsgRegistered         = "Registration successful"
	MsgInvalidCredentials = "Invalid username or password"
	MsgLoggedOut          = "You have been logged out"
	msgMissingFields      = "Enter a username of up to 80 characters and a password"
)

// CredentialsForm is the register and login form payload
type CredentialsForm struct {
	Username string `form:"username" binding:"required,max=80"`
	Password string `form:"password" binding:"required"`
}

func bindCredentials(c *gin.Context) (CredentialsForm, bool) {
	var form CredentialsForm
	if err := c.ShouldBind(&form); err != nil {
		return form, false
	}
	form.Username = strings.TrimSpace(form.Username)
	return form, form.Username != ""
}

// Index renders the landing page
// GET /
func (h *Handler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, "index.html", "Home", nil)
}

// RegisterForm renders the registration page
// GET /register
func (h *Handler) RegisterForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", "Register", nil)
}

// Register creates a user unless the username is taken
// POST /register
func (h *Handler) Register(c *gin.Context) {
	form, ok := bindCredentials(c)
	if !ok {
		h.render(c, http.StatusBadRequest, "register.html", "Register", gin.H{"Error": msgMissingFields})
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		h.render(c, http.StatusBadRequest, "register.html", "Register", gin.H{"Error": "Password is too long"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	err = h.store.CreateUser(c.Request.Context(), &models.User{Username: form.Username, PasswordHash: hash})
	if errors.Is(err, database.ErrUsernameTaken) {
		h.setFlash(c, MsgUsernameTaken)
		c.Redirect(http.StatusFound, "/register")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setFlash(c, MsgRegistered)
	c.Redirect(http.StatusFound, "/login")
}

// LoginForm renders the login page
// GET /login
func (h *Handler) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", "Log in", nil)
}

// Login checks credentials and starts a session
// POST /login
func (h *Handler) Login(c *gin.Context) {
	form, ok := bindCredentials(c)
	if !ok {
		h.loginFailed(c, form)
		return
	}

	user, err := h.store.FindUserByUsername(c.Request.Context(), form.Username)
	if errors.Is(err, database.ErrNotFound) {
		h.loginFailed(c, form)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, form.Password) {
		h.loginFailed(c, form)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setSession(c, token)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) loginFailed(c *gin.Context, form CredentialsForm) {
	h.render(c, http.StatusUnauthorized, "login.html", "Log in", gin.H{
		"Error":    MsgInvalidCredentials,
		"Form":     CredentialsForm{Username: form.Username},
		"Username": "",
	})
}

// Logout clears the session
// GET /logout
func (h *Handler) Logout(c *gin.Context) {
	h.clearSession(c)
	h.setFlash(c, MsgLoggedOut)
	c.Redirect(http.StatusFound, "/")
}
