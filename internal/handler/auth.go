package handler

import (
	"net/http"

	"rentalmap/internal/model"
	"rentalmap/internal/service"

	"github.com/gin-gonic/gin"
)

// sessionKey is the gin context key the middleware stores the session
// state under.
const sessionKey = "session"

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	authService *service.AuthService
	sessions    *service.SessionManager
	cookieName  string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, sessions *service.SessionManager, cookieName string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		cookieName:  cookieName,
	}
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.authService.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Signup failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "account created"})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ok, err := h.authService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed: " + err.Error()})
		return
	}
	if !ok {
		// Same body for unknown user and wrong password
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	token, err := h.sessions.Create()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed: " + err.Error()})
		return
	}

	c.SetCookie(h.cookieName, token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged in", "username": req.Username})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookieName); err == nil {
		h.sessions.Destroy(token)
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// RequireSession is middleware that resolves the session cookie into a
// SessionState and aborts with 401 when there is none.
func (h *AuthHandler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(h.cookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}
		state, ok := h.sessions.Get(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}
		c.Set(sessionKey, state)
		c.Next()
	}
}

// sessionState pulls the SessionState the middleware stored.
func sessionState(c *gin.Context) *service.SessionState {
	return c.MustGet(sessionKey).(*service.SessionState)
}
