package httpserver

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"retail-console/internal/auth"
	"retail-console/internal/repository/audit"
	"retail-console/internal/session"
	"retail-console/internal/upstream"
)

type handlers struct {
	deps   Deps
	desks  *deskRegistry
	logger *log.Logger
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type loginResponse struct {
	SessionID string   `json:"sessionId"`
	Email     string   `json:"email"`
	Name      string   `json:"name,omitempty"`
	Roles     []string `json:"roles"`
}

// login relays credentials to the matching backend endpoint, decodes the
// returned token into an identity and opens a console session holding the
// token. The token itself never reaches the browser.
func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	var (
		resp *upstream.LoginResponse
		err  error
	)
	if strings.EqualFold(req.Role, "admin") {
		resp, err = h.deps.Upstream.AdminLogin(c.Request.Context(), req.Email, req.Password)
	} else {
		resp, err = h.deps.Upstream.ManagerLogin(c.Request.Context(), req.Email, req.Password)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	identity, err := auth.FromToken(resp.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "backend returned an unusable token"})
		return
	}
	if identity.Name == "" {
		identity.Name = resp.Name
	}

	sess, err := h.deps.Sessions.Create(c.Request.Context(), session.Session{
		Token: resp.Token,
		Email: identity.Email,
		Name:  identity.Name,
		Roles: identity.Roles,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.deps.Audit.Insert(c.Request.Context(), audit.Entry{
		Actor:  identity.Email,
		Action: "login",
	}); err != nil {
		h.logger.Printf("audit login: %v", err)
	}

	c.JSON(http.StatusOK, loginResponse{
		SessionID: sess.ID,
		Email:     identity.Email,
		Name:      identity.Name,
		Roles:     identity.Roles,
	})
}

func (h *handlers) logout(c *gin.Context) {
	sess := currentSession(c)
	if err := h.deps.Sessions.Delete(c.Request.Context(), sess.ID); err != nil {
		h.logger.Printf("delete session: %v", err)
	}
	h.dropDesk(sess.ID)
	c.Status(http.StatusNoContent)
}
