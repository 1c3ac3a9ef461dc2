package handlers

import (
	"net/http"
	"strings"

	"github.com/ghiemer/qr-redirector/pkg/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginUser checks the admin credentials from config and opens a session.
func (h *Handler) LoginUser(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	if !strings.EqualFold(req.Email, h.cfg.AdminEmail) || !h.checkAdminPassword(req.Password) {
		h.logger.Warn("Failed admin login", "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	session := sessions.Default(c)
	session.Set("admin", true)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged in"})
}

func (h *Handler) LogoutUser(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// checkAdminPassword accepts either a bcrypt hash or, for local bootstrap
// setups, a plaintext value in ADMIN_PASSWORD.
func (h *Handler) checkAdminPassword(password string) bool {
	configured := h.cfg.AdminPassword
	if strings.HasPrefix(configured, "$2a$") || strings.HasPrefix(configured, "$2b$") {
		return utils.CheckPasswordHash(password, configured)
	}
	return password == configured
}

func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if admin, ok := session.Get("admin").(bool); !ok || !admin {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
