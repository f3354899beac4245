package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"collections-backend/middleware"
	"collections-backend/models"
	"collections-backend/store"
	"collections-backend/utils"
)

type loginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// Login authenticates an operator. The selected role must match the stored
// role; a mismatch is indistinguishable from bad credentials in the response.
func (h *Handler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "username, password and role are required")
		return
	}

	user, err := h.store.GetUserByUsername(input.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username, password or role"})
			return
		}
		serverError(c, h.log, "login", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil ||
		user.Role != models.Role(input.Role) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username, password or role"})
		return
	}

	token, err := utils.GenerateToken([]byte(h.cfg.SecretKey), user)
	if err != nil {
		serverError(c, h.log, "login", err)
		return
	}

	h.log.Info("login", "username", user.Username, "role", user.Role)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Logout exists for the UI contract; tokens are stateless, so the client
// discards its copy and expiry does the rest.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated operator's identity.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"username": middleware.Username(c),
		"role":     middleware.Role(c),
	})
}

type registerInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

// Register provisions a new operator account with a fixed role.
func (h *Handler) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "username, role and a password of at least 8 characters are required")
		return
	}

	role := models.Role(input.Role)
	if !role.Valid() {
		badRequest(c, "role must be team_leader or data_analyst")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(c, h.log, "register", err)
		return
	}

	user := models.User{Username: input.Username, Password: string(hash), Role: role}
	if err := h.store.CreateUser(&user); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		serverError(c, h.log, "register", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user created",
		"user":    gin.H{"id": user.ID, "username": user.Username, "role": user.Role},
	})
}
