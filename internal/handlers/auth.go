package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diewo77/medicine-recommendation/auth"
	"github.com/diewo77/medicine-recommendation/httpx"
	"github.com/diewo77/medicine-recommendation/internal/services"
	"github.com/diewo77/medicine-recommendation/validation"
)

type AuthHandler struct {
	accounts *services.AccountService
	cookies  *auth.Cookies
}

func NewAuthHandler(accounts *services.AccountService, cookies *auth.Cookies) *AuthHandler {
	return &AuthHandler{accounts: accounts, cookies: cookies}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,max=80"`
	Password string `json:"password" binding:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, validation.FromBinding(err).Err("Missing or invalid fields"))
		return
	}
	v := validation.Violations{}
	validation.Required("username", req.Username, v)
	validation.Required("password", req.Password, v)
	if err := v.Err("Missing or invalid fields"); err != nil {
		httpx.Error(c, err)
		return
	}

	prior, _ := h.cookies.Parse(c.Request)

	sess, err := h.accounts.Register(c.Request.Context(), req.Email, req.Username, req.Password, prior)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	h.cookies.Set(c.Writer, sess.ID)
	httpx.JSON(c, http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    sess.User.Summary(),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, validation.FromBinding(err).Err("Missing email or password"))
		return
	}
	prior, _ := h.cookies.Parse(c.Request)

	sess, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password, prior)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	h.cookies.Set(c.Writer, sess.ID)
	httpx.JSON(c, http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    sess.User.Summary(),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sid, _ := auth.SessionIDFromContext(c.Request.Context())
	if err := h.accounts.Logout(c.Request.Context(), sid); err != nil {
		httpx.Error(c, err)
		return
	}
	h.cookies.Clear(c.Writer)
	httpx.JSON(c, http.StatusOK, gin.H{"message": "Logout successful"})
}
