package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diewo77/medicine-recommendation/auth"
	"github.com/diewo77/medicine-recommendation/httpx"
	"github.com/diewo77/medicine-recommendation/internal/apperr"
	"github.com/diewo77/medicine-recommendation/internal/services"
	"github.com/diewo77/medicine-recommendation/validation"
)

type ProfileHandler struct {
	accounts *services.AccountService
	cookies  *auth.Cookies
}

func NewProfileHandler(accounts *services.AccountService, cookies *auth.Cookies) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, cookies: cookies}
}

type updateProfileRequest struct {
	Username string `json:"username" binding:"max=80"`
}

func (h *ProfileHandler) Get(c *gin.Context) {
	uid, _ := auth.UserIDFromContext(c.Request.Context())
	u, err := h.accounts.Profile(c.Request.Context(), uid)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{"user": u.Summary()})
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, validation.FromBinding(err).Err("Invalid request"))
		return
	}
	uid, _ := auth.UserIDFromContext(c.Request.Context())
	u, err := h.accounts.UpdateProfile(c.Request.Context(), uid, req.Username)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    u.Summary(),
	})
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		httpx.Error(c, apperr.ErrNoFile)
		return
	}
	f, err := fh.Open()
	if err != nil {
		httpx.Error(c, apperr.Internal(err))
		return
	}
	defer f.Close()

	uid, _ := auth.UserIDFromContext(c.Request.Context())
	url, err := h.accounts.UploadAvatar(c.Request.Context(), uid, fh.Filename, fh.Size, f)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{
		"message":    "Avatar uploaded successfully",
		"avatar_url": url,
	})
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	uid, _ := auth.UserIDFromContext(ctx)
	sid, _ := auth.SessionIDFromContext(ctx)
	if err := h.accounts.DeleteAccount(ctx, uid, sid); err != nil {
		httpx.Error(c, err)
		return
	}
	h.cookies.Clear(c.Writer)
	httpx.JSON(c, http.StatusOK, gin.H{"message": "Account deleted"})
}
