package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/betaware/betaware-api/internal/application"
	repo "github.com/betaware/betaware-api/internal/domain/repository"
	"github.com/betaware/betaware-api/pkg/response"
	"github.com/betaware/betaware-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *userapp.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *userapp.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username   string `json:"username" binding:"required"`
	Name       string `json:"name" binding:"required"`
	NationalID string `json:"national_id" binding:"required,nationalid"`
	PostalCode string `json:"postal_code" binding:"required,postalcode"`
	Address    string `json:"address"`
	Password   string `json:"password" binding:"required,pwd"`
	Email      string `json:"email" binding:"required,email"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Username:   req.Username,
		Name:       req.Name,
		NationalID: req.NationalID,
		PostalCode: req.PostalCode,
		Address:    req.Address,
		Password:   req.Password,
		Email:      req.Email,
	})
	if err != nil {
		if de, ok := repo.IsDuplicate(err); ok {
			response.Error[any](c, http.StatusConflict, "identity already registered", map[string]string{de.Field: de.Error()})
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("username", req.Username).Error("registration failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":       u.ID,
		"username": u.Username,
		"name":     u.Name,
		"email":    u.Email,
		"role":     u.Role,
	}, "user registered", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// Same status, message, and shape for unknown username and wrong
		// password.
		if errors.Is(err, userapp.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("username", req.Username).Error("login failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":    res.Token,
		"username": res.Username,
		"name":     res.Name,
		"role":     res.Role,
	}, "login successful", map[string]any{"expires_at": res.ExpiresAt})
}
