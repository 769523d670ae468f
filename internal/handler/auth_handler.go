package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edulytics/grade-analytics-api/internal/models"
	"github.com/edulytics/grade-analytics-api/internal/service"
	appErrors "github.com/edulytics/grade-analytics-api/pkg/errors"
	"github.com/edulytics/grade-analytics-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Token godoc
// @Summary Issue an access token
// @Description Authenticate an API client with its credentials
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.TokenRequest true "Client credentials"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid token payload"))
		return
	}

	res, err := h.service.Token(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}
