package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/parkorbit/parking-spot-backend/internal/auth"
	"github.com/parkorbit/parking-spot-backend/internal/pkg/apperror"
	"github.com/parkorbit/parking-spot-backend/internal/pkg/response"
	"github.com/parkorbit/parking-spot-backend/internal/user"
)

type Handler struct {
	service    user.Service
	jwtManager *auth.JWTManager
	log        zerolog.Logger
}

func NewHandler(service user.Service, jwtManager *auth.JWTManager, log zerolog.Logger) *Handler {
	return &Handler{
		service:    service,
		jwtManager: jwtManager,
		log:        log,
	}
}

func (h *Handler) Register(c *gin.Context) {
	var body RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, h.log, apperror.Wrap(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	u, err := h.service.Register(c.Request.Context(), user.RegisterRequest{
		Email:       body.Email,
		Password:    body.Password,
		DisplayName: body.DisplayName,
		Phone:       body.Phone,
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusCreated, NewUserResponse(u))
}

func (h *Handler) Login(c *gin.Context) {
	var body LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, h.log, apperror.Wrap(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	u, err := h.service.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, LoginResponse{
		AccessToken: token,
		User:        NewUserResponse(u),
	})
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.service.GetByID(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, NewUserResponse(u))
}
