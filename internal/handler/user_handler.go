package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"user_service/internal/logging"
	"user_service/internal/model"
	"user_service/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user account requests
type UserHandler struct {
	service service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: s, logger: logger}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "register", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.service.GetAllUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, "get all users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUserByUUID(c *gin.Context) {
	resp, err := h.service.GetUserByUUID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "get user by uuid", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCurrentUser returns the account the bearer token was issued for
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := h.service.GetUserByUUID(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, "get current user", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// writeError maps a service error kind to its status. Anything unclassified is a 500
// and its details stay in the log.
func (h *UserHandler) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrBadRequest):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Message: err.Error()})
	default:
		logging.LogError(h.logger, "request failed", err, "op", op, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Message: "Internal server error"})
	}
}

// RegisterUserRoutes registers user routes. Registration and login are public.
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
	}

	protected := rg.Group("/users")
	protected.Use(authMW)
	{
		protected.GET("", h.GetAllUsers)
		protected.GET("/me", h.GetCurrentUser)
		protected.GET("/:id", h.GetUserByUUID)
	}
}
