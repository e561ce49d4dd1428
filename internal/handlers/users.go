package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"users-service/internal/service"

	"github.com/gin-gonic/gin"
)

// Response statuses and user-facing messages.
const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"

	msgPong              = "pong!"
	msgInvalidPayload    = "Invalid payload."
	msgDuplicateUsername = "Sorry. That username already exists."
	msgDuplicateEmail    = "Sorry. That email already exists."
	msgUserNotFound      = "User does not exist"
	msgInternalError     = "internal server error"
)

// CreateUserRequest is the registration payload. Password is optional.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

func respondMessage(c *gin.Context, code int, status, message string) {
	c.JSON(code, gin.H{"status": status, "message": message})
}

func respondData(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"status": statusSuccess, "data": data})
}

// logAndRespondInternal hides storage details from the caller; they go to
// the log only.
func (h *Handler) logAndRespondInternal(c *gin.Context, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	respondMessage(c, http.StatusInternalServerError, statusError, msgInternalError)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /ping [get]
func (h *Handler) ping(c *gin.Context) {
	respondMessage(c, http.StatusOK, statusSuccess, msgPong)
}

// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body   CreateUserRequest  true  "User payload"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /users [post]
func (h *Handler) createUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// a malformed body is the same failure as missing keys
		respondMessage(c, http.StatusBadRequest, statusFail, msgInvalidPayload)
		return
	}

	ctx := c.Request.Context()
	u, err := h.services.Users.Create(ctx, service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondCreateError(c, err, req.Username)
		return
	}

	respondMessage(c, http.StatusCreated, statusSuccess, fmt.Sprintf("%s was added!", u.Email))
}

func (h *Handler) respondCreateError(c *gin.Context, err error, username string) {
	switch {
	case errors.Is(err, service.ErrInvalidPayload):
		respondMessage(c, http.StatusBadRequest, statusFail, msgInvalidPayload)
	case errors.Is(err, service.ErrDuplicateUsername):
		respondMessage(c, http.StatusBadRequest, statusFail, msgDuplicateUsername)
	case errors.Is(err, service.ErrDuplicateEmail):
		respondMessage(c, http.StatusBadRequest, statusFail, msgDuplicateEmail)
	default:
		h.logAndRespondInternal(c, "user_create_failed", err, "username", username)
	}
}

// @Summary      Fetch a single user
// @Tags         users
// @Produce      json
// @Param        id   path   int  true  "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *Handler) getUser(c *gin.Context) {
	ctx := c.Request.Context()
	u, err := h.services.Users.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondMessage(c, http.StatusNotFound, statusFail, msgUserNotFound)
			return
		}
		h.logAndRespondInternal(c, "user_get_failed", err, "id", c.Param("id"))
		return
	}
	respondData(c, http.StatusOK, u)
}

// @Summary      List all users
// @Tags         users
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data.users"
// @Failure      500  {object}  map[string]string
// @Router       /users [get]
func (h *Handler) listUsers(c *gin.Context) {
	ctx := c.Request.Context()
	users, err := h.services.Users.List(ctx)
	if err != nil {
		h.logAndRespondInternal(c, "users_list_failed", err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"users": users})
}
