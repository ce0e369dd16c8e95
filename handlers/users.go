package handlers

import (
	"net/http"

	"claims-management-api/apperror"
	"claims-management-api/middleware"
	"claims-management-api/models"
	"claims-management-api/services"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Username string          `json:"username" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required"`
	Role     models.UserRole `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	Username *string          `json:"username"`
	Role     *models.UserRole `json:"role"`
}

type UserHandler struct {
	users *services.UserService
	guard *middleware.Guard
}

func NewUserHandler(users *services.UserService, guard *middleware.Guard) *UserHandler {
	return &UserHandler{users: users, guard: guard}
}

// Register creates a new user account
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bind(c, &req, apperror.ErrMissingField); err != nil {
		apperror.Abort(c, err)
		return
	}

	res, err := h.users.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Login authenticates a user and returns a JWT
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bind(c, &req, apperror.ErrInvalidCredentials); err != nil {
		apperror.Abort(c, err)
		return
	}

	res, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PurchasedPolicies lists the caller's policies
func (h *UserHandler) PurchasedPolicies(c *gin.Context) {
	policies, err := h.users.PurchasedPolicies(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, policies)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get returns a user to an admin or to the user themselves
func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id != middleware.GetUserID(c) {
		if err := h.guard.RequireRole(c.Request.Context(), middleware.GetIdentity(c), models.RoleAdmin); err != nil {
			apperror.Abort(c, err)
			return
		}
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := bind(c, &req, apperror.ErrMissingField); err != nil {
		apperror.Abort(c, err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), services.UpdateUserInput{
		Username: req.Username,
		Role:     req.Role,
	})
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
