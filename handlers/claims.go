package handlers

import (
	"errors"
	"net/http"

	"claims-management-api/apperror"
	"claims-management-api/middleware"
	"claims-management-api/models"
	"claims-management-api/services"
	"claims-management-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreateClaimRequest struct {
	PolicyID    string           `json:"policy_id"`
	ClaimDate   string           `json:"claim_date" binding:"required,isodate"`
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ClaimHandler struct {
	claims *services.ClaimService
	guard  *middleware.Guard
}

func NewClaimHandler(claims *services.ClaimService, guard *middleware.Guard) *ClaimHandler {
	return &ClaimHandler{claims: claims, guard: guard}
}

func (h *ClaimHandler) List(c *gin.Context) {
	claims, err := h.claims.List(c.Request.Context())
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, claims)
}

// Mine lists the caller's own claims
func (h *ClaimHandler) Mine(c *gin.Context) {
	claims, err := h.claims.ListForUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, claims)
}

func (h *ClaimHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	isAdmin, err := h.isAdmin(c)
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	claim, err := h.claims.Get(ctx, c.Param("id"), middleware.GetUserID(c), isAdmin)
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}

// isAdmin reports whether the caller currently holds the admin role. A failed lookup is
// returned as an error, not treated as a plain user.
func (h *ClaimHandler) isAdmin(c *gin.Context) (bool, error) {
	err := h.guard.RequireRole(c.Request.Context(), middleware.GetIdentity(c), models.RoleAdmin)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperror.ErrForbidden):
		return false, nil
	default:
		return false, err
	}
}

func (h *ClaimHandler) Create(c *gin.Context) {
	var req CreateClaimRequest
	if err := bind(c, &req, apperror.ErrMissingField); err != nil {
		apperror.Abort(c, err)
		return
	}
	amount := decimal.Zero
	if req.Amount != nil {
		amount = *req.Amount
	}
	claimDate, _ := ParseDate(req.ClaimDate)

	claim, err := h.claims.Create(c.Request.Context(), middleware.GetUserID(c), services.CreateClaimInput{
		PolicyID:    req.PolicyID,
		ClaimDate:   claimDate,
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, claim)
}

// UpdateStatus sets a claim's status and notifies its owner. A missing owner is a 404
// even though the new status has been stored.
func (h *ClaimHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := bind(c, &req, apperror.ErrInvalidStatus); err != nil {
		apperror.Abort(c, err)
		return
	}

	claim, err := h.claims.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (h *ClaimHandler) Delete(c *gin.Context) {
	if err := h.claims.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Claim deleted successfully"})
}

// Statuses describes the claim status set and the review flow
func (h *ClaimHandler) Statuses(c *gin.Context) {
	transitions := gin.H{}
	for _, s := range statemachine.Statuses() {
		transitions[string(s)] = statemachine.ValidTransitionsFrom(s)
	}
	c.JSON(http.StatusOK, gin.H{
		"statuses":    statemachine.Statuses(),
		"initial":     models.StatusPending,
		"transitions": transitions,
		"ui_flow":     statemachine.UIFlow(),
	})
}
