package handlers

import (
	"net/http"

	"claims-management-api/apperror"
	"claims-management-api/middleware"
	"claims-management-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreatePolicyRequest struct {
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description" binding:"required"`
	PremiumAmount *decimal.Decimal `json:"premium_amount"`
	PolicyEndDate string           `json:"policy_end_date" binding:"required,isodate"`
}

type PolicyHandler struct {
	policies *services.PolicyService
}

func NewPolicyHandler(policies *services.PolicyService) *PolicyHandler {
	return &PolicyHandler{policies: policies}
}

func (h *PolicyHandler) List(c *gin.Context) {
	policies, err := h.policies.List(c.Request.Context())
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, policies)
}

func (h *PolicyHandler) Get(c *gin.Context) {
	policy, err := h.policies.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

func (h *PolicyHandler) Create(c *gin.Context) {
	var req CreatePolicyRequest
	if err := bind(c, &req, apperror.ErrMissingField); err != nil {
		apperror.Abort(c, err)
		return
	}
	if req.PremiumAmount == nil {
		apperror.Abort(c, apperror.ErrMissingField)
		return
	}
	endDate, _ := ParseDate(req.PolicyEndDate)

	policy, err := h.policies.Create(c.Request.Context(), services.CreatePolicyInput{
		Name:          req.Name,
		Description:   req.Description,
		PremiumAmount: *req.PremiumAmount,
		PolicyEndDate: endDate,
	})
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, policy)
}

func (h *PolicyHandler) Delete(c *gin.Context) {
	if err := h.policies.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Policy deleted successfully"})
}

// Buy records a purchase of the policy by the caller
func (h *PolicyHandler) Buy(c *gin.Context) {
	user, err := h.policies.Purchase(c.Request.Context(), middleware.GetUserID(c), c.Param("policyId"))
	if err != nil {
		apperror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Policy purchased successfully",
		"user":    user,
	})
}
