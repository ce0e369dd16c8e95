package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"claims-management-api/apperror"
	"claims-management-api/logger"
	"claims-management-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PolicyService struct {
	db  *gorm.DB
	log logger.Logger
}

func NewPolicyService(db *gorm.DB) *PolicyService {
	return &PolicyService{db: db, log: logger.New("PolicyService")}
}

type CreatePolicyInput struct {
	Name          string
	Description   string
	PremiumAmount decimal.Decimal
	PolicyEndDate time.Time
}

// List returns every policy with its purchaser ids.
func (s *PolicyService) List(ctx context.Context) ([]models.Policy, error) {
	log := s.log.Function("List")
	db := s.db.WithContext(ctx)

	var policies []models.Policy
	if err := db.Order("created_at asc").Find(&policies).Error; err != nil {
		return nil, log.Err("failed to list policies", err)
	}
	if len(policies) == 0 {
		return policies, nil
	}

	ids := make([]string, len(policies))
	for i, p := range policies {
		ids[i] = p.ID
	}
	purchasers, err := purchasersByPolicy(db, ids...)
	if err != nil {
		return nil, log.Err("failed to load purchasers", err)
	}
	for i := range policies {
		policies[i].Users = purchasers[policies[i].ID]
	}
	return policies, nil
}

func (s *PolicyService) Get(ctx context.Context, id string) (*models.Policy, error) {
	log := s.log.Function("Get")
	db := s.db.WithContext(ctx)

	var policy models.Policy
	if err := db.First(&policy, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrPolicyNotFound
		}
		return nil, log.Err("failed to load policy", err, "policyID", id)
	}

	purchasers, err := purchasersByPolicy(db, policy.ID)
	if err != nil {
		return nil, log.Err("failed to load purchasers", err, "policyID", id)
	}
	policy.Users = purchasers[policy.ID]
	return &policy, nil
}

func (s *PolicyService) Create(ctx context.Context, in CreatePolicyInput) (*models.Policy, error) {
	log := s.log.Function("Create")

	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" || in.Description == "" || in.PolicyEndDate.IsZero() {
		return nil, apperror.ErrMissingField
	}
	if !in.PremiumAmount.IsPositive() || !isWholeCents(in.PremiumAmount) {
		return nil, apperror.Validation("Premium amount must be a positive number with at most two decimal places")
	}

	policy := models.Policy{
		Name:          in.Name,
		Description:   in.Description,
		PremiumAmount: in.PremiumAmount,
		PolicyEndDate: in.PolicyEndDate,
	}
	if err := s.db.WithContext(ctx).Create(&policy).Error; err != nil {
		return nil, log.Err("failed to create policy", err, "name", in.Name)
	}

	log.Info("policy created", "policyID", policy.ID, "name", policy.Name)
	return &policy, nil
}

// Delete removes a policy nobody has bought or claimed against.
func (s *PolicyService) Delete(ctx context.Context, id string) error {
	log := s.log.Function("Delete")

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if exists, err := rowExists(tx, &models.Policy{}, "id = ?", id); err != nil {
			return log.Err("failed to load policy", err, "policyID", id)
		} else if !exists {
			return apperror.ErrPolicyNotFound
		}

		if bought, err := rowExists(tx, &models.Purchase{}, "policy_id = ?", id); err != nil {
			return log.Err("failed to check purchases", err, "policyID", id)
		} else if bought {
			return apperror.ErrPolicyHasPurchasers
		}

		if claimed, err := rowExists(tx, &models.Claim{}, "policy_id = ?", id); err != nil {
			return log.Err("failed to check claims", err, "policyID", id)
		} else if claimed {
			return apperror.ErrPolicyHasClaims
		}

		if err := tx.Delete(&models.Policy{}, "id = ?", id).Error; err != nil {
			return log.Err("failed to delete policy", err, "policyID", id)
		}
		log.Info("policy deleted", "policyID", id)
		return nil
	})
}

// Purchase records that userID bought policyID. Both sides of the relation live in a
// single purchases row, so the write is atomic and a repeat purchase is rejected.
func (s *PolicyService) Purchase(ctx context.Context, userID, policyID string) (*models.User, error) {
	log := s.log.Function("Purchase")

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if exists, err := rowExists(tx, &models.Policy{}, "id = ?", policyID); err != nil {
			return log.Err("failed to load policy", err, "policyID", policyID)
		} else if !exists {
			return apperror.ErrPolicyNotFound
		}

		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrUserNotFound
			}
			return log.Err("failed to load user", err, "userID", userID)
		}

		if owned, err := rowExists(tx, &models.Purchase{}, "user_id = ? AND policy_id = ?", userID, policyID); err != nil {
			return log.Err("failed to check purchases", err, "userID", userID, "policyID", policyID)
		} else if owned {
			return apperror.ErrAlreadyPurchased
		}

		if err := tx.Create(&models.Purchase{UserID: userID, PolicyID: policyID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.ErrAlreadyPurchased
			}
			return log.Err("failed to record purchase", err, "userID", userID, "policyID", policyID)
		}

		ids, err := purchasedPolicyIDs(tx, userID)
		if err != nil {
			return log.Err("failed to load purchased policies", err, "userID", userID)
		}
		user.PurchasedPolicies = ids
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("policy purchased", "userID", userID, "policyID", policyID)
	return &user, nil
}

func purchasersByPolicy(db *gorm.DB, policyIDs ...string) (map[string][]string, error) {
	var rows []models.Purchase
	if err := db.Where("policy_id IN ?", policyIDs).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(policyIDs))
	for _, row := range rows {
		out[row.PolicyID] = append(out[row.PolicyID], row.UserID)
	}
	return out, nil
}

func purchasedPolicyIDs(db *gorm.DB, userID string) ([]string, error) {
	var ids []string
	if err := db.Model(&models.Purchase{}).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Pluck("policy_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
