package services

import (
	"context"
	"errors"
	"time"

	"claims-management-api/apperror"
	"claims-management-api/logger"
	"claims-management-api/metrics"
	"claims-management-api/models"
	"claims-management-api/notifier"
	"claims-management-api/statemachine"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Notifier receives status-change notices. It must not block the caller.
type Notifier interface {
	Notify(msg notifier.Message)
}

type ClaimService struct {
	db       *gorm.DB
	notifier Notifier
	log      logger.Logger
}

func NewClaimService(db *gorm.DB, n Notifier) *ClaimService {
	return &ClaimService{db: db, notifier: n, log: logger.New("ClaimService")}
}

type CreateClaimInput struct {
	PolicyID    string
	ClaimDate   time.Time
	Amount      decimal.Decimal
	Description string
}

// ValidateClaim checks a claim against the policy it is filed under: the amount must be
// positive, in whole cents and within the premium ceiling, and the claim date must precede
// the policy's end date.
func ValidateClaim(policy models.Policy, amount decimal.Decimal, claimDate time.Time) error {
	if !amount.IsPositive() || !isWholeCents(amount) || amount.GreaterThan(policy.PremiumAmount) {
		return apperror.ErrAmountOutOfRange
	}
	if !claimDate.Before(policy.PolicyEndDate) {
		return apperror.ErrClaimDateInvalid
	}
	return nil
}

// Create files a new pending claim owned by userID.
func (s *ClaimService) Create(ctx context.Context, userID string, in CreateClaimInput) (*models.Claim, error) {
	log := s.log.Function("Create")
	db := s.db.WithContext(ctx)

	var policy models.Policy
	if err := db.First(&policy, "id = ?", in.PolicyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidPolicy
		}
		return nil, log.Err("failed to load policy", err, "policyID", in.PolicyID)
	}

	if err := ValidateClaim(policy, in.Amount, in.ClaimDate); err != nil {
		return nil, err
	}

	if exists, err := rowExists(db, &models.User{}, "id = ?", userID); err != nil {
		return nil, log.Err("failed to check claim owner", err, "userID", userID)
	} else if !exists {
		return nil, apperror.ErrUserNotFound
	}

	claim := models.Claim{
		UserID:      userID,
		PolicyID:    policy.ID,
		ClaimDate:   in.ClaimDate,
		Amount:      in.Amount,
		Description: in.Description,
		Status:      models.StatusPending,
	}
	if err := db.Create(&claim).Error; err != nil {
		return nil, log.Err("failed to create claim", err, "userID", userID, "policyID", policy.ID)
	}

	metrics.ClaimsCreated.Inc()
	log.Info("claim created", "claimID", claim.ID, "userID", userID, "policyID", policy.ID)
	return &claim, nil
}

// SetStatus is the only write path for a claim's status. After the status is stored the
// owner is notified asynchronously; a missing owner is reported as ErrOwnerNotFound
// together with the already-updated claim.
func (s *ClaimService) SetStatus(ctx context.Context, claimID, rawStatus string) (*models.Claim, error) {
	log := s.log.Function("SetStatus")
	db := s.db.WithContext(ctx)

	status, ok := statemachine.Parse(rawStatus)
	if !ok {
		return nil, apperror.ErrInvalidStatus
	}

	var claim models.Claim
	if err := db.First(&claim, "id = ?", claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrClaimNotFound
		}
		return nil, log.Err("failed to load claim", err, "claimID", claimID)
	}

	if !statemachine.CanTransition(claim.Status, status) {
		return nil, apperror.ErrInvalidStatus
	}

	previous := claim.Status
	if err := db.Model(&claim).Update("status", status).Error; err != nil {
		return nil, log.Err("failed to update claim status", err, "claimID", claimID)
	}
	claim.Status = status
	metrics.ClaimStatusChanges.WithLabelValues(string(status)).Inc()
	log.Info("claim status updated", "claimID", claimID, "from", previous, "to", status)

	var owner models.User
	if err := db.First(&owner, "id = ?", claim.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("claim owner not found, skipping notification", "claimID", claimID, "userID", claim.UserID)
			return &claim, apperror.ErrOwnerNotFound
		}
		return &claim, log.Err("failed to load claim owner", err, "claimID", claimID)
	}

	s.notifier.Notify(notifier.Message{
		ClaimID:  claim.ID,
		To:       owner.Email,
		Name:     owner.Username,
		PolicyID: claim.PolicyID,
		Status:   status,
	})

	return &claim, nil
}

// List returns every claim with its owner and policy, newest first.
func (s *ClaimService) List(ctx context.Context) ([]models.Claim, error) {
	var claims []models.Claim
	if err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Policy").
		Order("created_at desc").
		Find(&claims).Error; err != nil {
		return nil, s.log.Function("List").Err("failed to list claims", err)
	}
	return claims, nil
}

func (s *ClaimService) ListForUser(ctx context.Context, userID string) ([]models.Claim, error) {
	var claims []models.Claim
	if err := s.db.WithContext(ctx).
		Preload("Policy").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&claims).Error; err != nil {
		return nil, s.log.Function("ListForUser").Err("failed to list user claims", err, "userID", userID)
	}
	return claims, nil
}

// Get returns a claim visible to the caller: admins see every claim, users only their own.
func (s *ClaimService) Get(ctx context.Context, claimID, callerID string, isAdmin bool) (*models.Claim, error) {
	var claim models.Claim
	if err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Policy").
		First(&claim, "id = ?", claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrClaimNotFound
		}
		return nil, s.log.Function("Get").Err("failed to load claim", err, "claimID", claimID)
	}

	if !isAdmin && claim.UserID != callerID {
		return nil, apperror.ErrForbidden
	}
	return &claim, nil
}

func (s *ClaimService) Delete(ctx context.Context, claimID string) error {
	result := s.db.WithContext(ctx).Delete(&models.Claim{}, "id = ?", claimID)
	if result.Error != nil {
		return s.log.Function("Delete").Err("failed to delete claim", result.Error, "claimID", claimID)
	}
	if result.RowsAffected == 0 {
		return apperror.ErrClaimNotFound
	}
	return nil
}
