package services

import (
	"context"
	"errors"
	"strings"

	"claims-management-api/apperror"
	"claims-management-api/auth"
	"claims-management-api/logger"
	"claims-management-api/models"

	"gorm.io/gorm"
)

type UserService struct {
	db     *gorm.DB
	tokens *auth.TokenIssuer
	log    logger.Logger
}

func NewUserService(db *gorm.DB, tokens *auth.TokenIssuer) *UserService {
	return &UserService{db: db, tokens: tokens, log: logger.New("UserService")}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     models.UserRole
}

type UpdateUserInput struct {
	Username *string
	Role     *models.UserRole
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	log := s.log.Function("Register")
	db := s.db.WithContext(ctx)

	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, apperror.ErrMissingField
	}
	if !in.Role.IsValid() {
		return nil, apperror.ErrInvalidRole
	}

	if taken, err := rowExists(db, &models.User{}, "email = ?", in.Email); err != nil {
		return nil, log.Err("failed to check email", err)
	} else if taken {
		return nil, apperror.ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.ErrEmailTaken
		}
		return nil, log.Err("failed to create user", err)
	}

	log.Info("user registered", "userID", user.ID, "role", user.Role)
	return s.authResult(&user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := s.log.Function("Login")

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, log.Err("failed to load user", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		log.Debug("password mismatch", "userID", user.ID)
		return nil, apperror.ErrInvalidCredentials
	}

	return s.authResult(&user)
}

func (s *UserService) authResult(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, s.log.Function("authResult").Err("failed to issue token", err, "userID", user.ID)
	}
	return &AuthResult{Token: token, User: user.Summary()}, nil
}

// Get returns a user with the ids of the policies they bought.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	log := s.log.Function("Get")
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, log.Err("failed to load user", err, "userID", id)
	}

	ids, err := purchasedPolicyIDs(db, id)
	if err != nil {
		return nil, log.Err("failed to load purchased policies", err, "userID", id)
	}
	user.PurchasedPolicies = ids
	return &user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, s.log.Function("List").Err("failed to list users", err)
	}
	return users, nil
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	log := s.log.Function("Update")

	updates := map[string]any{}
	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if name == "" {
			return nil, apperror.ErrMissingField
		}
		updates["username"] = name
	}
	if in.Role != nil {
		if !in.Role.IsValid() {
			return nil, apperror.ErrInvalidRole
		}
		updates["role"] = *in.Role
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, log.Err("failed to update user", err, "userID", id)
	}

	log.Info("user updated", "userID", id)
	return s.Get(ctx, id)
}

// Delete removes a user who has not filed claims, along with their purchases.
func (s *UserService) Delete(ctx context.Context, id string) error {
	log := s.log.Function("Delete")

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if exists, err := rowExists(tx, &models.User{}, "id = ?", id); err != nil {
			return log.Err("failed to load user", err, "userID", id)
		} else if !exists {
			return apperror.ErrUserNotFound
		}

		if filed, err := rowExists(tx, &models.Claim{}, "user_id = ?", id); err != nil {
			return log.Err("failed to check claims", err, "userID", id)
		} else if filed {
			return apperror.ErrUserHasClaims
		}

		if err := tx.Delete(&models.Purchase{}, "user_id = ?", id).Error; err != nil {
			return log.Err("failed to delete purchases", err, "userID", id)
		}
		if err := tx.Delete(&models.User{}, "id = ?", id).Error; err != nil {
			return log.Err("failed to delete user", err, "userID", id)
		}
		log.Info("user deleted", "userID", id)
		return nil
	})
}

// PurchasedPolicies returns the policies a user bought, in purchase order.
func (s *UserService) PurchasedPolicies(ctx context.Context, userID string) ([]models.Policy, error) {
	log := s.log.Function("PurchasedPolicies")
	db := s.db.WithContext(ctx)

	if exists, err := rowExists(db, &models.User{}, "id = ?", userID); err != nil {
		return nil, log.Err("failed to load user", err, "userID", userID)
	} else if !exists {
		return nil, apperror.ErrUserNotFound
	}

	policies := []models.Policy{}
	if err := db.
		Joins("JOIN purchases ON purchases.policy_id = policies.id").
		Where("purchases.user_id = ?", userID).
		Order("purchases.created_at asc").
		Find(&policies).Error; err != nil {
		return nil, log.Err("failed to load purchased policies", err, "userID", userID)
	}
	return policies, nil
}
