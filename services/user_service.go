package services

import (
	"context"
	"fmt"
	"strings"

	"online-canteen-api/logger"
	"online-canteen-api/models"
	"online-canteen-api/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is lowered by tests
var bcryptCost = bcrypt.DefaultCost

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type UserService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{store: store}
}

// CreateUserInput carries a plain-text password; it is hashed before storage
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	AvatarURL string
	Roles     []models.RoleName
}

// CreateUser registers an account. Without explicit roles the user becomes a CUSTOMER.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	exists, err := s.store.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	names := in.Roles
	if len(names) == 0 {
		names = []models.RoleName{models.RoleCustomer}
	}
	roles := make([]models.Role, 0, len(names))
	for _, name := range names {
		role, err := s.store.Users.GetRole(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("load role %s: %w", name, err)
		}
		if role == nil {
			return nil, ErrRoleNotFound
		}
		roles = append(roles, *role)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		AvatarURL:    in.AvatarURL,
		Roles:        roles,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	logger.FromContext(ctx).Info("user created", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// GetUser returns ErrUserNotFound for unknown ids
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// FindByEmail returns nil when no account uses the address
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.store.Users.GetByEmail(ctx, email)
}

func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.store.Users.ExistsByEmail(ctx, email)
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.Users.List(ctx)
}

func (s *UserService) ListByRole(ctx context.Context, role models.RoleName) ([]models.User, error) {
	return s.store.Users.ListByRole(ctx, role)
}

// Authenticate verifies credentials; unknown email and wrong password are indistinguishable
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !checkPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredential
	}
	return user, nil
}

func (s *UserService) AddRole(ctx context.Context, userID uint, name models.RoleName) (*models.User, error) {
	user, role, err := s.userAndRole(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if !user.HasRole(name) {
		if err := s.store.Users.AddRole(ctx, user, role); err != nil {
			return nil, fmt.Errorf("add role: %w", err)
		}
	}
	return s.GetUser(ctx, userID)
}

func (s *UserService) RemoveRole(ctx context.Context, userID uint, name models.RoleName) (*models.User, error) {
	user, role, err := s.userAndRole(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if err := s.store.Users.RemoveRole(ctx, user, role); err != nil {
		return nil, fmt.Errorf("remove role: %w", err)
	}
	return s.GetUser(ctx, userID)
}

func (s *UserService) userAndRole(ctx context.Context, userID uint, name models.RoleName) (*models.User, *models.Role, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	role, err := s.store.Users.GetRole(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if role == nil {
		return nil, nil, ErrRoleNotFound
	}
	return user, role, nil
}

type UpdateProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	AvatarURL *string
}

// UpdateProfile changes self-editable fields; a new email must be unused
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != user.Email {
			exists, err := s.store.Users.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrEmailInUse
			}
			user.Email = email
		}
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.AvatarURL != nil {
		user.AvatarURL = *in.AvatarURL
	}
	if err := s.store.Users.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ChangePassword returns false without error when current does not match
func (s *UserService) ChangePassword(ctx context.Context, userID uint, current, next string) (bool, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if !checkPassword(user.PasswordHash, current) {
		return false, nil
	}
	hash, err := hashPassword(next)
	if err != nil {
		return false, err
	}
	if err := s.store.Users.UpdatePassword(ctx, userID, hash); err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}
	return true, nil
}

// DeleteAccount is the self-service delete. It returns false on a password
// mismatch; admins cannot delete themselves.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint, password string) (bool, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.HasRole(models.RoleAdmin) {
		return false, ErrCannotDeleteAdmin
	}
	if !checkPassword(user.PasswordHash, password) {
		return false, nil
	}
	if err := s.deleteUser(ctx, userID); err != nil {
		return false, err
	}
	logger.FromContext(ctx).Info("account deleted by owner", zap.Uint("user_id", userID))
	return true, nil
}

// DeleteUser is the admin delete of another account
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID uint) error {
	if actorID == userID {
		return Forbidden("Admins cannot delete their own account")
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.HasRole(models.RoleAdmin) {
		return ErrCannotDeleteAdmin
	}
	if err := s.deleteUser(ctx, userID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("account deleted by admin", zap.Uint("user_id", userID), zap.Uint("admin_id", actorID))
	return nil
}

// deleteUser refuses accounts that own shops or placed orders; their rows
// reference the user and are kept for the shop's records.
func (s *UserService) deleteUser(ctx context.Context, userID uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		busy, err := tx.Users.HasDependents(ctx, userID)
		if err != nil {
			return fmt.Errorf("check user dependents: %w", err)
		}
		if busy {
			return ErrUserHasHistory
		}
		if err := tx.Users.Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}
