package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotel-ops/apperr"
	"hotel-ops/models"
)

const minPasswordLength = 8

type UserService struct {
	DB  *gorm.DB
	log zerolog.Logger
}

func NewUserService(db *gorm.DB, log zerolog.Logger) *UserService {
	return &UserService{DB: db, log: log.With().Str("component", "users").Logger()}
}

type CreateUserInput struct {
	Username string
	Password string
	Role     models.Role
}

func (s *UserService) Create(ctx context.Context, caller *models.User, in CreateUserInput) (*models.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, apperr.InvalidArgument("username is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.InvalidArgument("password must be at least %d characters", minPasswordLength)
	}
	role := in.Role
	if role == "" {
		role = models.RoleStaff
	}
	if !role.Valid() {
		return nil, apperr.InvalidArgument("role must be one of admin, staff")
	}

	db := s.DB.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, storeErr(err, nil, "check username")
	}
	if count > 0 {
		return nil, apperr.Conflict("username %q is already taken", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err, "failed to hash password")
	}
	user := models.User{Username: username, HashedPassword: string(hash), Role: role}
	if err := db.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apperr.Conflict("username %q is already taken", username)
		}
		return nil, storeErr(err, nil, "create user")
	}

	s.log.Info().Uint("user_id", user.ID).Str("role", string(role)).Uint("by", caller.ID).Msg("user created")
	return &user, nil
}

func (s *UserService) List(ctx context.Context, caller *models.User) ([]models.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, storeErr(err, nil, "list users")
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, caller *models.User, id uint) (*models.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, storeErr(err, apperr.NotFound("user %d not found", id), "load user")
	}
	return &user, nil
}

// Delete removes a user. Admins cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, caller *models.User, id uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if caller.ID == id {
		return apperr.PreconditionFailed("cannot delete the signed-in account")
	}
	res := s.DB.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return storeErr(res.Error, nil, "delete user")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user %d not found", id)
	}
	s.log.Info().Uint("user_id", id).Uint("by", caller.ID).Msg("user deleted")
	return nil
}
