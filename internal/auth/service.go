package auth

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	db          *gorm.DB
	jwt         *JWTService
	guestDomain string
}

func NewService(db *gorm.DB, jwt *JWTService, guestDomain string) *Service {
	return &Service{db: db, jwt: jwt, guestDomain: guestDomain}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Name, false)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: &user}, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", input.Email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Name, user.GuestAccount(s.guestDomain))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: &user}, nil
}

// GuestLogin resumes a guest session when resumeToken still identifies a live
// guest user, otherwise it mints a fresh anonymous account on the guest
// email domain. Guest accounts are full user rows; their bookmarks behave as
// shared public records.
func (s *Service) GuestLogin(ctx context.Context, resumeToken string) (*AuthResponse, error) {
	if resumeToken != "" {
		if claims, err := s.jwt.ValidateToken(resumeToken); err == nil && claims.IsGuest {
			var user models.User
			if err := s.db.WithContext(ctx).First(&user, "id = ?", claims.UserID).Error; err == nil {
				token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Name, true)
				if err != nil {
					return nil, err
				}
				return &AuthResponse{Token: token, User: &user}, nil
			}
		}
		// Expired or dangling token: fall through and mint a new guest.
	}

	guestID := fmt.Sprintf("guest_%d_%06x", time.Now().Unix(), rand.Intn(1<<24))
	hash, err := HashPassword(guestID)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         "Guest",
		Email:        guestID + "@" + s.guestDomain,
		PasswordHash: hash,
		IsGuest:      true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Name, true)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: &user}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
