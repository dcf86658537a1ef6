package services

import (
	"errors"
	"log"
	"net/http"

	"github.com/terangalabs/alertsn/config"
	"github.com/terangalabs/alertsn/db"
	apiError "github.com/terangalabs/alertsn/errors"
	"github.com/terangalabs/alertsn/models"
	"github.com/terangalabs/alertsn/services/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService interface
type AuthService interface {
	SignupUser(request *models.SignupRequest) (*models.UserResponse, *apiError.Error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	LogoutUser(token string) *apiError.Error
}

// authService struct
type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
	}
}

func (s *authService) SignupUser(request *models.SignupRequest) (*models.UserResponse, *apiError.Error) {
	if err := models.ValidateWhiteSpaces(request); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	// Self-service signup never grants an elevated role.
	role := models.RoleCitizen
	if request.Role == models.RoleResponder {
		role = models.RoleResponder
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	user := &models.User{
		Username:       request.Username,
		Email:          request.Email,
		HashedPassword: string(hashedPassword),
		PhoneNumber:    request.PhoneNumber,
		Role:           role,
		IsActive:       true,
	}

	user, err = s.authRepo.CreateUser(user)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apiError.New("username or email already taken", http.StatusConflict)
		}
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
	}, nil
}

// LoginUser logs in a user and returns the login response
func (s *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	if err := models.ValidateWhiteSpaces(loginRequest); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	foundUser, err := s.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
		}
		log.Printf("Error finding user by email: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if !foundUser.IsActive {
		return nil, apiError.InActiveUserError
	}

	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}

	accessToken, err := jwt.GenerateToken(foundUser.ID, s.Config.JWTSecret)
	if err != nil {
		log.Printf("error generating access token: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: models.UserResponse{
			ID:          foundUser.ID,
			Username:    foundUser.Username,
			Email:       foundUser.Email,
			PhoneNumber: foundUser.PhoneNumber,
			Role:        foundUser.Role,
		},
		AccessToken: accessToken,
	}, nil
}

// LogoutUser adds the token to the blacklist so it cannot be replayed.
func (s *authService) LogoutUser(token string) *apiError.Error {
	if err := s.authRepo.AddToBlacklist(&models.Blacklist{Token: token}); err != nil {
		log.Printf("error blacklisting token: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}
