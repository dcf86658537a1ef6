package models

import (
	"errors"

	goval "github.com/go-passwd/validator"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// Roles
const (
	RoleCitizen   = "citizen"
	RoleResponder = "responder"
	RoleAdmin     = "admin"
)

// User represents a user of the application
type User struct {
	Model
	Username       string `json:"username" gorm:"type:varchar(50);unique;not null"`
	Email          string `json:"email" gorm:"unique;not null"`
	Password       string `json:"password,omitempty" gorm:"-"`
	HashedPassword string `json:"-"`
	PhoneNumber    string `json:"phone_number" gorm:"type:varchar(20)"`
	Role           string `json:"role" gorm:"type:varchar(20);default:'citizen'"`
	ProfilePicture string `json:"profile_picture" gorm:"type:varchar(500)"`
	IsVerified     bool   `json:"is_verified" gorm:"default:false"`
	IsActive       bool   `json:"is_active" gorm:"default:true"`
	AccessToken    string `json:"-" gorm:"-"`
}

// IsResponder reports whether the user holds an elevated role.
func (u *User) IsResponder() bool {
	return u.Role == RoleResponder || u.Role == RoleAdmin
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// VerifyPassword verifies the collected password with the user's hashed password
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(
		goval.MinLength(8, errors.New("password cant be less than 8 characters")),
		goval.MaxLength(64, errors.New("password cant be more than 64 characters")))
	return passwordValidator.Validate(password)
}

func ValidateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

// Blacklist holds access tokens that were logged out before expiry
type Blacklist struct {
	Model
	Token string `json:"token" gorm:"type:varchar(500);index"`
}

type SignupRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50" conform:"trim"`
	Email       string `json:"email" binding:"required,email" conform:"trim,lower"`
	Password    string `json:"password" binding:"required"`
	PhoneNumber string `json:"phone_number" conform:"trim"`
	Role        string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" conform:"trim,lower"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

type LoginResponse struct {
	UserResponse
	AccessToken string `json:"access_token"`
}
