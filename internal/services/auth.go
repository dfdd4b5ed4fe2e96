package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yeloe-dev/yeloe/db"
	"github.com/yeloe-dev/yeloe/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Domain errors from the identity flows. Their text is user-facing.
var (
	ErrEmailExists          = errors.New("email already exists")
	ErrEmailAlreadyVerified = errors.New("email is already verified")
	ErrInvalidCode          = errors.New("invalid verification code")
	ErrCodeExpired          = errors.New("verification code has expired, please request a new one")
	ErrEmailNotVerified     = errors.New("please verify your email address first")
	ErrInvalidResetToken    = errors.New("invalid or expired password reset token")
	ErrWrongPassword        = errors.New("current password is incorrect")
)

type AuthService struct {
	mailer *Mailer
}

func NewAuthService(mailer *Mailer) *AuthService {
	return &AuthService{mailer: mailer}
}

// Register creates an unverified user and mails a verification code.
// Persisting the user is the critical step; a failed verification email
// is reported so the caller can prompt a resend.
func (s *AuthService) Register(email, password, firstName, lastName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User

	err := db.DB.Where("email = ?", email).First(&existing).Error

	if err == nil {
		return nil, ErrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:           email,
		PasswordHash:    string(passwordHash),
		FirstName:       strings.TrimSpace(firstName),
		LastName:        strings.TrimSpace(lastName),
		IsEmailVerified: false,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	if err := s.SendEmailVerification(email); err != nil {
		log.Printf("Failed to send verification email to %s: %v", email, err)
	}

	return &user, nil
}

// Login requires a matching password hash and a verified email. Both
// failures collapse to a nil user so callers cannot tell them apart.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User

	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}

	if !user.IsEmailVerified {
		return nil, nil
	}

	return &user, nil
}

// SendEmailVerification issues a fresh 6-digit code valid 15 minutes,
// invalidating earlier codes for the same email.
func (s *AuthService) SendEmailVerification(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User

	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return err
	}

	if user.IsEmailVerified {
		return ErrEmailAlreadyVerified
	}

	code := fmt.Sprintf("%06d", rand.Intn(900000)+100000)

	if err := db.DB.Where("email = ?", email).Delete(&models.EmailVerificationToken{}).Error; err != nil {
		return err
	}

	token := models.EmailVerificationToken{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(models.EmailVerificationTTL),
	}

	if err := db.DB.Create(&token).Error; err != nil {
		return err
	}

	return s.mailer.SendVerificationEmail(email, code)
}

// VerifyEmail consumes a single-use code and flips the user's verified
// flag.
func (s *AuthService) VerifyEmail(email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var token models.EmailVerificationToken

	err := db.DB.Where("email = ? AND code = ? AND is_used = ?", email, code, false).
		First(&token).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCode
		}
		return err
	}

	if token.ExpiresAt.Before(time.Now().UTC()) {
		return ErrCodeExpired
	}

	if err := db.DB.Model(&token).Update("is_used", true).Error; err != nil {
		return err
	}

	return db.DB.Model(&models.User{}).
		Where("email = ?", email).
		Update("is_email_verified", true).Error
}

// RequestPasswordReset mails a single-use token valid one hour. An
// unknown email is a silent no-op so the endpoint does not leak which
// accounts exist.
func (s *AuthService) RequestPasswordReset(email, baseURL string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User

	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if !user.IsEmailVerified {
		return ErrEmailNotVerified
	}

	resetToken := strings.ReplaceAll(uuid.NewString(), "-", "")

	if err := db.DB.Where("email = ?", email).Delete(&models.PasswordResetToken{}).Error; err != nil {
		return err
	}

	token := models.PasswordResetToken{
		Email:     email,
		Token:     resetToken,
		ExpiresAt: time.Now().UTC().Add(models.PasswordResetTTL),
	}

	if err := db.DB.Create(&token).Error; err != nil {
		return err
	}

	return s.mailer.SendPasswordResetEmail(email, resetToken, baseURL)
}

func (s *AuthService) ValidateResetToken(email, token string) bool {
	email = strings.ToLower(strings.TrimSpace(email))

	var resetToken models.PasswordResetToken

	err := db.DB.Where("email = ? AND token = ?", email, token).First(&resetToken).Error

	return err == nil && resetToken.ExpiresAt.After(time.Now().UTC())
}

// ResetPassword consumes the token and replaces the password hash. The
// token row is deleted after use.
func (s *AuthService) ResetPassword(email, token, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var resetToken models.PasswordResetToken

	err := db.DB.Where("email = ? AND token = ?", email, token).First(&resetToken).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	if resetToken.ExpiresAt.Before(time.Now().UTC()) {
		return ErrInvalidResetToken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := db.DB.Model(&models.User{}).
		Where("email = ?", email).
		Update("password_hash", string(passwordHash)).Error; err != nil {
		return err
	}

	return db.DB.Unscoped().Delete(&resetToken).Error
}

func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrWrongPassword
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.DB.Model(&user).Update("password_hash", string(passwordHash)).Error
}

// UpdateProfile changes names and email, enforcing email uniqueness
// against every other user.
func (s *AuthService) UpdateProfile(userID uint, firstName, lastName, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var other models.User

	err := db.DB.Where("email = ? AND id != ?", email, userID).First(&other).Error

	if err == nil {
		return ErrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"first_name": strings.TrimSpace(firstName),
			"last_name":  strings.TrimSpace(lastName),
			"email":      email,
		}).Error
}
