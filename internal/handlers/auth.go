package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/yeloe-dev/yeloe/db"
	"github.com/yeloe-dev/yeloe/internal/auth"
	"github.com/yeloe-dev/yeloe/internal/models"
	"github.com/yeloe-dev/yeloe/internal/services"
	"github.com/yeloe-dev/yeloe/internal/types"
	"github.com/yeloe-dev/yeloe/internal/utils"
)

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
}

func setTokenCookie(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   os.Getenv("DOMAIN"),
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func userPayload(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		IsEmailVerified: user.IsEmailVerified,
	}
}

func Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	user, err := authService.Register(body.Email, body.Password, body.FirstName, body.LastName)

	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email already exists"})
			return
		}
		log.Printf("Failed to register user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Please check your email for verification code.",
		"user":    userPayload(user),
	})
}

func Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	user, err := authService.Login(body.Email, body.Password)

	if err != nil {
		log.Printf("Login failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	// Wrong password, unknown email, and unverified email all produce
	// the same response.
	if user == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	setTokenCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged in successfully",
		"user":    userPayload(user),
	})
}

func VerifyEmail(ctx *gin.Context) {
	var body VerifyEmailRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if err := authService.VerifyEmail(body.Email, body.Code); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCode), errors.Is(err, services.ErrCodeExpired):
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			log.Printf("Failed to verify email: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email verified successfully! You can now login.",
	})
}

func ResendVerification(ctx *gin.Context) {
	var body EmailRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if err := authService.SendEmailVerification(body.Email); err != nil {
		if errors.Is(err, services.ErrEmailAlreadyVerified) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is already verified"})
			return
		}
		log.Printf("Failed to resend verification: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send verification email"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification code sent successfully."})
}

func ForgotPassword(ctx *gin.Context) {
	var body EmailRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	baseURL := os.Getenv("CLIENT_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5173"
	}

	err := authService.RequestPasswordReset(body.Email, baseURL)

	if err != nil && errors.Is(err, services.ErrEmailNotVerified) {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please verify your email address first before resetting your password"})
		return
	}

	if err != nil {
		log.Printf("Failed to process password reset for %s: %v", body.Email, err)
	}

	// Unknown emails get the same response as known ones.
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If an account with this email exists, you will receive a password reset email.",
	})
}

func ResetPassword(ctx *gin.Context) {
	var body ResetPasswordRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if err := authService.ResetPassword(body.Email, body.Token, body.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired password reset token"})
			return
		}
		log.Printf("Failed to reset password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset successfully. You can now login with your new password.",
	})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userPayload(&user)})
}

func Logout(ctx *gin.Context) {
	setTokenCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

func ChangePassword(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var body ChangePasswordRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if err := authService.ChangePassword(currentUser.ID, body.CurrentPassword, body.NewPassword); err != nil {
		if errors.Is(err, services.ErrWrongPassword) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Current password is incorrect"})
			return
		}
		log.Printf("Failed to change password for user %d: %v", currentUser.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
}

func UpdateProfile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var body UpdateProfileRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if err := authService.UpdateProfile(currentUser.ID, body.FirstName, body.LastName, body.Email); err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email already exists"})
			return
		}
		log.Printf("Failed to update profile for user %d: %v", currentUser.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    userPayload(&user),
	})
}
