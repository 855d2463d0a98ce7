package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Kariqs/satshop-api/initializers"
	"github.com/Kariqs/satshop-api/logger"
	"github.com/Kariqs/satshop-api/models"
	"github.com/Kariqs/satshop-api/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost = 10

	msgUserAlreadyExists     = "User already exists"
	msgInvalidCredentials    = "Invalid email or password"
	msgFailedToGenerateToken = "Failed to generate token"
	msgUserNotFound          = "User not found"
	msgResetLinkSent         = "Check your email for a password reset link."
	msgInvalidResetLink      = "Invalid or expired reset link"
	msgPasswordReset         = "Password reset successful"
	resetPasswordTemplate    = "reset_password.html"
)

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func findUser(query string, arg any) (*models.User, error) {
	var user models.User
	if err := initializers.DB.Where(query, arg).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a customer account.
func Register(ctx *gin.Context) {
	var signup models.SignupData
	if !bindJSON(ctx, &signup) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(signup.Email))

	hashed, err := hashPassword(signup.Password)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}

	user := models.User{
		Email:       email,
		DisplayName: signup.DisplayName,
		Password:    hashed,
		Role:        models.RoleCustomer,
	}
	// duplicate emails are rejected by the unique index
	if err := initializers.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgUserAlreadyExists)
			return
		}
		sendServiceError(ctx, err)
		return
	}

	logger.Info(ctx.Request.Context(), "user registered", "user_id", user.ID)
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "User registered successfully", "uid": user.ID})
}

func Login(ctx *gin.Context) {
	var login models.LoginData
	if !bindJSON(ctx, &login) {
		return
	}

	user, err := findUser("email = ?", strings.ToLower(strings.TrimSpace(login.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
			return
		}
		sendServiceError(ctx, err)
		return
	}
	if err := comparePasswords(user.Password, login.Password); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	jwtCfg := initializers.Config.JWT
	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role, jwtCfg.Secret, time.Duration(jwtCfg.TTLHours)*time.Hour)
	if err != nil {
		logger.Error(ctx.Request.Context(), "jwt generation failed", "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": token, "user": user})
}

func GetProfile(ctx *gin.Context) {
	user, err := findUser("id = ?", ctx.Param("uid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgUserNotFound)
			return
		}
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, user)
}

func UpdateProfile(ctx *gin.Context) {
	var update models.ProfileUpdate
	if !bindJSON(ctx, &update) {
		return
	}

	user, err := findUser("id = ?", ctx.Param("uid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgUserNotFound)
			return
		}
		sendServiceError(ctx, err)
		return
	}

	err = initializers.DB.Model(user).Updates(map[string]any{
		"display_name": update.DisplayName,
		"phone_number": update.PhoneNumber,
		"address":      update.Address,
	}).Error
	if err != nil {
		sendServiceError(ctx, err)
		return
	}

	user.DisplayName = update.DisplayName
	user.PhoneNumber = update.PhoneNumber
	user.Address = update.Address
	sendJSONResponse(ctx, http.StatusOK, user)
}

// SendPasswordResetLink stores a reset token and mails a link carrying it.
func SendPasswordResetLink(ctx *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if !bindJSON(ctx, &body) {
		return
	}

	user, err := findUser("email = ?", strings.ToLower(strings.TrimSpace(body.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgUserNotFound)
			return
		}
		sendServiceError(ctx, err)
		return
	}

	resetToken, err := utils.GenerateCode(16)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	if err := initializers.DB.Model(user).Update("password_reset_token", resetToken).Error; err != nil {
		sendServiceError(ctx, err)
		return
	}

	if mailer := initializers.Gateways.Mailer; mailer != nil {
		mailCfg := initializers.Config.Mail
		data := utils.EmailData{
			Name:      user.DisplayName,
			Message:   "You requested a password reset. Click the button below to choose a new password.",
			ActionURL: mailCfg.ResetURL + "?token=" + url.QueryEscape(resetToken),
			LogoURL:   mailCfg.LogoURL,
		}
		if err := mailer.SendEmail(user.Email, "SAT SHOP password reset", data, resetPasswordTemplate); err != nil {
			logger.Warn(ctx.Request.Context(), "failed to send password reset email", "user_id", user.ID, "error", err)
		}
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgResetLinkSent})
}

func ResetPassword(ctx *gin.Context) {
	var body struct {
		Password string `json:"password" binding:"required,min=6"`
	}
	if !bindJSON(ctx, &body) {
		return
	}

	resetToken := ctx.Param("resetToken")
	if resetToken == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidResetLink)
		return
	}

	hashed, err := hashPassword(body.Password)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}

	result := initializers.DB.Model(&models.User{}).
		Where("password_reset_token = ?", resetToken).
		Updates(map[string]any{"password": hashed, "password_reset_token": ""})
	if result.Error != nil {
		sendServiceError(ctx, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidResetLink)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgPasswordReset})
}
