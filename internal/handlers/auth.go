package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SamarthKalavadia/hospital-management-system/internal/config"
	"github.com/SamarthKalavadia/hospital-management-system/internal/directory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/utils"
)

const refreshCookie = "refresh_token"

// Accounts reads and writes user records.
type Accounts interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Save(ctx context.Context, u *models.User) error
}

// AuthHandler handles authentication-related requests. Refresh tokens are
// stored so they can be rotated and revoked.
type AuthHandler struct {
	DB       *gorm.DB
	Cfg      *config.Config
	accounts Accounts
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, accounts Accounts) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg, accounts: accounts}
}

// RegisterRequest represents the request body for patient self-registration.
type RegisterRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phoneNumber"`
	Gender      string `json:"gender"`
}

// Register creates a patient account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user := models.User{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Gender:      req.Gender,
		Role:        models.RolePatient,
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password")
		return
	}
	if err := h.accounts.Create(c.Request.Context(), &user); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Created(c, "User registered successfully", user.Sanitize())
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	User         models.UserSanitized `json:"user"`
}

// Login checks credentials and issues a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.accounts.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			utils.Unauthorized(c, "Invalid email or password")
			return
		}
		utils.RespondError(c, err)
		return
	}
	if !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	access, refresh, ok := h.issueTokens(c, user)
	if !ok {
		return
	}
	utils.Success(c, "Login successful", LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user.Sanitize(),
	})
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshTokenResponse represents the response body for successful token refresh.
type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken rotates a refresh token: the presented one is revoked and a
// new pair is issued.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	presented, err := c.Cookie(refreshCookie)
	if err != nil || presented == "" {
		var req RefreshTokenRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}
		presented = req.RefreshToken
	}

	claims, err := utils.ValidateToken(presented, h.Cfg.JWTRefreshSecret)
	if err != nil {
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	ctx := c.Request.Context()
	var stored models.RefreshToken
	err = h.DB.WithContext(ctx).
		Where("token = ? AND user_id = ?", presented, claims.UserID).
		First(&stored).Error
	if err != nil || !stored.Usable(time.Now()) {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, err)
			return
		}
		utils.Unauthorized(c, "Refresh token not found, expired, or revoked")
		return
	}

	user, err := h.accounts.Get(ctx, claims.UserID)
	if err != nil {
		utils.Unauthorized(c, "Account no longer exists")
		return
	}

	revoked := h.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("id = ? AND is_revoked = ?", stored.ID, false).
		Update("is_revoked", true)
	if revoked.Error != nil {
		utils.RespondError(c, revoked.Error)
		return
	}
	if revoked.RowsAffected == 0 {
		utils.Unauthorized(c, "Refresh token already used")
		return
	}

	access, refresh, ok := h.issueTokens(c, user)
	if !ok {
		return
	}
	utils.Success(c, "Access token refreshed successfully", RefreshTokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// issueTokens signs a new pair, stores the refresh token and sets its cookie.
func (h *AuthHandler) issueTokens(c *gin.Context, user *models.User) (string, string, bool) {
	access, refresh, err := utils.GenerateTokens(user, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate tokens")
		return "", "", false
	}

	ttl := utils.RefreshTTL(h.Cfg)
	row := models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
		utils.RespondError(c, err)
		return "", "", false
	}

	c.SetCookie(refreshCookie, refresh, int(ttl.Seconds()), "/", "", h.Cfg.Environment != "development", true)
	return access, refresh, true
}

// LogoutRequest represents the request body for user logout.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout revokes the refresh token and clears its cookie. Unknown tokens
// are not an error.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(refreshCookie)
	if token == "" {
		var req LogoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid request payload: "+err.Error())
			return
		}
		token = req.RefreshToken
	}
	if token == "" {
		utils.BadRequest(c, "Refresh token is required")
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Model(&models.RefreshToken{}).
		Where("token = ? AND is_revoked = ?", token, false).
		Updates(map[string]any{"is_revoked": true, "expires_at": time.Now()}).Error
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.SetCookie(refreshCookie, "", -1, "/", "", h.Cfg.Environment != "development", true)
	utils.Success(c, "Logout successful. Refresh token has been invalidated.", nil)
}

// GetProfile returns the authenticated user's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	user, err := h.accounts.Get(c.Request.Context(), actor.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Profile fetched successfully", user.Sanitize())
}

// UpdateProfileRequest represents the request body for updating a profile.
// Email and role are not editable here.
type UpdateProfileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Gender      string `json:"gender" binding:"omitempty,oneof=male female other"`
	DateOfBirth string `json:"dateOfBirth"`
	Address     string `json:"address"`
}

// UpdateProfile changes the fields present in the request.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	user, err := h.accounts.Get(ctx, actor.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if req.FirstName != "" {
		user.FirstName = strings.TrimSpace(req.FirstName)
	}
	if req.LastName != "" {
		user.LastName = strings.TrimSpace(req.LastName)
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Gender != "" {
		user.Gender = req.Gender
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.DateOfBirth != "" {
		dob, ok := parseDay(req.DateOfBirth)
		if !ok {
			utils.BadRequest(c, "dateOfBirth must be YYYY-MM-DD")
			return
		}
		user.DateOfBirth = &dob
	}

	if err := h.accounts.Save(ctx, user); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Profile updated successfully", user.Sanitize())
}
