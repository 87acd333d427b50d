package handler

import (
	"context"  // provides context with cancellation for DB calls
	"log"      // best-effort logging for mail dispatch failures
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ekoseller/eko-seller-api/internal/config"
	"github.com/ekoseller/eko-seller-api/internal/model"
	"github.com/ekoseller/eko-seller-api/internal/repository"
	"github.com/ekoseller/eko-seller-api/internal/service"
	"github.com/ekoseller/eko-seller-api/internal/utils"
	"github.com/ekoseller/eko-seller-api/internal/validate"
)

// AuthHandler bundles dependencies for the identity and verification
// endpoints: registration, OTP verify/resend, login and profile
// updates.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
	OTPs  OTPStore
	Mail  service.Mailer
}

func NewAuthHandler(cfg config.Config, users UserStore, otps OTPStore, mail service.Mailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, OTPs: otps, Mail: mail}
}

// ----- DTOs -----

type registerReq struct {
	Name                string `json:"name" validate:"required"`
	Email               string `json:"email" validate:"required,email"`
	Password            string `json:"password" validate:"required,min=8"`
	Phone               string `json:"phone" validate:"required,ng_phone"`
	Role                string `json:"role" validate:"required,oneof=user admin seller"`
	MarketLocation      string `json:"marketLocation" validate:"required_if=Role seller"`
	Description         string `json:"description" validate:"required_if=Role seller"`
	LocalGovernmentArea string `json:"localGovernmentArea" validate:"required_if=Role seller,max=500"`
	State               string `json:"state" validate:"required"`
	Country             string `json:"country" validate:"required"`
}

type verifyOTPReq struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resendOTPReq struct {
	Email string `json:"email"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileReq struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	MarketLocation      string `json:"marketLocation"`
	Description         string `json:"description"`
	LocalGovernmentArea string `json:"localGovernmentArea"`
	State               string `json:"state"`
	Country             string `json:"country"`
}

// Register creates an Unverified user, issues a 6-digit code valid for
// 15 minutes and mails it. Duplicate email or phone is a conflict.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	code, expiry, err := utils.NewOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred during registration"})
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred during registration"})
	}

	user := &model.User{
		Name:                req.Name,
		Email:               req.Email,
		Password:            hash,
		Phone:               req.Phone,
		Role:                req.Role,
		MarketLocation:      req.MarketLocation,
		Description:         req.Description,
		LocalGovernmentArea: req.LocalGovernmentArea,
		State:               req.State,
		Country:             req.Country,
		IsVerified:          false,
		VerificationCode:    code,
		OTPExpiry:           &expiry,
	}
	if err := h.Users.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{
				"success": false,
				"message": "User with this email or phone number already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred during registration"})
	}

	// Audit copy of the issued code, keyed by email.
	if err := h.OTPs.Upsert(ctx, user.Email, code, expiry); err != nil {
		log.Printf("otp record upsert failed for %s: %v", user.Email, err)
	}
	// Mail dispatch failure does not fail the registration; the user
	// can request a resend.
	if err := h.Mail.SendOTP(user.Email, user.Name, code, false); err != nil {
		log.Printf("failed to send verification email to %s: %v", user.Email, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully. Please verify email with the OTP sent",
		"userId":  user.ID.Hex(),
	})
}

// VerifyOTP transitions a user from Unverified to Verified when the
// exact, unexpired code is presented, then clears the code so it can
// never be replayed.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPReq
	if err := c.Bind(&req); err != nil || req.Email == "" || req.OTP == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Email and OTP are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred during OTP verification"})
	}
	if user.VerificationCode == "" || user.VerificationCode != req.OTP {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid OTP"})
	}
	// A code submitted at or past its expiry instant is rejected.
	if user.OTPExpiry == nil || !time.Now().Before(*user.OTPExpiry) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "OTP has expired. Please request a new one"})
	}

	if err := h.Users.MarkVerified(ctx, user.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred during OTP verification"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User verified successfully"})
}

// ResendOTP overwrites the stored code with a fresh one and re-mails
// it. Only the latest code ever verifies. The route is rate limited
// per source IP by middleware.
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req resendOTPReq
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Email is required"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(struct {
		Email string `validate:"required,email"`
	}{req.Email}); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid email format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred while resending OTP"})
	}
	if user.IsVerified {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "User already verified"})
	}

	code, expiry, err := utils.NewOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred while resending OTP"})
	}
	if err := h.Users.SetOTP(ctx, user.ID, code, expiry); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred while resending OTP"})
	}
	if err := h.OTPs.Upsert(ctx, user.Email, code, expiry); err != nil {
		log.Printf("otp record upsert failed for %s: %v", user.Email, err)
	}
	if err := h.Mail.SendOTP(user.Email, user.Name, code, true); err != nil {
		log.Printf("failed to resend verification email to %s: %v", user.Email, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "New OTP has been sent to your email"})
}

// Login authenticates a Verified user and issues a 24-hour session
// token carrying the user's id, email and role.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred during login"})
	}
	if !user.IsVerified {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Please verify your email before logging in"})
	}
	if !utils.VerifyPassword(user.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Invalid email or password"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred during login"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"userId":  user.ID.Hex(),
		"token":   tok.Token,
	})
}

// UpdateProfile merges non-empty profile fields into the caller's own
// user document. The identity comes from the session token, not from
// the path parameter.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Authentication required"})
	}
	id, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Authentication required"})
	}

	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if req.Phone != "" && !validate.Phone(req.Phone) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid phone number format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.UpdateProfile(ctx, id, repository.ProfileUpdate{
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		MarketLocation:      req.MarketLocation,
		Description:         req.Description,
		LocalGovernmentArea: req.LocalGovernmentArea,
		State:               req.State,
		Country:             req.Country,
	})
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "User not found"})
		case repository.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "Email or phone already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred while updating profile"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}
