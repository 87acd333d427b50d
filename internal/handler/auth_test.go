package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekoseller/eko-seller-api/internal/config"
	"github.com/ekoseller/eko-seller-api/internal/model"
	"github.com/ekoseller/eko-seller-api/internal/utils"
)

func newAuthFixture() (*AuthHandler, *fakeUserStore, *fakeOTPStore, *fakeMailer) {
	users := newFakeUserStore()
	otps := newFakeOTPStore()
	mail := &fakeMailer{}
	cfg := config.Config{JWTSecret: "test-secret", BcryptCost: 4}
	return NewAuthHandler(cfg, users, otps, mail), users, otps, mail
}

func postJSON(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func getReq(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const registerBody = `{
	"name": "Ada",
	"email": "ada@example.com",
	"password": "correct-horse",
	"phone": "08012345678",
	"role": "user",
	"state": "Lagos",
	"country": "Nigeria"
}`

func TestRegisterVerifyLoginFlow(t *testing.T) {
	h, users, otps, mail := newAuthFixture()
	e := echo.New()

	c, rec := postJSON(e, registerBody)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	user, err := users.FindByEmail(c.Request().Context(), "ada@example.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	require.Len(t, user.VerificationCode, utils.OTPLength)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, user.VerificationCode, mail.sent[0])
	// Audit record carries the same code.
	assert.Equal(t, user.VerificationCode, otps.records["ada@example.com"].OTP)

	// Login before verification is rejected.
	c, rec = postJSON(e, `{"email":"ada@example.com","password":"correct-horse"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = postJSON(e, `{"email":"ada@example.com","otp":"`+user.VerificationCode+`"}`)
	require.NoError(t, h.VerifyOTP(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = postJSON(e, `{"email":"ada@example.com","password":"correct-horse"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"token":"`)

	// The issued token carries the user's identity claims.
	tokenStart := strings.Index(body, `"token":"`) + len(`"token":"`)
	token := body[tokenStart : tokenStart+strings.Index(body[tokenStart:], `"`)]
	claims, err := utils.ParseSessionToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	h, _, _, _ := newAuthFixture()
	e := echo.New()

	c, rec := postJSON(e, registerBody)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = postJSON(e, registerBody)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestRegisterSellerRequiresMarketFields(t *testing.T) {
	h, _, _, _ := newAuthFixture()
	e := echo.New()

	body := strings.Replace(registerBody, `"role": "user"`, `"role": "seller"`, 1)
	c, rec := postJSON(e, body)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterRejectsBadPhone(t *testing.T) {
	h, _, _, _ := newAuthFixture()
	e := echo.New()

	body := strings.Replace(registerBody, "08012345678", "12345", 1)
	c, rec := postJSON(e, body)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "phone")
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	h, users, _, mail := newAuthFixture()
	mail.fail = true
	e := echo.New()

	c, rec := postJSON(e, registerBody)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	_, err := users.FindByEmail(c.Request().Context(), "ada@example.com")
	assert.NoError(t, err)
}

func TestVerifyOTPWrongAndReplayedCodes(t *testing.T) {
	h, users, _, _ := newAuthFixture()
	e := echo.New()

	c, _ := postJSON(e, registerBody)
	require.NoError(t, h.Register(c))
	user, _ := users.FindByEmail(c.Request().Context(), "ada@example.com")
	code := user.VerificationCode

	// Wrong code.
	c, rec := postJSON(e, `{"email":"ada@example.com","otp":"000000"}`)
	require.NoError(t, h.VerifyOTP(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid OTP")

	// Correct code verifies once.
	c, rec = postJSON(e, `{"email":"ada@example.com","otp":"`+code+`"}`)
	require.NoError(t, h.VerifyOTP(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Replaying the consumed code fails.
	c, rec = postJSON(e, `{"email":"ada@example.com","otp":"`+code+`"}`)
	require.NoError(t, h.VerifyOTP(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyOTPExpired(t *testing.T) {
	h, users, _, _ := newAuthFixture()
	e := echo.New()

	c, _ := postJSON(e, registerBody)
	require.NoError(t, h.Register(c))
	user, _ := users.FindByEmail(c.Request().Context(), "ada@example.com")

	// Force the stored code past its expiry instant.
	past := time.Now().Add(-time.Minute)
	require.NoError(t, users.SetOTP(c.Request().Context(), user.ID, user.VerificationCode, past))

	c, rec := postJSON(e, `{"email":"ada@example.com","otp":"`+user.VerificationCode+`"}`)
	require.NoError(t, h.VerifyOTP(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestVerifyOTPUnknownUser(t *testing.T) {
	h, _, _, _ := newAuthFixture()
	e := echo.New()

	c, rec := postJSON(e, `{"email":"ghost@example.com","otp":"123456"}`)
	require.NoError(t, h.VerifyOTP(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResendOTPInvalidatesPriorCode(t *testing.T) {
	h, users, _, mail := newAuthFixture()
	e := echo.New()

	c, _ := postJSON(e, registerBody)
	require.NoError(t, h.Register(c))
	user, _ := users.FindByEmail(c.Request().Context(), "ada@example.com")
	first := user.VerificationCode

	c, rec := postJSON(e, `{"email":"ada@example.com"}`)
	require.NoError(t, h.ResendOTP(c))
	require.Equal(t, http.StatusOK, rec.Code)

	user, _ = users.FindByEmail(c.Request().Context(), "ada@example.com")
	second := user.VerificationCode
	require.Len(t, mail.sent, 2)
	assert.Equal(t, second, mail.sent[1])

	if first == second {
		t.Skip("regenerated code collided with the original")
	}

	// Only the latest code verifies.
	c, rec = postJSON(e, `{"email":"ada@example.com","otp":"`+first+`"}`)
	require.NoError(t, h.VerifyOTP(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = postJSON(e, `{"email":"ada@example.com","otp":"`+second+`"}`)
	require.NoError(t, h.VerifyOTP(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResendOTPUnknownAndVerifiedUsers(t *testing.T) {
	h, users, _, _ := newAuthFixture()
	e := echo.New()

	c, rec := postJSON(e, `{"email":"ghost@example.com"}`)
	require.NoError(t, h.ResendOTP(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, _ = postJSON(e, registerBody)
	require.NoError(t, h.Register(c))
	user, _ := users.FindByEmail(c.Request().Context(), "ada@example.com")
	require.NoError(t, users.MarkVerified(c.Request().Context(), user.ID))

	c, rec = postJSON(e, `{"email":"ada@example.com"}`)
	require.NoError(t, h.ResendOTP(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already verified")
}

func TestLoginWrongPassword(t *testing.T) {
	h, users, _, _ := newAuthFixture()
	e := echo.New()

	c, _ := postJSON(e, registerBody)
	require.NoError(t, h.Register(c))
	user, _ := users.FindByEmail(c.Request().Context(), "ada@example.com")
	require.NoError(t, users.MarkVerified(c.Request().Context(), user.ID))

	c, rec := postJSON(e, `{"email":"ada@example.com","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// The unknown-user and wrong-password messages are identical.
	c2, rec2 := postJSON(e, `{"email":"ghost@example.com","password":"wrong"}`)
	require.NoError(t, h.Login(c2))
	assert.Equal(t, rec.Body.String(), rec2.Body.String())
}

func TestUpdateProfileMergesFields(t *testing.T) {
	h, users, _, _ := newAuthFixture()
	e := echo.New()

	c, _ := postJSON(e, registerBody)
	require.NoError(t, h.Register(c))
	user, _ := users.FindByEmail(c.Request().Context(), "ada@example.com")

	c, rec := postJSON(e, `{"name":"Ada L.","state":"Abuja"}`)
	c.Set("user_id", user.ID.Hex())
	require.NoError(t, h.UpdateProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	updated, _ := users.FindByID(c.Request().Context(), user.ID)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, "Abuja", updated.State)
	assert.Equal(t, "ada@example.com", updated.Email) // untouched
}

func TestUpdateProfileRejectsBadPhone(t *testing.T) {
	h, users, _, _ := newAuthFixture()
	e := echo.New()

	c, _ := postJSON(e, registerBody)
	require.NoError(t, h.Register(c))
	user, _ := users.FindByEmail(c.Request().Context(), "ada@example.com")

	c, rec := postJSON(e, `{"phone":"555"}`)
	c.Set("user_id", user.ID.Hex())
	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
