package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrNoAccount is returned by directory lookups when the identity has no
// profile for the requested role. The UI prompts registration in that case.
var ErrNoAccount = errors.New("no account for identity")

// IdentityResolver validates an identity number and returns the phone the
// OTP would be "sent" to. Wired to the identity service in main.
type IdentityResolver interface {
	ResolvePhone(ctx context.Context, identityID string) (string, error)
}

// AccountDirectory resolves an identity to the role-specific account record.
// Wired to the patient and doctor services in main.
type AccountDirectory interface {
	FindPatientByIdentity(ctx context.Context, identityID string) (userID string, record interface{}, err error)
	FindDoctorByIdentity(ctx context.Context, identityID string) (userID string, record interface{}, err error)
}

// LoginHandler exposes the two-step OTP login. Step one "sends" a code for a
// valid identity number; step two accepts any well-formed code and issues a
// session token for the resolved account.
type LoginHandler struct {
	otp      *OTPService
	sessions *SessionManager
	ids      IdentityResolver
	accounts AccountDirectory
	adminID  string
	devMode  bool
}

func NewLoginHandler(otp *OTPService, sessions *SessionManager, ids IdentityResolver, accounts AccountDirectory, adminIdentityID string, devMode bool) *LoginHandler {
	return &LoginHandler{
		otp:      otp,
		sessions: sessions,
		ids:      ids,
		accounts: accounts,
		adminID:  adminIdentityID,
		devMode:  devMode,
	}
}

func (h *LoginHandler) RegisterRoutes(public *echo.Group) {
	public.POST("/auth/otp/request", h.RequestOTP)
	public.POST("/auth/otp/verify", h.VerifyOTP)
}

type otpRequest struct {
	IdentityID string `json:"identity_id"`
}

type otpRequestResponse struct {
	IdentityID  string `json:"identity_id"`
	PhoneMasked string `json:"phone_masked"`
	// OTP is included in development mode only; there is no delivery channel.
	OTP string `json:"otp,omitempty"`
}

func (h *LoginHandler) RequestOTP(c echo.Context) error {
	var req otpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	phone, err := h.ids.ResolvePhone(c.Request().Context(), req.IdentityID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	code := h.otp.Issue(req.IdentityID)

	resp := otpRequestResponse{IdentityID: req.IdentityID, PhoneMasked: maskPhone(phone)}
	if h.devMode {
		resp.OTP = code
	}
	return c.JSON(http.StatusOK, resp)
}

type otpVerifyRequest struct {
	IdentityID string `json:"identity_id"`
	OTP        string `json:"otp"`
	Role       string `json:"role"`
}

type otpVerifyResponse struct {
	Token string      `json:"token"`
	Role  string      `json:"role"`
	User  interface{} `json:"user"`
}

func (h *LoginHandler) VerifyOTP(c echo.Context) error {
	var req otpVerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.otp.Verify(req.IdentityID, req.OTP); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	var (
		userID string
		record interface{}
		err    error
	)
	switch req.Role {
	case RolePatient:
		userID, record, err = h.accounts.FindPatientByIdentity(ctx, req.IdentityID)
	case RoleDoctor:
		userID, record, err = h.accounts.FindDoctorByIdentity(ctx, req.IdentityID)
	case RoleAdmin:
		if h.adminID == "" || req.IdentityID != h.adminID {
			return echo.NewHTTPError(http.StatusForbidden, "not an admin identity")
		}
		userID = req.IdentityID
		record = map[string]string{"identity_id": req.IdentityID}
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "role must be patient, doctor, or admin")
	}
	if err != nil {
		if errors.Is(err, ErrNoAccount) {
			return echo.NewHTTPError(http.StatusNotFound, "identity is not registered for this role")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.sessions.Issue(req.Role, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue session")
	}
	return c.JSON(http.StatusOK, otpVerifyResponse{Token: token, Role: req.Role, User: record})
}

// maskPhone keeps the last two digits visible, matching the portal's OTP
// prompt.
func maskPhone(phone string) string {
	if len(phone) <= 2 {
		return phone
	}
	masked := make([]byte, len(phone))
	for i := range masked {
		masked[i] = 'X'
	}
	copy(masked[len(masked)-2:], phone[len(phone)-2:])
	return string(masked)
}
