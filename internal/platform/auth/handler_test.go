package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type mockResolver struct{}

func (mockResolver) ResolvePhone(_ context.Context, identityID string) (string, error) {
	if len(identityID) != 12 {
		return "", ErrMalformedOTP // any error surfaces as 400
	}
	return "9876543210", nil
}

type mockAccounts struct{}

func (mockAccounts) FindPatientByIdentity(_ context.Context, identityID string) (string, interface{}, error) {
	if identityID == "123456789012" {
		return "PAT103245", map[string]string{"patient_id": "PAT103245"}, nil
	}
	return "", nil, ErrNoAccount
}

func (mockAccounts) FindDoctorByIdentity(_ context.Context, identityID string) (string, interface{}, error) {
	if identityID == "345678901234" {
		return "DOC987654", map[string]string{"doctor_id": "DOC987654"}, nil
	}
	return "", nil, ErrNoAccount
}

func newTestLoginHandler() *LoginHandler {
	otp := NewOTPService(5*time.Minute, testLogger())
	sm := NewSessionManager("test-secret", time.Hour)
	return NewLoginHandler(otp, sm, mockResolver{}, mockAccounts{}, "999900001111", true)
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequestOTP_DevModeIncludesCode(t *testing.T) {
	h := newTestLoginHandler()
	e := echo.New()
	c, rec := postJSON(e, "/auth/otp/request", `{"identity_id":"123456789012"}`)

	if err := h.RequestOTP(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp otpRequestResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.OTP) != 6 {
		t.Errorf("dev mode should include a 6-digit otp, got %q", resp.OTP)
	}
	if resp.PhoneMasked != "XXXXXXXX10" {
		t.Errorf("unexpected masked phone %q", resp.PhoneMasked)
	}
}

func TestVerifyOTP_PatientLogin(t *testing.T) {
	h := newTestLoginHandler()
	e := echo.New()
	c, rec := postJSON(e, "/auth/otp/verify",
		`{"identity_id":"123456789012","otp":"123456","role":"patient"}`)

	if err := h.VerifyOTP(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp otpVerifyResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Token == "" || resp.Role != RolePatient {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestVerifyOTP_UnregisteredIdentity(t *testing.T) {
	h := newTestLoginHandler()
	e := echo.New()
	c, _ := postJSON(e, "/auth/otp/verify",
		`{"identity_id":"555566667777","otp":"123456","role":"patient"}`)

	err := h.VerifyOTP(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unregistered identity, got %v", err)
	}
}

func TestVerifyOTP_AdminRequiresConfiguredIdentity(t *testing.T) {
	h := newTestLoginHandler()
	e := echo.New()

	c, rec := postJSON(e, "/auth/otp/verify",
		`{"identity_id":"999900001111","otp":"654321","role":"admin"}`)
	if err := h.VerifyOTP(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp otpVerifyResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Role != RoleAdmin {
		t.Errorf("expected admin session, got %+v", resp)
	}

	c, _ = postJSON(e, "/auth/otp/verify",
		`{"identity_id":"123456789012","otp":"654321","role":"admin"}`)
	err := h.VerifyOTP(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin identity, got %v", err)
	}
}

func TestVerifyOTP_MalformedCode(t *testing.T) {
	h := newTestLoginHandler()
	e := echo.New()
	c, _ := postJSON(e, "/auth/otp/verify",
		`{"identity_id":"123456789012","otp":"12","role":"patient"}`)

	err := h.VerifyOTP(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed otp, got %v", err)
	}
}
