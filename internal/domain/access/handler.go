package access

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medirecord/medirecord/internal/domain/patient"
	"github.com/medirecord/medirecord/internal/platform/auth"
)

// PatientFinder resolves the target patient when the doctor enters the
// patient's identity number instead of a patient ID, and lists the patients
// who have authorized a doctor.
type PatientFinder interface {
	GetByIdentity(ctx context.Context, identityID string) (*patient.Patient, error)
	ListAuthorizing(ctx context.Context, doctorID string) ([]*patient.Patient, error)
}

type Handler struct {
	svc      *Service
	patients PatientFinder
}

func NewHandler(svc *Service, patients PatientFinder) *Handler {
	return &Handler{svc: svc, patients: patients}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/access-requests", h.CreateRequest, auth.RequireRole("doctor"))
	api.POST("/access-requests/:id/approve", h.ApproveRequest, auth.RequireRole("patient"))
	api.POST("/access-requests/:id/reject", h.RejectRequest, auth.RequireRole("patient"))
	api.GET("/patients/:id/access-requests", h.ListPendingForPatient, auth.RequireRole("patient"))
	api.GET("/doctors/:id/access-requests", h.ListForDoctor, auth.RequireRole("doctor"))
	api.GET("/doctors/:id/patients", h.ListAuthorizingPatients, auth.RequireRole("doctor"))
}

type createRequest struct {
	PatientID string `json:"patient_id"`
	// IdentityID lets the doctor address a patient by their 12-digit
	// identity number, the way the portal's request form works.
	IdentityID string `json:"identity_id"`
}

func (h *Handler) CreateRequest(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()

	patientID := req.PatientID
	if patientID == "" && req.IdentityID != "" {
		p, err := h.patients.GetByIdentity(ctx, req.IdentityID)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "no patient registered for that identity")
		}
		patientID = p.PatientID
	}
	if patientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id or identity_id is required")
	}

	created, err := h.svc.CreateRequest(ctx, auth.UserIDFromContext(c), patientID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyAuthorized), errors.Is(err, ErrDuplicatePending):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, patient.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) ApproveRequest(c echo.Context) error {
	return h.respond(c, true)
}

func (h *Handler) RejectRequest(c echo.Context) error {
	return h.respond(c, false)
}

func (h *Handler) respond(c echo.Context, approve bool) error {
	ctx := c.Request().Context()
	requestID := c.Param("id")

	req, err := h.svc.GetRequest(ctx, requestID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "request not found")
	}
	if !auth.IsSelfOrAdmin(c, req.PatientID) {
		return echo.NewHTTPError(http.StatusForbidden, "not your request")
	}

	var decided *Request
	if approve {
		decided, err = h.svc.Approve(ctx, requestID)
	} else {
		decided, err = h.svc.Reject(ctx, requestID)
	}
	if err != nil {
		if errors.Is(err, ErrRequestClosed) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, decided)
}

func (h *Handler) ListPendingForPatient(c echo.Context) error {
	patientID := c.Param("id")
	if !auth.IsSelfOrAdmin(c, patientID) {
		return echo.NewHTTPError(http.StatusForbidden, "not your record")
	}
	reqs, err := h.svc.ListPending(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if reqs == nil {
		reqs = []*Request{}
	}
	return c.JSON(http.StatusOK, reqs)
}

func (h *Handler) ListForDoctor(c echo.Context) error {
	doctorID := c.Param("id")
	if !auth.IsSelfOrAdmin(c, doctorID) {
		return echo.NewHTTPError(http.StatusForbidden, "not your record")
	}
	reqs, err := h.svc.ListByDoctor(c.Request().Context(), doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if reqs == nil {
		reqs = []*Request{}
	}
	return c.JSON(http.StatusOK, reqs)
}

func (h *Handler) ListAuthorizingPatients(c echo.Context) error {
	doctorID := c.Param("id")
	if !auth.IsSelfOrAdmin(c, doctorID) {
		return echo.NewHTTPError(http.StatusForbidden, "not your record")
	}
	patients, err := h.patients.ListAuthorizing(c.Request().Context(), doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if patients == nil {
		patients = []*patient.Patient{}
	}
	return c.JSON(http.StatusOK, patients)
}
