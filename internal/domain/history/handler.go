package history

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medirecord/medirecord/internal/domain/doctor"
	"github.com/medirecord/medirecord/internal/platform/auth"
)

// DoctorGetter supplies the author's display name for doctor-authored
// entries.
type DoctorGetter interface {
	Get(ctx context.Context, doctorID string) (*doctor.Doctor, error)
}

type Handler struct {
	svc     *Service
	doctors DoctorGetter
}

func NewHandler(svc *Service, doctors DoctorGetter) *Handler {
	return &Handler{svc: svc, doctors: doctors}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/history", h.ListHistory, auth.RequireRole("patient", "doctor"))
	api.POST("/patients/:id/history", h.AddEntry, auth.RequireRole("patient", "doctor"))
	api.GET("/patients/:id/files", h.ListFiles, auth.RequireRole("patient"))
}

func (h *Handler) ListHistory(c echo.Context) error {
	patientID := c.Param("id")
	if err := h.checkAccess(c, patientID); err != nil {
		return err
	}
	entries, err := h.svc.ListByPatient(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

type addEntryRequest struct {
	Date      string     `json:"date"`
	Notes     string     `json:"notes"`
	Documents []Document `json:"documents"`
}

func (h *Handler) AddEntry(c echo.Context) error {
	patientID := c.Param("id")
	var req addEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	var (
		entry *Entry
		err   error
	)
	switch auth.RoleFromContext(c) {
	case auth.RoleDoctor:
		doctorID := auth.UserIDFromContext(c)
		d, derr := h.doctors.Get(ctx, doctorID)
		if derr != nil {
			return echo.NewHTTPError(http.StatusForbidden, "unknown doctor")
		}
		entry, err = h.svc.AddDoctorEntry(ctx, patientID, doctorID, d.Name, req.Date, req.Notes, req.Documents)
	default:
		if !auth.IsSelfOrAdmin(c, patientID) {
			return echo.NewHTTPError(http.StatusForbidden, "not your record")
		}
		entry, err = h.svc.AddSelfEntry(ctx, patientID, req.Date, req.Notes, req.Documents)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrNotAuthorized):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, ErrUnknownPatient):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *Handler) ListFiles(c echo.Context) error {
	patientID := c.Param("id")
	if !auth.IsSelfOrAdmin(c, patientID) {
		return echo.NewHTTPError(http.StatusForbidden, "not your record")
	}
	files, err := h.svc.ListFiles(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if files == nil {
		files = []File{}
	}
	return c.JSON(http.StatusOK, files)
}

// checkAccess lets a patient read their own history and a doctor read the
// history of patients who granted access.
func (h *Handler) checkAccess(c echo.Context, patientID string) error {
	switch auth.RoleFromContext(c) {
	case auth.RoleDoctor:
		ok, err := h.svc.patients.IsAuthorized(c.Request().Context(), patientID, auth.UserIDFromContext(c))
		if err != nil || !ok {
			return echo.NewHTTPError(http.StatusForbidden, "patient has not granted access")
		}
	default:
		if !auth.IsSelfOrAdmin(c, patientID) {
			return echo.NewHTTPError(http.StatusForbidden, "not your record")
		}
	}
	return nil
}
