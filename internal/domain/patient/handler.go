package patient

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medirecord/medirecord/internal/domain/doctor"
	"github.com/medirecord/medirecord/internal/platform/auth"
	"github.com/medirecord/medirecord/pkg/pagination"
)

// DoctorGetter resolves authorized doctor IDs to full profiles for the
// patient's "my doctors" view.
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

func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/patients", h.RegisterPatient)

	api.GET("/patients/:id", h.GetPatient, auth.RequireRole("patient", "doctor"))
	api.GET("/patients/:id/doctors", h.ListAuthorizedDoctors, auth.RequireRole("patient"))
	api.DELETE("/patients/:id/doctors/:doctorId", h.RevokeDoctor, auth.RequireRole("patient"))
	api.GET("/patients", h.ListPatients, auth.RequireRole("admin"))
}

type registerRequest struct {
	IdentityID string `json:"identity_id"`
}

func (h *Handler) RegisterPatient(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Register(c.Request().Context(), req.IdentityID)
	if err != nil {
		if errors.Is(err, ErrIdentityTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	patientID := c.Param("id")
	p, err := h.svc.Get(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	// Patients see their own record; doctors only patients who authorized
	// them.
	if auth.RoleFromContext(c) == auth.RoleDoctor {
		if !p.Authorized(auth.UserIDFromContext(c)) {
			return echo.NewHTTPError(http.StatusForbidden, "patient has not granted access")
		}
	} else if !auth.IsSelfOrAdmin(c, patientID) {
		return echo.NewHTTPError(http.StatusForbidden, "not your record")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListAuthorizedDoctors(c echo.Context) error {
	patientID := c.Param("id")
	if !auth.IsSelfOrAdmin(c, patientID) {
		return echo.NewHTTPError(http.StatusForbidden, "not your record")
	}
	p, err := h.svc.Get(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	out := make([]*doctor.Doctor, 0, len(p.AuthorizedDoctorIDs))
	for _, id := range p.AuthorizedDoctorIDs {
		d, err := h.doctors.Get(c.Request().Context(), id)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) RevokeDoctor(c echo.Context) error {
	patientID := c.Param("id")
	if !auth.IsSelfOrAdmin(c, patientID) {
		return echo.NewHTTPError(http.StatusForbidden, "not your record")
	}
	if err := h.svc.RevokeDoctor(c.Request().Context(), patientID, c.Param("doctorId")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
