package doctor

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medirecord/medirecord/internal/platform/auth"
	"github.com/medirecord/medirecord/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts registration on the public group and profile/listing
// endpoints on the authenticated group.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/doctors", h.RegisterDoctor)

	api.GET("/doctors/:id", h.GetDoctor, auth.RequireRole("doctor", "patient"))
	api.GET("/doctors", h.ListDoctors, auth.RequireRole("admin"))
}

type registerRequest struct {
	IdentityID          string `json:"identity_id"`
	Specialization      string `json:"specialization"`
	HospitalAffiliation string `json:"hospital_affiliation"`
}

func (h *Handler) RegisterDoctor(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.Register(c.Request().Context(), req.IdentityID, req.Specialization, req.HospitalAffiliation)
	if err != nil {
		if errors.Is(err, ErrIdentityTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	d, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
