package booking

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/fredtinotenda3/LinkOpticians/internal/platform/notification"
)

// BranchContact is what SMS messages need from a branch.
type BranchContact struct {
	Name  string
	Phone string
}

// BranchContacts resolves branch contact details for outgoing messages.
// Implementations return (nil, nil) when the id does not exist.
type BranchContacts interface {
	ContactByID(ctx context.Context, id uuid.UUID) (*BranchContact, error)
}

type Handler struct {
	svc      *Service
	notifier *notification.Notifier
	branches BranchContacts
}

func NewHandler(svc *Service, notifier *notification.Notifier, branches BranchContacts) *Handler {
	return &Handler{svc: svc, notifier: notifier, branches: branches}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/appointments", h.List)
	api.POST("/appointments", h.Create)
	api.GET("/appointments/:id", h.Get)
	api.PATCH("/appointments/:id", h.Update)
	api.DELETE("/appointments/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &a); err != nil {
		return bookingError(err)
	}
	h.notify(c.Request().Context(), "appointment-confirmed", &a)
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) List(c echo.Context) error {
	start := c.QueryParam("startDate")
	end := c.QueryParam("endDate")
	if start == "" || end == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "startDate and endDate are required")
	}
	from, err := time.ParseInLocation("2006-01-02", start, time.Local)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid startDate")
	}
	to, err := time.ParseInLocation("2006-01-02", end, time.Local)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid endDate")
	}

	f := Filter{
		From: from,
		To:   to.Add(24*time.Hour - time.Nanosecond),
	}
	if v := c.QueryParam("branchId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid branchId")
		}
		f.BranchID = &id
	}
	if v := c.QueryParam("opticianId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid opticianId")
		}
		f.OpticianID = &id
	}
	if v := c.QueryParam("status"); v != "" {
		f.Statuses = []string{v}
	}

	items, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return bookingError(err)
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return bookingError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Patch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, statusChanged, err := h.svc.Update(c.Request().Context(), id, p)
	if err != nil {
		return bookingError(err)
	}
	if statusChanged {
		h.notify(c.Request().Context(), "appointment-status", a)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return bookingError(err)
	}
	h.notify(c.Request().Context(), "appointment-cancelled", a)
	return c.NoContent(http.StatusNoContent)
}

// notify sends the templated SMS for an appointment event. Failures are
// logged and never surfaced: the booking already committed.
func (h *Handler) notify(ctx context.Context, templateID string, a *Appointment) {
	if h.notifier == nil {
		return
	}
	data := map[string]string{
		"patient_name": a.PatientName,
		"date":         a.ScheduledAt.Format("Monday, 2 January 2006"),
		"time":         a.ScheduledAt.Format("15:04"),
		"status":       a.Status,
	}
	if h.branches != nil {
		if b, err := h.branches.ContactByID(ctx, a.BranchID); err == nil && b != nil {
			data["branch"] = b.Name
			data["branch_phone"] = b.Phone
		}
	}
	if _, err := h.notifier.SendFromTemplate(ctx, templateID, data, a.PatientPhone); err != nil {
		log.Warn().Err(err).
			Str("appointment_id", a.ID.String()).
			Str("template", templateID).
			Msg("sms notification failed")
	}
}

func bookingError(err error) error {
	var unavailable *OpticianUnavailableError
	var invalid *ValidationError
	switch {
	case errors.As(err, &invalid):
		return echo.NewHTTPError(http.StatusBadRequest, invalid.Error())
	case errors.Is(err, ErrSlotTaken):
		return echo.NewHTTPError(http.StatusConflict, ErrSlotTaken.Error())
	case errors.As(err, &unavailable):
		return echo.NewHTTPError(http.StatusConflict, unavailable.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
