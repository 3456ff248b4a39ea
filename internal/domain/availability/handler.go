package availability

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc       *Service
	catalog   CatalogSource
	schedules ScheduleSource
	directory OpticianDirectory
}

func NewHandler(svc *Service, catalog CatalogSource, schedules ScheduleSource, directory OpticianDirectory) *Handler {
	return &Handler{svc: svc, catalog: catalog, schedules: schedules, directory: directory}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/availability", h.GetAvailability)
	api.POST("/availability", h.GetRangeAvailability)
	api.PATCH("/availability", h.CheckOptician)
}

// GetAvailability handles GET /availability?branchId=&serviceId=&date=[&opticianId=].
func (h *Handler) GetAvailability(c echo.Context) error {
	branchID, err := uuid.Parse(c.QueryParam("branchId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid branchId")
	}
	serviceID, err := uuid.Parse(c.QueryParam("serviceId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid serviceId")
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	q := SlotQuery{BranchID: branchID, ServiceID: serviceID, Date: date}
	if raw := c.QueryParam("opticianId"); raw != "" {
		oid, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid opticianId")
		}
		q.OpticianID = &oid
	}

	slots, err := h.svc.AvailableSlots(c.Request().Context(), q)
	if err != nil {
		return httpError(err)
	}

	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format(time.RFC3339))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"date":           date.Format("2006-01-02"),
		"availableSlots": out,
	})
}

type rangeRequest struct {
	BranchID   string `json:"branchId"`
	ServiceID  string `json:"serviceId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	OpticianID string `json:"opticianId"`
}

// GetRangeAvailability handles POST /availability: a per-day availability
// report over an inclusive date range, with service and optician details.
func (h *Handler) GetRangeAvailability(c echo.Context) error {
	var req rangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid branchId")
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid serviceId")
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid startDate, expected YYYY-MM-DD")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid endDate, expected YYYY-MM-DD")
	}
	if end.Before(start) {
		return echo.NewHTTPError(http.StatusBadRequest, "endDate cannot be before startDate")
	}

	var opticianID *uuid.UUID
	if req.OpticianID != "" {
		oid, err := uuid.Parse(req.OpticianID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid opticianId")
		}
		opticianID = &oid
	}

	ctx := c.Request().Context()
	report, err := h.svc.RangeReport(ctx, branchID, serviceID, start, end, opticianID)
	if err != nil {
		return httpError(err)
	}

	svc, err := h.catalog.ServiceByID(ctx, serviceID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := map[string]interface{}{
		"dateRange": map[string]string{
			"start": start.Format("2006-01-02"),
			"end":   end.Format("2006-01-02"),
		},
		"service":      svc,
		"availability": report,
	}

	if opticianID != nil {
		opt, err := h.directory.OpticianByID(ctx, *opticianID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if opt != nil {
			hours, err := h.schedules.WorkingHours(ctx, *opticianID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			_, endOfEnd := DayBounds(end)
			timeOff, err := h.schedules.TimeOffBetween(ctx, *opticianID, start, endOfEnd)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			resp["optician"] = map[string]interface{}{
				"id":           opt.ID,
				"name":         opt.Name,
				"workingHours": hours,
				"timeOff":      timeOff,
			}
		}
	}

	return c.JSON(http.StatusOK, resp)
}

type checkRequest struct {
	OpticianID string `json:"opticianId"`
	DateTime   string `json:"dateTime"`
}

// CheckOptician handles PATCH /availability: a single optician/date-time check.
func (h *Handler) CheckOptician(c echo.Context) error {
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	opticianID, err := uuid.Parse(req.OpticianID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid opticianId")
	}
	at, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid dateTime, expected RFC 3339")
	}

	avail, err := h.svc.Evaluator().Check(c.Request().Context(), opticianID, at)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, avail)
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

func httpError(err error) error {
	switch err {
	case ErrServiceNotFound, ErrBranchNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
