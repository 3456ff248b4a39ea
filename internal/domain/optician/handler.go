package optician

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fredtinotenda3/LinkOpticians/pkg/pagination"
)

type Handler struct {
	svc    *Service
	porter *Porter
}

func NewHandler(svc *Service, porter *Porter) *Handler {
	return &Handler{svc: svc, porter: porter}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/opticians", h.List)
	api.GET("/opticians/export", h.Export)
	api.POST("/opticians/import", h.Import)
	api.POST("/opticians/bulk", h.Bulk)
	api.GET("/opticians/:id", h.Get)
	api.POST("/opticians", h.Create)
	api.PUT("/opticians/:id", h.Update)
	api.DELETE("/opticians/:id", h.Delete)

	api.GET("/opticians/:id/working-hours", h.ListWorkingHours)
	api.POST("/opticians/:id/working-hours", h.CreateWorkingHours)
	api.PUT("/opticians/:id/working-hours", h.ReplaceWorkingHours)
	api.PATCH("/opticians/:id/working-hours", h.UpdateWorkingHours)
	api.DELETE("/opticians/:id/working-hours", h.DeleteWorkingHours)

	api.GET("/opticians/:id/time-off", h.ListTimeOff)
	api.POST("/opticians/:id/time-off", h.CreateTimeOff)
	api.PUT("/time-off/:id", h.UpdateTimeOff)
	api.DELETE("/time-off/:id", h.DeleteTimeOff)

	api.POST("/bulk/working-hours", h.BulkWorkingHours)
	api.POST("/bulk/time-off", h.BulkTimeOff)
}

// timeOffError maps the time-off validation errors onto status codes and the
// detail payloads admin screens consume.
func timeOffError(c echo.Context, err error) error {
	var overlap *OverlappingTimeOffError
	if errors.As(err, &overlap) {
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"error": err.Error(),
			"overlappingPeriod": map[string]interface{}{
				"id":        overlap.Existing.ID,
				"startDate": overlap.Existing.StartDate,
				"endDate":   overlap.Existing.EndDate,
				"reason":    overlap.Existing.Reason,
			},
		})
	}
	var conflicts *ConflictingAppointmentsError
	if errors.As(err, &conflicts) {
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"error":                   err.Error(),
			"conflictingAppointments": conflicts.Appointments,
		})
	}
	if errors.Is(err, ErrEndBeforeStart) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// -- Optician Handlers --

func (h *Handler) List(c echo.Context) error {
	f := Filter{ActiveOnly: c.QueryParam("all") != "true"}
	if raw := c.QueryParam("branchId"); raw != "" {
		bid, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid branchId")
		}
		f.BranchID = &bid
	}
	items, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	params := pagination.FromContext(c)
	total := len(items)
	page := items
	if params.Offset >= total {
		page = []*Optician{}
	} else {
		end := params.Offset + params.Limit
		if end > total {
			end = total
		}
		page = items[params.Offset:end]
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(page, total, params.Limit, params.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	o, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if o == nil {
		return echo.NewHTTPError(http.StatusNotFound, "optician not found")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) Create(c echo.Context) error {
	var o Optician
	if err := c.Bind(&o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o.IsActive = true
	if err := h.svc.Create(c.Request().Context(), &o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var o Optician
	if err := c.Bind(&o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o.ID = id
	if err := h.svc.Update(c.Request().Context(), &o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Working Hours Handlers --

func (h *Handler) ListWorkingHours(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListWorkingHours(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateWorkingHours(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var wh WorkingHours
	if err := c.Bind(&wh); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	wh.OpticianID = id
	if err := h.svc.CreateWorkingHours(c.Request().Context(), &wh); err != nil {
		if errors.Is(err, ErrDuplicateDay) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, wh)
}

func (h *Handler) ReplaceWorkingHours(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var entries []*WorkingHours
	if err := c.Bind(&entries); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ReplaceWorkingHours(c.Request().Context(), id, entries); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) UpdateWorkingHours(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var wh WorkingHours
	if err := c.Bind(&wh); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	wh.OpticianID = id
	if err := h.svc.UpdateWorkingHours(c.Request().Context(), &wh); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "working hours not found for this day")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, wh)
}

func (h *Handler) DeleteWorkingHours(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var day *int
	if raw := c.QueryParam("day"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid day")
		}
		day = &d
	}
	deleted, err := h.svc.DeleteWorkingHours(c.Request().Context(), id, day)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}

// -- Time Off Handlers --

type timeOffRequest struct {
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Reason    *string `json:"reason"`
	IsAllDay  bool    `json:"isAllDay"`
}

func (r *timeOffRequest) window() (start, end time.Time, err error) {
	start, err = time.Parse(time.RFC3339, r.StartDate)
	if err == nil {
		end, err = time.Parse(time.RFC3339, r.EndDate)
	}
	return start, end, err
}

func (h *Handler) ListTimeOff(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListTimeOff(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateTimeOff(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req timeOffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	start, end, err := req.window()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid startDate or endDate, expected RFC 3339")
	}

	to := &TimeOff{
		OpticianID: id,
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
		IsAllDay:   req.IsAllDay,
	}
	if err := h.svc.CreateTimeOff(c.Request().Context(), to); err != nil {
		return timeOffError(c, err)
	}
	return c.JSON(http.StatusCreated, to)
}

func (h *Handler) UpdateTimeOff(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req timeOffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	start, end, err := req.window()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid startDate or endDate, expected RFC 3339")
	}

	to := &TimeOff{
		ID:        id,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		IsAllDay:  req.IsAllDay,
	}
	if err := h.svc.UpdateTimeOff(c.Request().Context(), to); err != nil {
		return timeOffError(c, err)
	}
	return c.JSON(http.StatusOK, to)
}

func (h *Handler) DeleteTimeOff(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteTimeOff(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Bulk Handlers --

type bulkRequest struct {
	Action    string      `json:"action"`
	Opticians []*Optician `json:"opticians"`
	IDs       []uuid.UUID `json:"ids"`
	Active    *bool       `json:"active"`
}

// Bulk handles POST /opticians/bulk with action create, update, or status.
func (h *Handler) Bulk(c echo.Context) error {
	var req bulkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	var result *BulkResult
	switch req.Action {
	case "create":
		for _, o := range req.Opticians {
			o.IsActive = true
		}
		result = h.svc.BulkCreate(ctx, req.Opticians)
	case "update":
		result = h.svc.BulkUpdate(ctx, req.Opticians)
	case "status":
		if req.Active == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "active is required for status action")
		}
		result = h.svc.BulkSetActive(ctx, req.IDs, *req.Active)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "action must be create, update, or status")
	}
	return c.JSON(http.StatusOK, result)
}

type bulkWorkingHoursRequest struct {
	OpticianIDs  []uuid.UUID     `json:"opticianIds"`
	WorkingHours []*WorkingHours `json:"workingHours"`
}

func (h *Handler) BulkWorkingHours(c echo.Context) error {
	var req bulkWorkingHoursRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.OpticianIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "opticianIds is required")
	}
	result := h.svc.BulkReplaceWorkingHours(c.Request().Context(), req.OpticianIDs, req.WorkingHours)
	return c.JSON(http.StatusOK, result)
}

type bulkTimeOffRequest struct {
	OpticianIDs []uuid.UUID `json:"opticianIds"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	Reason      *string     `json:"reason"`
	IsAllDay    bool        `json:"isAllDay"`
}

func (h *Handler) BulkTimeOff(c echo.Context) error {
	var req bulkTimeOffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.OpticianIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "opticianIds is required")
	}
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid startDate, expected RFC 3339")
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid endDate, expected RFC 3339")
	}

	result := h.svc.BulkCreateTimeOff(c.Request().Context(), req.OpticianIDs, start, end, req.Reason, req.IsAllDay)
	return c.JSON(http.StatusOK, result)
}

// -- Import / Export Handlers --

type importRequest struct {
	FileName string                   `json:"fileName"`
	FileType string                   `json:"fileType"`
	Data     []map[string]interface{} `json:"data"`
}

func (h *Handler) Import(c echo.Context) error {
	var req importRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.FileType != "csv" && req.FileType != "json" {
		return echo.NewHTTPError(http.StatusBadRequest, "fileType must be csv or json")
	}
	if len(req.Data) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "import data cannot be empty")
	}

	result, err := h.porter.Import(c.Request().Context(), req.Data)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Export(c echo.Context) error {
	includeSchedules := c.QueryParam("includeSchedules") == "true"

	if c.QueryParam("format") == "csv" {
		data, err := h.porter.ExportCSV(c.Request().Context(), includeSchedules)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="opticians-export.csv"`)
		return c.Blob(http.StatusOK, "text/csv", data)
	}

	records, err := h.porter.Export(c.Request().Context(), includeSchedules)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, records)
}
