package booking

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func postJSON(t *testing.T, h *Handler, body string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return h.Create(e.NewContext(req, httptest.NewRecorder()))
}

func TestHandlerCreate_MissingFieldsReturn400(t *testing.T) {
	f := newTestService()
	h := NewHandler(f.svc, nil, nil)

	err := postJSON(t, h, `{"patientPhone": "+263 77 555 1234"}`)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected an echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a validation failure, got %d", httpErr.Code)
	}
}

func TestHandlerList_MissingRangeReturns400(t *testing.T) {
	f := newTestService()
	h := NewHandler(f.svc, nil, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
	err := h.List(e.NewContext(req, httptest.NewRecorder()))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 when the date range is missing, got %v", err)
	}
}

func TestBookingError_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ValidationError{Msg: "patient_name is required"}, http.StatusBadRequest},
		{"slot taken", ErrSlotTaken, http.StatusConflict},
		{"optician unavailable", &OpticianUnavailableError{Reason: "Time off"}, http.StatusConflict},
		{"not found", ErrNotFound, http.StatusNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			httpErr, ok := bookingError(c.err).(*echo.HTTPError)
			if !ok {
				t.Fatal("expected an echo.HTTPError")
			}
			if httpErr.Code != c.want {
				t.Errorf("got %d, want %d", httpErr.Code, c.want)
			}
		})
	}
}
