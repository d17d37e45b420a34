package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/projects_backend/utils"
)

func testContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestWriteModelErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", utils.ErrorRecordNotFound, http.StatusNotFound},
		{"duplicate", utils.ErrorDuplicateRecord, http.StatusConflict},
		{"capacity", utils.ErrorCapacityExceeded, http.StatusBadRequest},
		{"validation", utils.InvalidInputf("status must be numeric"), http.StatusBadRequest},
		{"infrastructure", errors.New("dial tcp 127.0.0.1:3306: connect: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(t, "/api/projects")
			writeModelError(c, tt.err)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

// Infrastructure errors must never leak their raw message to the client.
func TestWriteModelErrorSanitizesInfrastructureErrors(t *testing.T) {
	c, w := testContext(t, "/api/projects")
	writeModelError(c, errors.New("Error 1045: Access denied for user 'tracker'"))
	body := w.Body.String()
	if strings.Contains(body, "Access denied") {
		t.Errorf("response leaked the raw error: %s", body)
	}
	if !strings.Contains(body, "internal server error") {
		t.Errorf("expected a sanitized message, got: %s", body)
	}
}

func TestWriteModelErrorKeepsValidationMessage(t *testing.T) {
	c, w := testContext(t, "/api/projects")
	writeModelError(c, utils.InvalidInputf("invalid date %q", "soon"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid date") {
		t.Errorf("validation message dropped: %s", w.Body.String())
	}
}

func TestDashboardSegment(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"canonical param", "/api/dashboard-metrics?business_segment=Fabrication", "Fabrication"},
		{"legacy alias", "/api/dashboard-metrics?ds=Fabrication", "Fabrication"},
		{"canonical wins over alias", "/api/dashboard-metrics?business_segment=Electrical&ds=Fabrication", "Electrical"},
		{"no filter defaults to all", "/api/dashboard-metrics", "all"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testContext(t, tt.target)
			if got := dashboardSegment(c); got != tt.want {
				t.Errorf("dashboardSegment() = %q, want %q", got, tt.want)
			}
		})
	}
}
