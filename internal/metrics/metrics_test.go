package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterTwice(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	ContactSubmissions.WithLabelValues("valid").Inc()
	before := testutil.ToFloat64(BootRunsStarted)
	BootRunsStarted.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(BootRunsStarted))

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_boot_runs_started_total")
	assert.Contains(t, w.Body.String(), `portfolio_contact_submissions_total{result="valid"}`)
}
