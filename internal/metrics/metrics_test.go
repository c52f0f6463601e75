package metrics

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncOperation(t *testing.T) {
	before := testutil.ToFloat64(availabilityOperations.WithLabelValues("add", "failure"))

	IncOperation("add", errors.New("boom"))
	IncOperation("add", nil)

	assert.Equal(t, before+1, testutil.ToFloat64(availabilityOperations.WithLabelValues("add", "failure")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(availabilityOperations.WithLabelValues("add", "success")), 1.0)
}

func TestObserveRosteringRequest(t *testing.T) {
	ObserveRosteringRequest(http.MethodGet, &http.Response{StatusCode: http.StatusOK}, nil, 20*time.Millisecond)
	ObserveRosteringRequest(http.MethodPost, nil, errors.New("dial"), time.Second)

	assert.Equal(t, 2, testutil.CollectAndCount(rosteringRequests))
}

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}
