package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRejection(t *testing.T) {
	r := New()
	before := testutil.ToFloat64(rejectionsTotal.WithLabelValues("candidate", "opposite_gender"))

	r.RecordRejection("candidate", "opposite_gender")
	r.RecordRejection("candidate", "opposite_gender")

	assert.Equal(t, before+2, testutil.ToFloat64(rejectionsTotal.WithLabelValues("candidate", "opposite_gender")))
}

func TestRecordRun(t *testing.T) {
	r := New()
	before := testutil.ToFloat64(runsTotal.WithLabelValues("female"))

	r.RecordRun("female", 120*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(runsTotal.WithLabelValues("female")))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", StatusClass(200))
	assert.Equal(t, "4xx", StatusClass(404))
	assert.Equal(t, "5xx", StatusClass(503))
	assert.Equal(t, "0", StatusClass(0))
}
