package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Observe(t *testing.T) {
	r := New("rnx2crx", "run-1")

	r.Observe(FileStats{Epochs: 10, Events: 1, Comments: 2, SlotsCreated: 14, SlotsRetired: 4, BytesIn: 1000, BytesOut: 300, Duration: time.Second})
	r.Observe(FileStats{Epochs: 5, BytesIn: 50, Err: errors.New("boom")})

	require.InDelta(t, 1, testutil.ToFloat64(r.files.WithLabelValues(ResultOK)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(r.files.WithLabelValues(ResultFailed)), 0)
	require.InDelta(t, 15, testutil.ToFloat64(r.records.WithLabelValues("epoch")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(r.records.WithLabelValues("event")), 0)
	require.InDelta(t, 2, testutil.ToFloat64(r.records.WithLabelValues("comment")), 0)
	require.InDelta(t, 14, testutil.ToFloat64(r.slots.WithLabelValues("created")), 0)
	require.InDelta(t, 4, testutil.ToFloat64(r.slots.WithLabelValues("retired")), 0)
	require.InDelta(t, 1050, testutil.ToFloat64(r.bytes.WithLabelValues("in")), 0)
	require.InDelta(t, 300, testutil.ToFloat64(r.bytes.WithLabelValues("out")), 0)

	n, err := testutil.GatherAndCount(r.Gatherer(), "crinex_file_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New("crx2rnx", "run-2")
	r.Observe(FileStats{Epochs: 3})
	r.Finish(time.Unix(1_800_000_000, 0))

	path := filepath.Join(t.TempDir(), "crinex.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.Contains(t, text, `crinex_records_total{kind="epoch",run_id="run-2",tool="crx2rnx"} 3`)
	require.Contains(t, text, `crinex_last_run_timestamp_seconds{run_id="run-2",tool="crx2rnx"} 1.8e+09`)
}
