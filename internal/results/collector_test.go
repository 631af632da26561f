package results

import (
	"bytes"
	"encoding/csv"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSink struct {
	mu      sync.Mutex
	got     []Record
	failErr error
}

func (m *mockSink) Insert(r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.got = append(m.got, r)
	return nil
}

func sampleRecord(backend string, precision int, elapsed time.Duration) Record {
	return Record{
		Backend:   backend,
		Nx:        32,
		Ny:        32,
		Nz:        8,
		NumIter:   16,
		NumHalo:   2,
		Precision: precision,
		Workers:   1,
		Elapsed:   elapsed,
		Mass:      2048,
	}
}

func TestCollector_RecordFillsDefaults(t *testing.T) {
	sink := &mockSink{}
	c := NewCollector(sink)

	require.NoError(t, c.Record(sampleRecord("serial", 64, time.Second)))

	recs := c.Records()
	require.Len(t, recs, 1)
	assert.NotEqual(t, uuid.Nil, recs[0].ID)
	assert.False(t, recs[0].CreatedAt.IsZero())
	require.Len(t, sink.got, 1)
	assert.Equal(t, recs[0], sink.got[0])
}

func TestCollector_SinkFailureKeepsRecord(t *testing.T) {
	boom := errors.New("disk full")
	c := NewCollector(&mockSink{failErr: boom})

	err := c.Record(sampleRecord("serial", 32, time.Millisecond))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, c.Len())
}

func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Record(sampleRecord("goroutine", 64, time.Millisecond)))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
}

func TestCollector_Summaries(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.Record(sampleRecord("serial", 64, 1*time.Second)))
	require.NoError(t, c.Record(sampleRecord("goroutine", 64, 500*time.Millisecond)))
	require.NoError(t, c.Record(sampleRecord("serial", 64, 3*time.Second)))

	sums := c.Summaries()
	require.Len(t, sums, 2)

	assert.Equal(t, "serial", sums[0].Backend)
	assert.Equal(t, 2, sums[0].Runs)
	assert.InDelta(t, 2.0, sums[0].MeanSeconds, 1e-12)
	assert.InDelta(t, 1.4142135623730951, sums[0].StdSeconds, 1e-12)
	assert.InDelta(t, 1.0, sums[0].MinSeconds, 1e-12)
	assert.Equal(t, 2048.0, sums[0].MeanMass)

	assert.Equal(t, "goroutine", sums[1].Backend)
	assert.Equal(t, 1, sums[1].Runs)
	assert.Zero(t, sums[1].StdSeconds)
}

func TestCollector_WriteCSV(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.Record(sampleRecord("serial", 32, 250*time.Millisecond)))
	require.NoError(t, c.Record(sampleRecord("serial", 32, 750*time.Millisecond)))

	var raw bytes.Buffer
	require.NoError(t, c.WriteCSV(&raw))
	rows, err := csv.NewReader(&raw).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, rawHeader, rows[0])
	assert.Equal(t, "0.250000000", rows[1][9])
	assert.Equal(t, "32", rows[1][7])

	var sum bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&sum, c.Summaries()))
	rows, err = csv.NewReader(&sum).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, summaryHeader, rows[0])
	assert.Equal(t, "2", rows[1][8])
	assert.Equal(t, "0.500000000", rows[1][9])
}
