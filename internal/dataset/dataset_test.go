package dataset

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"TradeView/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	rows []model.PriceRow
	err  error
}

func (f *fakeSource) Collect(_ context.Context) ([]model.PriceRow, error) {
	return f.rows, f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func row(date string, close float64) model.PriceRow {
	d, _ := time.Parse("2006-01-02", date)
	return model.PriceRow{Date: d, Exchange: "NYSE", InstrumentName: "ABC", Close: close}
}

func TestStore_EmptyUntilLoaded(t *testing.T) {
	s := NewStore()
	snap := s.Snapshot()
	assert.False(t, snap.Loaded)
	assert.Empty(t, snap.Rows)
	assert.Zero(t, snap.Version)
}

func TestLoader_SuccessThenFailureKeepsRows(t *testing.T) {
	store := NewStore()
	src := &fakeSource{rows: []model.PriceRow{row("2021-03-10", 10)}}
	l := NewLoader(src, store, quietLogger())

	require.NoError(t, l.Load(context.Background()))
	snap := store.Snapshot()
	assert.True(t, snap.Loaded)
	assert.Equal(t, uint64(1), snap.Version)
	assert.Len(t, snap.Rows, 1)
	assert.NoError(t, snap.LastErr)

	src.err = errors.New("boom")
	assert.Error(t, l.Load(context.Background()))
	snap = store.Snapshot()
	assert.Len(t, snap.Rows, 1, "failed reload keeps the previous rows")
	assert.Equal(t, uint64(1), snap.Version)
	assert.EqualError(t, snap.LastErr, "boom")

	src.err = nil
	src.rows = []model.PriceRow{row("2021-03-10", 10), row("2022-03-10", 12)}
	require.NoError(t, l.Load(context.Background()))
	snap = store.Snapshot()
	assert.Len(t, snap.Rows, 2)
	assert.Equal(t, uint64(2), snap.Version)
	assert.NoError(t, snap.LastErr)
}

func TestLoader_FirstLoadFailureLeavesEmptySet(t *testing.T) {
	store := NewStore()
	l := NewLoader(&fakeSource{err: errors.New("404")}, store, quietLogger())

	assert.Error(t, l.Load(context.Background()))
	snap := store.Snapshot()
	assert.False(t, snap.Loaded)
	assert.Empty(t, snap.Rows)
	assert.Error(t, snap.LastErr)
}
