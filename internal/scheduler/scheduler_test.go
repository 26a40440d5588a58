package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls atomic.Int32
	err   error
}

func (l *countingLoader) Load(context.Context) error {
	l.calls.Add(1)
	return l.err
}

func newTestScheduler(l Loader) *Scheduler {
	log, _ := test.NewNullLogger()
	return NewScheduler(context.Background(), l, log)
}

func TestRegisterEmptyDisables(t *testing.T) {
	s := newTestScheduler(&countingLoader{})
	require.NoError(t, s.Register(""))
	assert.Empty(t, s.Cron.Entries())
}

func TestRegisterInvalidSpec(t *testing.T) {
	s := newTestScheduler(&countingLoader{})
	assert.Error(t, s.Register("every tuesday"))
	// five fields are rejected because the parser expects seconds
	assert.Error(t, s.Register("*/5 * * * *"))
}

func TestRegisterValidSpec(t *testing.T) {
	s := newTestScheduler(&countingLoader{})
	require.NoError(t, s.Register("0 */15 * * * *"))
	assert.Len(t, s.Cron.Entries(), 1)
}

func TestRunNow(t *testing.T) {
	l := &countingLoader{err: errors.New("unreachable")}
	s := newTestScheduler(l)
	assert.EqualError(t, s.RunNow(), "unreachable")
	assert.Equal(t, int32(1), l.calls.Load())
}

func TestTrigger(t *testing.T) {
	l := &countingLoader{}
	s := newTestScheduler(l)
	s.Trigger()
	assert.Eventually(t, func() bool { return l.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestCronRunsReload(t *testing.T) {
	l := &countingLoader{}
	s := newTestScheduler(l)
	require.NoError(t, s.Register("* * * * * *"))
	s.Start()
	defer s.Stop()
	assert.Eventually(t, func() bool { return l.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}
