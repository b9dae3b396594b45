package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorRefresh(t *testing.T) {
	var failing atomic.Bool
	m := New(time.Minute, nil)
	m.Register("store", func(context.Context) error { return nil })
	m.Register("redis", func(context.Context) error {
		if failing.Load() {
			return errors.New("connection refused")
		}
		return nil
	})

	assert.False(t, m.IsOnline(), "no check has run yet")

	m.Refresh(context.Background())
	status := m.Status()
	assert.True(t, status.Healthy())
	assert.Equal(t, map[string]bool{"store": true, "redis": true}, status.Services)
	assert.False(t, status.LastCheck.IsZero())

	failing.Store(true)
	m.Refresh(context.Background())
	assert.False(t, m.IsOnline())
	assert.False(t, m.Status().Services["redis"])
	assert.True(t, m.Status().Services["store"])
}

func TestMonitorStatusIsACopy(t *testing.T) {
	m := New(time.Minute, nil)
	m.Register("store", func(context.Context) error { return nil })
	m.Refresh(context.Background())

	status := m.Status()
	status.Services["store"] = false
	assert.True(t, m.IsOnline())
}

func TestMonitorStartStop(t *testing.T) {
	var calls atomic.Int32
	m := New(time.Second, nil)
	m.Register("store", func(context.Context) error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, m.Start())
	assert.Equal(t, int32(1), calls.Load(), "Start checks immediately")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Stop(ctx))
}

func TestMonitorScheduleKeepsSubSecondInterval(t *testing.T) {
	m := New(1500*time.Millisecond, nil)
	assert.Equal(t, "@every 1.5s", m.schedule())

	_, err := cron.ParseStandard(m.schedule())
	require.NoError(t, err)

	assert.Equal(t, "@every 10s", New(0, nil).schedule())
}
