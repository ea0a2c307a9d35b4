package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCheckinAbsentMeansNoData(t *testing.T) {
	fs := newFakeStore()
	c := newTestClient(t, fs)

	d, err := c.LoadCheckin(context.Background())
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestLoadCheckinMalformedFailsWhole(t *testing.T) {
	fs := newFakeStore()
	c := newTestClient(t, fs)
	fs.putFile("main", "src/app/checkin/data.json", []byte(`{"events": [`))

	_, err := c.LoadCheckin(context.Background())
	require.Error(t, err)
}

func TestSaveLoadCheckinRoundTrip(t *testing.T) {
	fs := newFakeStore()
	c := newTestClient(t, fs)

	d := NewCheckinData()
	d.Events = append(d.Events, CheckinEvent{ID: "e1", Name: "Run", Color: "#f00", Start: "2024-01-10"})
	d.Toggle("2024-01-15", "e1")
	d.SetPosition("e1", 12.5, -3)

	require.NoError(t, c.SaveCheckin(context.Background(), d))
	assert.Equal(t, []string{"update checkin data"}, fs.messages)

	got, err := c.LoadCheckin(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, d.Events, got.Events)
	assert.True(t, got.CheckedIn("2024-01-15", "e1"))
	assert.Equal(t, CheckinPosition{X: 12.5, Y: -3}, got.Positions["e1"])
}

func TestLoadCheckinInitialisesNilPositions(t *testing.T) {
	fs := newFakeStore()
	c := newTestClient(t, fs)
	fs.putFile("main", "src/app/checkin/data.json", []byte(`{"events":[],"records":[]}`))

	got, err := c.LoadCheckin(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotNil(t, got.Positions)
}

func TestScheduleCheckinCoalescesBurst(t *testing.T) {
	fs := newFakeStore()
	// Delay long enough that only the explicit flush fires the write.
	c := newTestClient(t, fs, WithFlushDelay(time.Hour))

	d := NewCheckinData()
	d.Events = append(d.Events, CheckinEvent{ID: "e1", Name: "Run", Color: "#f00"})
	for i := 1; i <= 5; i++ {
		d.Toggle(fmt.Sprintf("2024-01-%02d", i), "e1")
		c.ScheduleCheckin(d)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.FlushCheckin(ctx))

	// A burst of five mutations lands as exactly one commit carrying the
	// final state.
	assert.Equal(t, 1, fs.writes())
	var got CheckinData
	require.NoError(t, json.Unmarshal(fs.headFiles("main")["src/app/checkin/data.json"], &got))
	assert.Len(t, got.Records, 5)
}

func TestScheduleCheckinSnapshotIsDecoupled(t *testing.T) {
	fs := newFakeStore()
	c := newTestClient(t, fs, WithFlushDelay(time.Hour))

	d := NewCheckinData()
	d.Toggle("2024-01-01", "e1")
	c.ScheduleCheckin(d)
	d.Toggle("2024-01-02", "e1") // after scheduling; must not be persisted

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.FlushCheckin(ctx))

	var got CheckinData
	require.NoError(t, json.Unmarshal(fs.headFiles("main")["src/app/checkin/data.json"], &got))
	assert.Len(t, got.Records, 1)
}

func TestFlushCheckinWithoutPendingIsNoOp(t *testing.T) {
	fs := newFakeStore()
	c := newTestClient(t, fs)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.FlushCheckin(ctx))
	assert.Zero(t, fs.writes())
}

func TestCloseFlushesPendingCheckin(t *testing.T) {
	fs := newFakeStore()
	c := newTestClient(t, fs, WithFlushDelay(time.Hour))

	d := NewCheckinData()
	d.Toggle("2024-01-01", "e1")
	c.ScheduleCheckin(d)

	require.NoError(t, c.Close())
	assert.Equal(t, 1, fs.writes())
}
