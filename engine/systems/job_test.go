package systems

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/spaghettifunk/j3dview/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain calls Update until want callbacks ran or the deadline passes.
func drain(t *testing.T, js *JobSystem, want int) {
	t.Helper()
	ran := 0
	require.Eventually(t, func() bool {
		ran += js.Update()
		return ran >= want
	}, 5*time.Second, time.Millisecond)
}

func TestJobSystemRejectsBadConfig(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobCallbacksRunOnUpdate(t *testing.T) {
	core.SetLogOutput(io.Discard)
	js, err := NewJobSystem(2, 4)
	require.NoError(t, err)
	t.Cleanup(func() { js.Shutdown() })

	var mu sync.Mutex
	var completed []interface{}
	var failed []error
	boom := errors.New("boom")

	require.NoError(t, js.Submit(JobTask{
		Name:       "ok",
		Run:        func() (interface{}, error) { return 42, nil },
		OnComplete: func(r interface{}) { mu.Lock(); completed = append(completed, r); mu.Unlock() },
	}))
	require.NoError(t, js.Submit(JobTask{
		Name:      "fails",
		Run:       func() (interface{}, error) { return nil, boom },
		OnFailure: func(err error) { mu.Lock(); failed = append(failed, err); mu.Unlock() },
	}))

	drain(t, js, 2)

	assert.Equal(t, []interface{}{42}, completed)
	assert.Equal(t, []error{boom}, failed)
	assert.Zero(t, js.Pending())
}

func TestJobSubmitNeverBlocks(t *testing.T) {
	js, err := NewJobSystem(1, 1)
	require.NoError(t, err)
	t.Cleanup(func() { js.Shutdown() })

	release := make(chan struct{})
	blocked := JobTask{Run: func() (interface{}, error) { <-release; return nil, nil }}

	require.NoError(t, js.Submit(blocked))
	require.NoError(t, js.Submit(blocked))
	assert.ErrorIs(t, js.Submit(blocked), ErrJobQueueFull)
	assert.Equal(t, 2, js.Pending())

	close(release)
	drain(t, js, 2)
	assert.NoError(t, js.Submit(JobTask{Run: func() (interface{}, error) { return nil, nil }}))
}

func TestJobSystemShutdown(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)
	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())
	assert.ErrorIs(t, js.Submit(JobTask{}), ErrJobSystemShutdown)
	assert.Zero(t, js.Update())
}
