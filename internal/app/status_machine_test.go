package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jogai-backend/internal/model"
)

func TestStatusMachineBegin(t *testing.T) {
	m := NewStatusMachine()

	next, err := m.Fire(model.StatusNew, EventBegin, TurnStats{UserTurns: 1})
	require.NoError(t, err)
	assert.Equal(t, model.StatusStarted, next)
}

func TestStatusMachineBeginGuard(t *testing.T) {
	m := NewStatusMachine()

	// The guard only admits the chat's first user turn.
	_, err := m.Fire(model.StatusNew, EventBegin, TurnStats{UserTurns: 2})
	assert.ErrorIs(t, err, ErrNoTransition)

	_, err = m.Fire(model.StatusNew, EventBegin, TurnStats{UserTurns: 0})
	assert.ErrorIs(t, err, ErrNoTransition)
}

func TestStatusMachineBeginOnlyFromNew(t *testing.T) {
	m := NewStatusMachine()

	for _, from := range []model.Status{model.StatusStarted, model.StatusFinished, model.StatusCancelled} {
		next, err := m.Fire(from, EventBegin, TurnStats{UserTurns: 1})
		assert.ErrorIs(t, err, ErrNoTransition)
		assert.Equal(t, from, next)
	}
}

func TestStatusMachineFinishAndCancel(t *testing.T) {
	m := NewStatusMachine()

	next, err := m.Fire(model.StatusStarted, EventFinish, TurnStats{})
	require.NoError(t, err)
	assert.Equal(t, model.StatusFinished, next)

	next, err = m.Fire(model.StatusNew, EventCancel, TurnStats{})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, next)

	next, err = m.Fire(model.StatusStarted, EventCancel, TurnStats{})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, next)

	_, err = m.Fire(model.StatusFinished, EventCancel, TurnStats{})
	assert.ErrorIs(t, err, ErrNoTransition)
}

func TestStatusMachineForce(t *testing.T) {
	m := NewStatusMachine()

	// The status-update endpoint is caller-directed: every enumerated value
	// is accepted regardless of the current status.
	for _, target := range model.Statuses() {
		got, err := m.Force(target)
		require.NoError(t, err)
		assert.Equal(t, target, got)
	}

	_, err := m.Force(model.Status("archived"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
