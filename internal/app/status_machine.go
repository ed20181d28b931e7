package app

import (
	"errors"

	"jogai-backend/internal/model"
)

var ErrNoTransition = errors.New("no transition for event from current status")

// StatusEvent names a chat lifecycle transition.
type StatusEvent string

const (
	// EventBegin fires when the player answers the opening question; the
	// guard requires it to be the chat's first persisted user turn.
	EventBegin  StatusEvent = "begin"
	EventFinish StatusEvent = "finish"
	EventCancel StatusEvent = "cancel"
)

// TurnStats carries the facts transition guards are allowed to look at.
type TurnStats struct {
	UserTurns int64
}

type transition struct {
	From  model.Status
	Event StatusEvent
	To    model.Status
	Guard func(TurnStats) bool
}

// StatusMachine makes the chat lifecycle explicit instead of inferring it
// from message counts scattered through handlers.
type StatusMachine struct {
	transitions []transition
}

func NewStatusMachine() *StatusMachine {
	return &StatusMachine{
		transitions: []transition{
			{
				From:  model.StatusNew,
				Event: EventBegin,
				To:    model.StatusStarted,
				Guard: func(s TurnStats) bool { return s.UserTurns == 1 },
			},
			{From: model.StatusStarted, Event: EventFinish, To: model.StatusFinished},
			{From: model.StatusNew, Event: EventCancel, To: model.StatusCancelled},
			{From: model.StatusStarted, Event: EventCancel, To: model.StatusCancelled},
		},
	}
}

// Fire applies the named event. ErrNoTransition means the event does not
// apply, either because no edge matches or a guard rejected it; callers that
// only fire opportunistically treat that as "stay put".
func (m *StatusMachine) Fire(current model.Status, event StatusEvent, stats TurnStats) (model.Status, error) {
	for _, t := range m.transitions {
		if t.From != current || t.Event != event {
			continue
		}
		if t.Guard != nil && !t.Guard(stats) {
			continue
		}
		return t.To, nil
	}
	return current, ErrNoTransition
}

// Force sets any enumerated status directly. The status-update endpoint is
// caller-directed by contract, so no edges are consulted here.
func (m *StatusMachine) Force(target model.Status) (model.Status, error) {
	if !target.IsValid() {
		return "", ErrInvalidStatus
	}
	return target, nil
}
