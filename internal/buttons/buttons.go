package buttons

import (
	"context"
	"sync"
)

type Event string

const (
	Exit             Event = "exit"
	ToggleFullscreen Event = "fullscreen"
	LeaveFullscreen  Event = "leave-fullscreen"
	ValueUp          Event = "up"
	ValueDown        Event = "down"
	Preset1          Event = "preset-1"
	Preset2          Event = "preset-2"
	Preset3          Event = "preset-3"
	Preset4          Event = "preset-4"
)

// PresetIndex returns the zero-based preset an event selects.
func (e Event) PresetIndex() (int, bool) {
	switch e {
	case Preset1:
		return 0, true
	case Preset2:
		return 1, true
	case Preset3:
		return 2, true
	case Preset4:
		return 3, true
	}
	return 0, false
}

type Buttons interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

type NoopButtons struct {
	ch   chan Event
	once sync.Once
}

func NewNoopButtons() *NoopButtons { return &NoopButtons{ch: make(chan Event)} }

func (n *NoopButtons) Start(ctx context.Context) error { return nil }
func (n *NoopButtons) Stop() error {
	n.once.Do(func() { close(n.ch) })
	return nil
}
func (n *NoopButtons) Events() <-chan Event { return n.ch }

// Linux input-event-codes.h
const (
	evKey = 0x01

	keyEsc  = 1
	key1    = 2
	key2    = 3
	key3    = 4
	key4    = 5
	keyF4   = 62
	keyF11  = 87
	keyUp   = 103
	keyDown = 108
)

// Key values in an input_event.
const (
	keyRelease = 0
	keyPress   = 1
	keyRepeat  = 2
)

var keymap = map[uint16]Event{
	keyEsc:  LeaveFullscreen,
	key1:    Preset1,
	key2:    Preset2,
	key3:    Preset3,
	key4:    Preset4,
	keyF4:   Exit,
	keyF11:  ToggleFullscreen,
	keyUp:   ValueUp,
	keyDown: ValueDown,
}

// eventFor maps one key record to an event. Only the arrows auto-repeat.
func eventFor(typ, code uint16, value int32) (Event, bool) {
	if typ != evKey {
		return "", false
	}
	ev, ok := keymap[code]
	if !ok {
		return "", false
	}
	switch value {
	case keyPress:
		return ev, true
	case keyRepeat:
		return ev, ev == ValueUp || ev == ValueDown
	}
	return "", false
}
