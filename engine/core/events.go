package core

import (
	"reflect"
	"sync"
)

// System internal event codes. Application should use codes beyond 255.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01
	// Keyboard key pressed. Data: *KeyEvent
	EVENT_CODE_KEY_PRESSED EventCode = 0x02
	// Keyboard key released. Data: *KeyEvent
	EVENT_CODE_KEY_RELEASED EventCode = 0x03
	// Mouse button pressed. Data: *MouseEvent
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04
	// Mouse button released. Data: *MouseEvent
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05
	// Mouse moved. Data: *MouseEvent
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06
	// Mouse wheel. Data: *MouseEvent
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07
	// Resized/resolution changed from the OS. Data: *SystemEvent
	EVENT_CODE_RESIZED EventCode = 0x08
	// Files dropped onto the window. Data: *DropEvent
	EVENT_CODE_FILE_DROPPED EventCode = 0x09

	MAX_EVENT_CODE EventCode = 0xFF
)

type EventContext struct {
	Type EventCode
	Data interface{}
}

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   int32
	PosY   int32
	Scroll float32
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type DropEvent struct {
	Paths []string
}

// FnOnEvent handles an event. Handlers run synchronously on the thread that
// fired the event.
type FnOnEvent func(context EventContext)

type eventSystemState struct {
	registered map[EventCode][]FnOnEvent
}

var eventMutex sync.Mutex
var eventState *eventSystemState = nil

func EventSystemInitialize() bool {
	eventMutex.Lock()
	defer eventMutex.Unlock()
	if eventState != nil {
		return false
	}
	eventState = &eventSystemState{
		registered: make(map[EventCode][]FnOnEvent),
	}
	return true
}

func EventSystemShutdown() error {
	eventMutex.Lock()
	defer eventMutex.Unlock()
	eventState = nil
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. The same
 * callback can't be registered twice for one code.
 * @returns true if the event is successfully registered; otherwise false.
 */
func EventRegister(code EventCode, onEvent FnOnEvent) bool {
	eventMutex.Lock()
	defer eventMutex.Unlock()
	if eventState == nil || onEvent == nil {
		return false
	}
	for _, cb := range eventState.registered[code] {
		if sameCallback(cb, onEvent) {
			LogWarn("event %d: callback already registered", code)
			return false
		}
	}
	eventState.registered[code] = append(eventState.registered[code], onEvent)
	return true
}

/**
 * Unregister a callback for the given code.
 * @returns true if the callback was found and removed.
 */
func EventUnregister(code EventCode, onEvent FnOnEvent) bool {
	eventMutex.Lock()
	defer eventMutex.Unlock()
	if eventState == nil {
		return false
	}
	callbacks := eventState.registered[code]
	for i, cb := range callbacks {
		if sameCallback(cb, onEvent) {
			eventState.registered[code] = append(callbacks[:i], callbacks[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to every listener of the code, in registration order.
 * @returns true if at least one listener received it.
 */
func EventFire(context EventContext) bool {
	eventMutex.Lock()
	if eventState == nil {
		eventMutex.Unlock()
		return false
	}
	callbacks := append([]FnOnEvent(nil), eventState.registered[context.Type]...)
	eventMutex.Unlock()

	for _, cb := range callbacks {
		cb(context)
	}
	return len(callbacks) > 0
}

// Funcs are not comparable. Bound methods share one code pointer per method,
// so the same method registered twice counts as a duplicate.
func sameCallback(a, b FnOnEvent) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
