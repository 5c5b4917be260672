package common

import "sync"

// KeyState records which keys are held. It is safe to update from window callbacks
// while a tick goroutine reads it.
type KeyState struct {
	mu   *sync.Mutex
	down map[uint32]bool
}

// NewKeyState creates a KeyState with no keys held.
//
// Returns:
//   - *KeyState: the key state
func NewKeyState() *KeyState {
	return &KeyState{mu: &sync.Mutex{}, down: make(map[uint32]bool)}
}

// Set records a key press or release.
//
// Parameters:
//   - keyCode: the key code
//   - down: true when the key was pressed
func (k *KeyState) Set(keyCode uint32, down bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.down[keyCode] = down
}

// Held reports whether a key is currently held.
//
// Parameters:
//   - keyCode: the key code
//
// Returns:
//   - bool: true if the last event for the key was a press
func (k *KeyState) Held(keyCode uint32) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.down[keyCode]
}
