// Package input turns raw key levels into the per-tick signals consumed by the
// frame driver and the physics engine.
package input

// State is the result of one input poll. ShouldInteract follows the key level;
// every other flag is true only on the tick its key goes from released to pressed.
type State struct {
	ShouldInteract bool
	ToggleGravity  bool
	ResetPosition  bool
	SaveState      bool
	ExitApp        bool
}

// Any reports whether any signal is set.
func (s State) Any() bool {
	return s.ShouldInteract || s.ToggleGravity || s.ResetPosition || s.SaveState || s.ExitApp
}

type Key int

const (
	KeyInteract Key = iota
	KeyGravity
	KeyReset
	KeySave
	KeyExit
	numKeys
)

func (k Key) String() string {
	switch k {
	case KeyInteract:
		return "interact"
	case KeyGravity:
		return "gravity"
	case KeyReset:
		return "reset"
	case KeySave:
		return "save"
	case KeyExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Keyboard remembers the previous level of each key to detect press edges.
type Keyboard struct {
	last  [numKeys]bool
	state State
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Process polls held for every key and returns the new State.
func (k *Keyboard) Process(held func(Key) bool) State {
	var cur [numKeys]bool
	for key := Key(0); key < numKeys; key++ {
		cur[key] = held(key)
	}

	k.state = State{
		ShouldInteract: cur[KeyInteract],
		ToggleGravity:  cur[KeyGravity] && !k.last[KeyGravity],
		ResetPosition:  cur[KeyReset] && !k.last[KeyReset],
		SaveState:      cur[KeySave] && !k.last[KeySave],
		ExitApp:        cur[KeyExit] && !k.last[KeyExit],
	}
	k.last = cur
	return k.state
}

func (k *Keyboard) State() State { return k.state }
