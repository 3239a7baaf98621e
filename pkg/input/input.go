// Package input defines the abstract key event contract between the
// platform layer and the harness. Mapping from OS key codes happens in
// the frontend; the harness only ever sees these events.
package input

// Key identifies an abstract key.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeySpace
	KeyReturn
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

var keyNames = map[string]Key{
	"Left":     KeyLeft,
	"Right":    KeyRight,
	"Up":       KeyUp,
	"Down":     KeyDown,
	"Space":    KeySpace,
	"Return":   KeyReturn,
	"Home":     KeyHome,
	"End":      KeyEnd,
	"PageUp":   KeyPageUp,
	"PageDown": KeyPageDown,
}

// ParseKey maps a frontend key name to a Key. Unknown names map to
// KeyNone.
func ParseKey(name string) Key {
	return keyNames[name]
}

func (k Key) String() string {
	for name, key := range keyNames {
		if key == k {
			return name
		}
	}
	return "None"
}

// Event is one key transition. Pressed is true on key-down.
type Event struct {
	Pressed bool
	Key     Key
}
