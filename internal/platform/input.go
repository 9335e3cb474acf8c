package platform

// Key is the type of keyboard keys.
type Key int

// Keys read by the camera controller.
const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyLCtrl
)

// Button is the type of pointer buttons.
type Button int

const (
	BtnUnknown Button = iota
	BtnLeft
	BtnRight
	BtnMiddle
)

// Input is polled once per frame by systems that react to the user.
type Input interface {
	ButtonDown(btn Button) bool
	KeyDown(key Key) bool
	// CursorPos returns the cursor offset from the point last set with
	// SetCursorPos.
	CursorPos() (x, y float64)
	SetCursorPos(x, y float64)
}

// StaticInput is an Input whose state is set directly. The zero value has
// nothing pressed and the cursor at rest.
type StaticInput struct {
	Buttons map[Button]bool
	Keys    map[Key]bool
	X, Y    float64
}

func (in *StaticInput) ButtonDown(btn Button) bool { return in.Buttons[btn] }

func (in *StaticInput) KeyDown(key Key) bool { return in.Keys[key] }

func (in *StaticInput) CursorPos() (float64, float64) { return in.X, in.Y }

func (in *StaticInput) SetCursorPos(x, y float64) { in.X, in.Y = x, y }

// Press marks keys as held.
func (in *StaticInput) Press(keys ...Key) {
	if in.Keys == nil {
		in.Keys = make(map[Key]bool)
	}
	for _, k := range keys {
		in.Keys[k] = true
	}
}

// Hold marks btn as held.
func (in *StaticInput) Hold(btn Button) {
	if in.Buttons == nil {
		in.Buttons = make(map[Button]bool)
	}
	in.Buttons[btn] = true
}
