// Package pointer localizes raw pointer motion onto the fire surface.
package pointer

// Offscreen is the coordinate used for both axes while the pointer is outside the band.
const Offscreen = -1000.0

// Rect is the surface origin in the pointer's coordinate space.
type Rect struct {
	Left, Top float64
}

// State is the last known pointer position in surface coordinates plus the
// horizontal delta of the move that produced it.
type State struct {
	X, Y float64
	VX   float64
}

// Outside returns the sentinel state.
func Outside() State {
	return State{X: Offscreen, Y: Offscreen}
}

// InBand reports whether the state holds a real position.
func (s State) InBand() bool {
	return s.Y >= 0
}

// Tracker turns absolute move events into a State.
type Tracker struct {
	band  float64
	lastX float64
	state State
}

// NewTracker creates a tracker for a band of the given height.
func NewTracker(band float64) *Tracker {
	return &Tracker{band: band, state: Outside()}
}

// SetBand changes the active band height, e.g. after a surface resize.
func (t *Tracker) SetBand(band float64) {
	t.band = band
}

// Band returns the active band height.
func (t *Tracker) Band() float64 { return t.band }

// Move records a pointer move at (clientX, clientY) against the surface rect.
func (t *Tracker) Move(clientX, clientY float64, r Rect) State {
	localX := clientX - r.Left
	localY := clientY - r.Top

	if localY >= 0 && localY <= t.band {
		t.state = State{X: localX, Y: localY, VX: localX - t.lastX}
	} else {
		t.state = Outside()
	}
	t.lastX = localX
	return t.state
}

// Leave puts the tracker in the sentinel state, e.g. when the window loses the cursor.
func (t *Tracker) Leave() {
	t.state = Outside()
}

// State returns the current pointer state.
func (t *Tracker) State() State { return t.state }
