package engine

import "time"

// DefaultRotationInterval is the image rotation tick used when none is configured
const DefaultRotationInterval = 600 * time.Millisecond

const rotationKeyPrefix = "rotate:"

// RotationReader exposes live rotation indices to the render projection
type RotationReader interface {
	CurrentIndex(itemID string) int
	Active(itemID string) bool
}

type rotation struct {
	index int
	count int
	gen   uint64
}

// Rotator cycles the displayed image of hovered items on a fixed interval.
//
// Each rotation carries a generation number; a tick whose generation no longer
// matches the live rotation is dropped, so a timer cancelled while its callback
// was already queued cannot mutate state.
//
// Rotator is not safe for concurrent use. The scheduler's callbacks must be
// serialized with every other call (View wraps them in its lock).
type Rotator struct {
	sched     Scheduler
	interval  time.Duration
	rotations map[string]*rotation
	seq       uint64
	ticks     uint64
}

// NewRotator creates a Rotator ticking every interval through sched
func NewRotator(sched Scheduler, interval time.Duration) *Rotator {
	if interval <= 0 {
		interval = DefaultRotationInterval
	}
	return &Rotator{
		sched:     sched,
		interval:  interval,
		rotations: make(map[string]*rotation),
	}
}

// Ensure Rotator implements RotationReader
var _ RotationReader = (*Rotator)(nil)

// StartFor begins rotating itemID through imageCount images.
// Any rotation already running for itemID is torn down first.
func (r *Rotator) StartFor(itemID string, imageCount int) {
	if itemID == "" || imageCount <= 1 {
		return
	}
	r.StopFor(itemID)

	r.seq++
	gen := r.seq
	r.rotations[itemID] = &rotation{count: imageCount, gen: gen}
	r.sched.Start(rotationKeyPrefix+itemID, func() { r.tick(itemID, gen) }, r.interval)
}

func (r *Rotator) tick(itemID string, gen uint64) {
	rot, ok := r.rotations[itemID]
	if !ok || rot.gen != gen {
		return
	}
	rot.index = (rot.index + 1) % rot.count
	r.ticks++
}

// StopFor cancels the rotation for itemID; its index reads as 0 afterwards
func (r *Rotator) StopFor(itemID string) {
	if _, ok := r.rotations[itemID]; !ok {
		return
	}
	r.sched.Cancel(rotationKeyPrefix + itemID)
	delete(r.rotations, itemID)
}

// StopAll cancels every rotation
func (r *Rotator) StopAll() {
	for itemID := range r.rotations {
		r.sched.Cancel(rotationKeyPrefix + itemID)
	}
	r.rotations = make(map[string]*rotation)
}

// CurrentIndex returns the live image index, 0 when not rotating
func (r *Rotator) CurrentIndex(itemID string) int {
	if rot, ok := r.rotations[itemID]; ok {
		return rot.index
	}
	return 0
}

// Active reports whether itemID has a live rotation
func (r *Rotator) Active(itemID string) bool {
	_, ok := r.rotations[itemID]
	return ok
}

// Len returns the number of live rotations
func (r *Rotator) Len() int {
	return len(r.rotations)
}

// Ticks counts the ticks that advanced an index. Dropped ticks are not counted.
func (r *Rotator) Ticks() uint64 {
	return r.ticks
}

// Interval returns the tick interval
func (r *Rotator) Interval() time.Duration {
	return r.interval
}
