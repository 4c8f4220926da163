package track

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultMaxDisappeared is the number of consecutive frames an object may
	// go unmatched before it is forgotten.
	DefaultMaxDisappeared = 15
	// DefaultMaxDistance is the maximum centroid displacement (in pixels)
	// accepted as movement of the same object between frames.
	DefaultMaxDistance = 80.0
)

// object is a tracked face: its last-known box and how many consecutive
// updates it has gone without a matching detection.
type object struct {
	box         Box
	disappeared int
}

// Tracker keeps persistent integer IDs for faces across frames by matching
// each new set of detections against the previous positions. IDs are
// assigned sequentially and never reused for the lifetime of the instance.
//
// Tracker is not safe for concurrent use; the frame pipeline serializes
// calls to Update.
type Tracker struct {
	nextID         int
	ids            []int // live IDs in registration order
	objects        map[int]*object
	maxDisappeared int
	maxDistance    float64
}

// New creates a tracker. maxDisappeared is the number of unmatched updates
// tolerated before an object is deregistered, maxDistance the centroid
// displacement ceiling for a match.
func New(maxDisappeared int, maxDistance float64) *Tracker {
	return &Tracker{
		objects:        make(map[int]*object),
		maxDisappeared: maxDisappeared,
		maxDistance:    maxDistance,
	}
}

// NewDefault creates a tracker with the default thresholds.
func NewDefault() *Tracker {
	return New(DefaultMaxDisappeared, DefaultMaxDistance)
}

// Len returns the number of currently tracked objects.
func (t *Tracker) Len() int {
	return len(t.ids)
}

// IDs returns the live object IDs in registration order. The slice is a
// copy; callers may keep it across updates.
func (t *Tracker) IDs() []int {
	out := make([]int, len(t.ids))
	copy(out, t.ids)
	return out
}

// Disappeared returns the current disappeared count for an object, or -1 if
// the ID is not tracked.
func (t *Tracker) Disappeared(id int) int {
	obj, ok := t.objects[id]
	if !ok {
		return -1
	}
	return obj.disappeared
}

func (t *Tracker) register(box Box) {
	t.objects[t.nextID] = &object{box: box}
	t.ids = append(t.ids, t.nextID)
	t.nextID++
}

func (t *Tracker) deregister(id int) {
	delete(t.objects, id)
	for i, v := range t.ids {
		if v == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			break
		}
	}
}

// snapshot returns the current id -> box mapping as a copy.
func (t *Tracker) snapshot() map[int]Box {
	out := make(map[int]Box, len(t.ids))
	for _, id := range t.ids {
		out[id] = t.objects[id].box
	}
	return out
}

// Update matches a new set of detections against the tracked objects and
// returns the id -> box mapping of all live objects, matched or carried
// over. Call it exactly once per frame, including frames with no detections
// (that is how objects age out).
func (t *Tracker) Update(detections []Box) map[int]Box {
	// No detections this frame: every object ages by one.
	if len(detections) == 0 {
		for _, id := range t.IDs() {
			obj := t.objects[id]
			obj.disappeared++
			if obj.disappeared > t.maxDisappeared {
				t.deregister(id)
			}
		}
		return t.snapshot()
	}

	// Nothing tracked yet: every detection becomes a new object.
	if len(t.ids) == 0 {
		for _, det := range detections {
			t.register(det)
		}
		return t.snapshot()
	}

	rowIDs := t.IDs()
	dist := t.distanceMatrix(rowIDs, detections)

	// Greedy assignment: resolve rows in order of their closest candidate,
	// so globally short matches win before long ones. Ties keep registration
	// order (stable sort), meaning the first-registered object wins.
	nRows := len(rowIDs)
	rowMin := make([]float64, nRows)
	argMin := make([]int, nRows)
	rowBuf := make([]float64, len(detections))
	for i := 0; i < nRows; i++ {
		mat.Row(rowBuf, i, dist)
		argMin[i] = floats.MinIdx(rowBuf)
		rowMin[i] = rowBuf[argMin[i]]
	}

	order := make([]int, nRows)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rowMin[order[a]] < rowMin[order[b]]
	})

	assignedRows := make([]bool, nRows)
	assignedCols := make([]bool, len(detections))

	for _, row := range order {
		col := argMin[row]
		if assignedRows[row] || assignedCols[col] {
			continue
		}
		if dist.At(row, col) > t.maxDistance {
			continue
		}

		obj := t.objects[rowIDs[row]]
		obj.box = detections[col]
		obj.disappeared = 0
		assignedRows[row] = true
		assignedCols[col] = true
	}

	// Unmatched objects age, unmatched detections become new objects.
	for row, id := range rowIDs {
		if assignedRows[row] {
			continue
		}
		obj := t.objects[id]
		obj.disappeared++
		if obj.disappeared > t.maxDisappeared {
			t.deregister(id)
		}
	}
	for col, det := range detections {
		if !assignedCols[col] {
			t.register(det)
		}
	}

	return t.snapshot()
}

// distanceMatrix computes pairwise centroid distances between tracked
// objects (rows) and new detections (columns).
func (t *Tracker) distanceMatrix(rowIDs []int, detections []Box) *mat.Dense {
	d := mat.NewDense(len(rowIDs), len(detections), nil)
	for i, id := range rowIDs {
		for j, det := range detections {
			d.Set(i, j, Dist(t.objects[id].box, det))
		}
	}
	return d
}
