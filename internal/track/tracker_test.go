package track

import (
	"testing"
)

func TestRegisterAllWhenEmpty(t *testing.T) {
	tr := NewDefault()

	detections := []Box{
		NewBox(10, 10, 40, 40),
		NewBox(200, 50, 40, 40),
		NewBox(400, 300, 40, 40),
	}
	objects := tr.Update(detections)

	if len(objects) != 3 {
		t.Fatalf("expected 3 registered objects, got %d", len(objects))
	}
	for id, want := range map[int]Box{0: detections[0], 1: detections[1], 2: detections[2]} {
		if objects[id] != want {
			t.Errorf("object %d = %+v, want %+v", id, objects[id], want)
		}
		if got := tr.Disappeared(id); got != 0 {
			t.Errorf("object %d disappeared = %d, want 0", id, got)
		}
	}
}

func TestEmptyUpdateAgesObjects(t *testing.T) {
	tr := New(2, DefaultMaxDistance)
	tr.Update([]Box{NewBox(100, 100, 50, 50)})

	// Each empty update increments disappeared by exactly one.
	for i := 1; i <= 2; i++ {
		objects := tr.Update(nil)
		if len(objects) != 1 {
			t.Fatalf("update %d: expected object to survive, got %d objects", i, len(objects))
		}
		if got := tr.Disappeared(0); got != i {
			t.Errorf("update %d: disappeared = %d, want %d", i, got, i)
		}
	}

	// Third empty update pushes the count past maxDisappeared.
	objects := tr.Update(nil)
	if len(objects) != 0 {
		t.Errorf("expected object to be deregistered, got %d objects", len(objects))
	}
}

func TestSmallMotionKeepsIdentity(t *testing.T) {
	tr := NewDefault()
	tr.Update([]Box{NewBox(100, 100, 50, 50)})

	// Centroid moves (125,125) -> (130,128), distance ~5.8 < 80.
	moved := NewBox(105, 103, 50, 50)
	objects := tr.Update([]Box{moved})

	if len(objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(objects))
	}
	if objects[0] != moved {
		t.Errorf("object 0 box = %+v, want %+v", objects[0], moved)
	}
	if got := tr.Disappeared(0); got != 0 {
		t.Errorf("disappeared = %d, want 0", got)
	}
}

func TestFarDetectionSpawnsNewObject(t *testing.T) {
	tr := NewDefault()
	tr.Update([]Box{NewBox(100, 100, 50, 50)})

	// Centroid jumps ~200px, beyond maxDistance, so the detection is a new
	// object and the old one ages.
	far := NewBox(300, 100, 50, 50)
	objects := tr.Update([]Box{far})

	if len(objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objects))
	}
	if got := tr.Disappeared(0); got != 1 {
		t.Errorf("object 0 disappeared = %d, want 1", got)
	}
	if objects[1] != far {
		t.Errorf("object 1 box = %+v, want %+v", objects[1], far)
	}
}

func TestMultipleObjectsKeepIdentityUnderMotion(t *testing.T) {
	tr := NewDefault()
	tr.Update([]Box{
		NewBox(0, 0, 40, 40),
		NewBox(200, 0, 40, 40),
		NewBox(400, 0, 40, 40),
	})

	// Every detection within maxDistance of a unique previous centroid, in
	// shuffled order. IDs must be preserved.
	objects := tr.Update([]Box{
		NewBox(405, 5, 40, 40),
		NewBox(5, 5, 40, 40),
		NewBox(205, 5, 40, 40),
	})

	want := map[int]Box{
		0: NewBox(5, 5, 40, 40),
		1: NewBox(205, 5, 40, 40),
		2: NewBox(405, 5, 40, 40),
	}
	if len(objects) != len(want) {
		t.Fatalf("expected %d objects, got %d", len(want), len(objects))
	}
	for id, box := range want {
		if objects[id] != box {
			t.Errorf("object %d = %+v, want %+v", id, objects[id], box)
		}
	}
}

func TestIDsNeverReused(t *testing.T) {
	tr := New(0, DefaultMaxDistance)

	tr.Update([]Box{NewBox(0, 0, 10, 10)}) // id 0
	tr.Update(nil)                         // ages id 0 past maxDisappeared=0
	if tr.Len() != 0 {
		t.Fatalf("expected empty tracker after deregistration")
	}

	objects := tr.Update([]Box{NewBox(0, 0, 10, 10)})
	if _, ok := objects[0]; ok {
		t.Error("id 0 was reused after deregistration")
	}
	if _, ok := objects[1]; !ok {
		t.Errorf("expected new object to get id 1, got %v", tr.IDs())
	}
}

func TestIDsMonotonicallyIncrease(t *testing.T) {
	tr := NewDefault()

	tr.Update([]Box{NewBox(0, 0, 10, 10)})
	tr.Update([]Box{NewBox(0, 0, 10, 10), NewBox(500, 500, 10, 10)})
	tr.Update([]Box{NewBox(0, 0, 10, 10), NewBox(500, 500, 10, 10), NewBox(1000, 0, 10, 10)})

	ids := tr.IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("IDs not strictly increasing in registration order: %v", ids)
		}
	}
	if len(ids) != 3 || ids[0] != 0 || ids[1] != 1 || ids[2] != 2 {
		t.Errorf("unexpected ids %v, want [0 1 2]", ids)
	}
}

func TestTieBreakFirstRegisteredWins(t *testing.T) {
	tr := NewDefault()
	// Two objects equidistant from a single future detection.
	tr.Update([]Box{
		NewBox(0, 0, 10, 10),  // id 0, centroid (5,5)
		NewBox(20, 0, 10, 10), // id 1, centroid (25,5)
	})

	// Detection centroid (15,5) is exactly 10px from both.
	objects := tr.Update([]Box{NewBox(10, 0, 10, 10)})

	if objects[0] != NewBox(10, 0, 10, 10) {
		t.Errorf("expected first-registered object to win the tie, got %+v", objects)
	}
	if got := tr.Disappeared(0); got != 0 {
		t.Errorf("object 0 disappeared = %d, want 0", got)
	}
	if got := tr.Disappeared(1); got != 1 {
		t.Errorf("object 1 disappeared = %d, want 1", got)
	}
}

func TestShortestMatchResolvedFirst(t *testing.T) {
	tr := NewDefault()
	tr.Update([]Box{
		NewBox(0, 0, 10, 10),   // id 0, centroid (5,5)
		NewBox(40, 0, 10, 10),  // id 1, centroid (45,5)
	})

	// One detection lands near id 1, one in between but closer to id 0 only
	// after id 1 claims its nearest. Ordering rows by minimum distance must
	// give id 1 the close detection even though id 0 was registered first.
	objects := tr.Update([]Box{
		NewBox(25, 0, 10, 10), // centroid (30,5): 25px from id 0, 15px from id 1
		NewBox(42, 0, 10, 10), // centroid (47,5): 42px from id 0, 2px from id 1
	})

	if objects[1] != NewBox(42, 0, 10, 10) {
		t.Errorf("object 1 = %+v, want the nearest detection", objects[1])
	}
	if objects[0] != NewBox(25, 0, 10, 10) {
		t.Errorf("object 0 = %+v, want the remaining detection", objects[0])
	}
}

func TestMatchAtExactThresholdAccepted(t *testing.T) {
	tr := New(DefaultMaxDisappeared, 80.0)
	tr.Update([]Box{NewBox(0, 0, 10, 10)}) // centroid (5,5)

	// Centroid displacement exactly 80: not greater than maxDistance, so it
	// still counts as the same object.
	objects := tr.Update([]Box{NewBox(80, 0, 10, 10)}) // centroid (85,5)

	if len(objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(objects))
	}
	if objects[0] != NewBox(80, 0, 10, 10) {
		t.Errorf("object 0 = %+v, want matched box", objects[0])
	}
}

func TestMatchResetsDisappearedCount(t *testing.T) {
	tr := NewDefault()
	tr.Update([]Box{NewBox(100, 100, 50, 50)})
	tr.Update(nil)
	tr.Update(nil)
	if got := tr.Disappeared(0); got != 2 {
		t.Fatalf("disappeared = %d, want 2", got)
	}

	tr.Update([]Box{NewBox(102, 101, 50, 50)})
	if got := tr.Disappeared(0); got != 0 {
		t.Errorf("disappeared after rematch = %d, want 0", got)
	}
}

func TestSurplusDetectionsRegister(t *testing.T) {
	tr := NewDefault()
	tr.Update([]Box{NewBox(100, 100, 50, 50)})

	objects := tr.Update([]Box{
		NewBox(102, 101, 50, 50),
		NewBox(500, 500, 50, 50),
		NewBox(700, 100, 50, 50),
	})

	if len(objects) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(objects))
	}
	if got := tr.Disappeared(0); got != 0 {
		t.Errorf("matched object disappeared = %d, want 0", got)
	}
	ids := tr.IDs()
	if ids[1] != 1 || ids[2] != 2 {
		t.Errorf("new detections got ids %v, want sequential 1 and 2", ids[1:])
	}
}
