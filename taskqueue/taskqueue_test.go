package taskqueue

import (
	"sync"
	"testing"

	"radixtree/types"
)

func TestQueueAllocBatchDisjoint(t *testing.T) {
	q := NewQueue(100)

	var wg sync.WaitGroup
	seen := make([][2]int, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			base, ok := q.AllocBatch(5)
			if !ok {
				t.Errorf("goroutine %d: AllocBatch overflowed an unfilled queue", i)
				return
			}
			seen[i] = [2]int{base, base + 5}
		}(i)
	}
	wg.Wait()

	if q.Len() != 80 {
		t.Fatalf("Len = %d, want 80", q.Len())
	}

	covered := make([]bool, 100)
	for _, r := range seen {
		for i := r[0]; i < r[1]; i++ {
			if covered[i] {
				t.Fatalf("slot %d claimed twice", i)
			}
			covered[i] = true
		}
	}
}

func TestQueueAllocBatchOverflow(t *testing.T) {
	q := NewQueue(10)
	if _, ok := q.AllocBatch(8); !ok {
		t.Fatalf("first AllocBatch(8) should succeed on a 10-slot queue")
	}
	if _, ok := q.AllocBatch(5); ok {
		t.Fatalf("second AllocBatch(5) should overflow a queue with 2 slots left")
	}
}

func TestQueueResetAndLive(t *testing.T) {
	q := NewQueue(4)
	base, _ := q.AllocBatch(2)
	q.Set(base, types.SplitTask{NodeID: 1})
	q.Set(base+1, types.SplitTask{NodeID: 2})

	if len(q.Live()) != 2 {
		t.Fatalf("Live() len = %d, want 2", len(q.Live()))
	}

	q.Reset()
	if q.Len() != 0 || len(q.Live()) != 0 {
		t.Fatalf("Reset must zero the cursor")
	}
}

func TestQueueReserveGrowsAndPreservesLive(t *testing.T) {
	q := NewQueue(2)
	base, _ := q.AllocBatch(2)
	q.Set(base, types.SplitTask{NodeID: 9})
	q.Set(base+1, types.SplitTask{NodeID: 10})

	q.Reserve(20)
	if q.Cap() < 20 {
		t.Fatalf("Cap = %d, want >= 20", q.Cap())
	}
	live := q.Live()
	if live[0].NodeID != 9 || live[1].NodeID != 10 {
		t.Fatalf("Reserve must preserve existing live entries, got %+v", live)
	}
}

func TestLeafQueueAllocBatchDisjoint(t *testing.T) {
	q := NewLeafQueue(50)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			base, ok := q.AllocBatch(3)
			if !ok {
				t.Errorf("unexpected overflow")
				return
			}
			for j := 0; j < 3; j++ {
				q.Set(base+j, types.LeafRange{Begin: uint32(base + j), End: uint32(base + j + 1)})
			}
		}()
	}
	wg.Wait()

	if q.Len() != 30 {
		t.Fatalf("Len = %d, want 30", q.Len())
	}
	for i, r := range q.Live() {
		if r.Begin != uint32(i) {
			t.Fatalf("slot %d: Begin = %d, want %d (no lost or overwritten writes)", i, r.Begin, i)
		}
	}
}
