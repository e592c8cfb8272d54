package splitkernel

import (
	"sync"

	"github.com/pkg/errors"

	"radixtree/taskqueue"
	"radixtree/treesink"
	"radixtree/types"
)

// Finalize is the Leaf Finaliser (spec §4.4): invoked once after the
// Driver's main loop exhausts the bit counter while tasks remain. Every
// remaining task becomes a leaf unconditionally — no output tasks are
// produced, so only the leaf queue's atomic cursor is touched.
func Finalize(in *taskqueue.Queue, leaves *taskqueue.LeafQueue, sink treesink.Writer, workers int) error {
	tasks := in.Live()
	if len(tasks) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = Config{}.workers()
	}

	batch := (len(tasks) + workers - 1) / workers
	if batch < 1 {
		batch = 1
	}

	var wg sync.WaitGroup
	errs := make([]error, (len(tasks)+batch-1)/batch)

	group := 0
	for start := 0; start < len(tasks); start += batch {
		end := start + batch
		if end > len(tasks) {
			end = len(tasks)
		}
		idx := group
		group++
		wg.Add(1)
		go func(chunk []types.SplitTask, slot int) {
			defer wg.Done()
			errs[slot] = finalizeGroup(chunk, leaves, sink)
		}(tasks[start:end], idx)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func finalizeGroup(chunk []types.SplitTask, leaves *taskqueue.LeafQueue, sink treesink.Writer) error {
	base, ok := leaves.AllocBatch(len(chunk))
	if !ok {
		return errors.Errorf("splitkernel: leaf queue exhausted during finalize: need base %d + %d slots, capacity %d", base, len(chunk), leaves.Cap())
	}

	for i, t := range chunk {
		leafIdx := uint32(base + i)
		leaves.Set(base+i, types.LeafRange{Begin: t.Begin, End: t.End})
		if err := sink.WriteLeaf(leafIdx, t.Begin, t.End); err != nil {
			return err
		}
		if err := sink.WriteNode(t.NodeID, false, false, leafIdx); err != nil {
			return err
		}
	}
	return nil
}
