// Package splitkernel implements the data-parallel heart of the builder:
// the Split Worker (spec §4.3) and the Leaf Finaliser (spec §4.4).
//
// Both kernels follow the same two-pass, group-batched shape. A "group"
// here is one goroutine's contiguous chunk of the input queue — the CPU
// analogue of a GPU warp in the original source. Within a group:
//
//  1. Decide pass: for every task in the chunk, work out — without
//     writing anywhere shared — how many output slots it needs (0, 1 or
//     2 child tasks) and whether it produces a leaf. Accumulate a local
//     exclusive prefix sum over those counts.
//  2. Claim pass: issue exactly one atomic add per group against the
//     shared output-queue cursor and one against the shared leaf cursor,
//     using the group's total demand. This is the "group-local
//     prefix-sum + single atomic-add" contract spec §4.3/§9 require.
//  3. Write pass: every task writes its own child tasks, its own leaf
//     record, and its own node record at offsets derived from the
//     group's base plus its local prefix-sum position — no two tasks
//     ever contend for the same slot (spec §5).
//
// This mirrors the teacher's own per-core fan-out idiom (router.
// InitCPURings, syncharvester's sync.WaitGroup batches): one goroutine
// per shard, a WaitGroup barrier, no locks on the hot path.
package splitkernel

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"radixtree/bitskip"
	"radixtree/pivot"
	"radixtree/taskqueue"
	"radixtree/treesink"
	"radixtree/types"
)

// Config carries the per-build tuning knobs the kernels need on every
// invocation. It is immutable for the lifetime of one driver.Build call.
type Config struct {
	MaxLeafSize    uint32
	KeepSingletons bool
	// Workers is the number of goroutines each level is split across. A
	// value <= 0 defaults to runtime.GOMAXPROCS(0).
	Workers int
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// plan is the decide-pass output for a single task: how many output slots
// it needs and what to write into them once slots are claimed.
type plan struct {
	task        types.SplitTask
	outputCount int  // 0 (leaf), 1 (singleton forwarder) or 2 (proper split)
	leaf        bool // true iff this task produces a leaf this step
	pivot       uint32
	childBit    int32
	hasLeft     bool // only meaningful when outputCount == 1
	hasRight    bool // only meaningful when outputCount == 1
}

// decide runs steps 1-3 of spec §4.3's per-task algorithm for a single
// task, without touching any shared state.
func decide(codes []types.Code, cfg Config, t types.SplitTask) plan {
	begin, end, bit := t.Begin, t.End, t.Bit

	if !cfg.KeepSingletons {
		bit = bitskip.Find(bit, codes[begin], codes[end-1])
	}

	if end-begin <= cfg.MaxLeafSize || bit < 0 {
		return plan{task: t, outputCount: 0, leaf: true}
	}

	mask := uint32(1) << uint32(bit)
	p := uint32(pivot.Find(codes, int(begin), int(end), mask))

	if p == begin || p == end {
		if cfg.KeepSingletons {
			return plan{
				task:        t,
				outputCount: 1,
				pivot:       p,
				childBit:    bit - 1,
				hasLeft:     p != begin,
				hasRight:    p != end,
			}
		}
		// Bit-skip guarantees codes[begin] and codes[end-1] differ at
		// bit, which forces a non-degenerate pivot; reaching here without
		// keep_singletons means the invariant was violated upstream.
		// Collapse to a leaf rather than emit a node with no children.
		return plan{task: t, outputCount: 0, leaf: true}
	}

	return plan{task: t, outputCount: 2, pivot: p, childBit: bit - 1}
}

// Split is the Split Worker (spec §4.3). It consumes in.Live(), appends
// up to 2*len children to out, appends up to len(in) leaves to leaves,
// and writes exactly len(in) node records to sink. outNodesBase is the
// node index at which the first child node produced by this invocation
// will live (spec §4.3's out_nodes_base).
func Split(codes []types.Code, cfg Config, in, out *taskqueue.Queue, leaves *taskqueue.LeafQueue, sink treesink.Writer, outNodesBase uint32) error {
	tasks := in.Live()
	if len(tasks) == 0 {
		return nil
	}

	workers := cfg.workers()
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
			errs[slot] = splitGroup(codes, cfg, chunk, out, leaves, sink, outNodesBase)
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

// splitGroup runs the decide/claim/write passes for one goroutine's batch
// of tasks — one "group" in spec §4.3/§9's terminology.
func splitGroup(codes []types.Code, cfg Config, chunk []types.SplitTask, out *taskqueue.Queue, leaves *taskqueue.LeafQueue, sink treesink.Writer, outNodesBase uint32) error {
	plans := make([]plan, len(chunk))
	taskOffset := make([]int, len(chunk))
	leafOffset := make([]int, len(chunk))

	totalOut, totalLeaf := 0, 0
	for i, t := range chunk {
		p := decide(codes, cfg, t)
		plans[i] = p
		taskOffset[i] = totalOut
		totalOut += p.outputCount
		if p.leaf {
			leafOffset[i] = totalLeaf
			totalLeaf++
		}
	}

	outBase, ok := out.AllocBatch(totalOut)
	if !ok {
		return errors.Errorf("splitkernel: output task queue exhausted: need base %d + %d slots, capacity %d", outBase, totalOut, out.Cap())
	}
	leafBase, ok := leaves.AllocBatch(totalLeaf)
	if !ok {
		return errors.Errorf("splitkernel: leaf queue exhausted: need base %d + %d slots, capacity %d", leafBase, totalLeaf, leaves.Cap())
	}

	for i, p := range plans {
		switch p.outputCount {
		case 0:
			leafIdx := uint32(leafBase + leafOffset[i])
			leaves.Set(leafBase+leafOffset[i], types.LeafRange{Begin: p.task.Begin, End: p.task.End})
			if err := sink.WriteLeaf(leafIdx, p.task.Begin, p.task.End); err != nil {
				return err
			}
			if err := sink.WriteNode(p.task.NodeID, false, false, leafIdx); err != nil {
				return err
			}

		case 1:
			// Singleton forwarder: the one child carries the whole range
			// forward at the next bit, per spec §4.3 step 4 "keep_singletons".
			slot := outBase + taskOffset[i]
			childID := outNodesBase + uint32(slot)
			out.Set(slot, types.SplitTask{NodeID: childID, Begin: p.task.Begin, End: p.task.End, Bit: p.childBit})
			if err := sink.WriteNode(p.task.NodeID, p.hasLeft, p.hasRight, childID); err != nil {
				return err
			}

		case 2:
			slot := outBase + taskOffset[i]
			leftID := outNodesBase + uint32(slot)
			rightID := leftID + 1
			out.Set(slot, types.SplitTask{NodeID: leftID, Begin: p.task.Begin, End: p.pivot, Bit: p.childBit})
			out.Set(slot+1, types.SplitTask{NodeID: rightID, Begin: p.pivot, End: p.task.End, Bit: p.childBit})
			if err := sink.WriteNode(p.task.NodeID, true, true, leftID); err != nil {
				return err
			}
		}
	}

	return nil
}
