// Package driver implements the host-side loop from spec §4.5: it seeds
// the root split task, ping-pongs the two task queues through
// splitkernel.Split level by level, grows tree storage ahead of each
// level, and finishes with splitkernel.Finalize for any tasks the bit
// counter outlives.
//
// Grounded on the teacher's main.go phased orchestration (bootstrap →
// build → report, cold-path logged, fatal on malformed setup data) and
// on the literal CUDA host loop in bintree_gen_inline.h's generate().
package driver

import (
	"github.com/pkg/errors"

	"radixtree/logx"
	"radixtree/splitkernel"
	"radixtree/taskqueue"
	"radixtree/treesink"
	"radixtree/types"
)

// Options carries the external interface from spec §6: codes are passed
// separately to Build, everything else tunable lives here.
type Options struct {
	// Bits is B from spec §3: the number of significant bits to
	// consider, 1..32.
	Bits int
	// MaxLeafSize is the largest range a leaf may cover before the
	// splitter stops subdividing it, must be >= 1.
	MaxLeafSize uint32
	// KeepSingletons selects the bit-skip-disabled, explicit-singleton-
	// chain mode described in spec §4.2/§4.3.
	KeepSingletons bool
	// Workers caps the goroutine fan-out per level; <= 0 defaults to
	// runtime.GOMAXPROCS(0) (see splitkernel.Config).
	Workers int
	// SkipSortedCheck disables the O(N) ascending-order debug check
	// spec §7 calls optional. Leave false unless the caller has already
	// verified the input is sorted and wants to skip the scan.
	SkipSortedCheck bool
	// Logger receives one line per level plus terminal summary. Defaults
	// to a no-op logger if nil.
	Logger *logx.Logger
}

// Result publishes the two counts spec §6 requires alongside the sink's
// own node/leaf arrays. Node 0 is always the root.
type Result struct {
	TotalNodes  uint32
	TotalLeaves uint32
}

// Build runs the full construction described in spec §4.5 against codes,
// writing node and leaf records into sink. Returns a wrapped error for
// any of the three fatal kinds in spec §7 — malformed input, capacity
// exhaustion, or a backend failure bubbled up from sink.
func Build(codes []types.Code, opts Options, sink treesink.Writer) (Result, error) {
	if err := validate(codes, opts); err != nil {
		return Result{}, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logx.Nop()
	}

	n := uint32(len(codes))
	cfg := splitkernel.Config{
		MaxLeafSize:    opts.MaxLeafSize,
		KeepSingletons: opts.KeepSingletons,
		Workers:        opts.Workers,
	}

	// Spec §3: queues need capacity >= N; the partition invariant (I1)
	// keeps the live task count at any one level at or below N.
	queueCap := int(n)
	queues := [2]*taskqueue.Queue{
		taskqueue.NewQueue(queueCap),
		taskqueue.NewQueue(queueCap),
	}
	leaves := taskqueue.NewLeafQueue(int(n))

	nodeReserve := ceilDiv(n, opts.MaxLeafSize) * 2
	if nodeReserve < 1 {
		nodeReserve = 1
	}
	if err := sink.ReserveNodes(int(nodeReserve)); err != nil {
		return Result{}, errors.Wrap(err, "driver: reserve_nodes")
	}
	if err := sink.ReserveLeaves(int(n)); err != nil {
		return Result{}, errors.Wrap(err, "driver: reserve_leaves")
	}

	inIdx, outIdx := 0, 1
	base, ok := queues[inIdx].AllocBatch(1)
	if !ok {
		return Result{}, errors.New("driver: capacity exhaustion: could not seed root task")
	}
	queues[inIdx].Set(base, types.SplitTask{NodeID: 0, Begin: 0, End: n, Bit: int32(opts.Bits - 1)})

	nNodes := uint32(1)
	level := int32(opts.Bits - 1)

	for queues[inIdx].Len() > 0 && level >= 0 {
		need := nNodes + 2*uint32(queues[inIdx].Len())
		if err := sink.ReserveNodes(int(need)); err != nil {
			return Result{}, errors.Wrap(err, "driver: reserve_nodes")
		}

		queues[outIdx].Reset()

		if err := splitkernel.Split(codes, cfg, queues[inIdx], queues[outIdx], leaves, sink, nNodes); err != nil {
			return Result{}, errors.Wrap(err, "driver: split")
		}

		delta := uint32(queues[outIdx].Len())
		nNodes += delta

		logger.Infow("radixtree level complete",
			"level", level, "in", queues[inIdx].Len(), "out", queues[outIdx].Len(),
			"leaves", leaves.Len(), "nodes", nNodes)

		inIdx, outIdx = outIdx, inIdx
		level--
	}

	if queues[inIdx].Len() > 0 {
		if err := splitkernel.Finalize(queues[inIdx], leaves, sink, cfg.Workers); err != nil {
			return Result{}, errors.Wrap(err, "driver: finalize")
		}
	}

	result := Result{TotalNodes: nNodes, TotalLeaves: uint32(leaves.Len())}
	logger.Infow("radixtree build complete", "total_nodes", result.TotalNodes, "total_leaves", result.TotalLeaves)
	return result, nil
}

func validate(codes []types.Code, opts Options) error {
	n := len(codes)
	if n == 0 {
		return errors.New("driver: malformed input: codes must be non-empty")
	}
	if opts.Bits <= 0 || opts.Bits > 32 {
		return errors.Errorf("driver: malformed input: bits must be in [1,32], got %d", opts.Bits)
	}
	if opts.MaxLeafSize == 0 {
		return errors.New("driver: malformed input: max_leaf_size must be >= 1")
	}
	if !opts.SkipSortedCheck {
		for i := 1; i < n; i++ {
			if codes[i] < codes[i-1] {
				return errors.Errorf("driver: malformed input: codes not sorted ascending at index %d", i)
			}
		}
	}
	return nil
}

func ceilDiv(n, d uint32) uint32 {
	if d == 0 {
		return n
	}
	return (n + d - 1) / d
}
