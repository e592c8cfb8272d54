// Command buildtree is the builder's phased orchestration entry point:
// load codes, build the tree, optionally persist it, optionally fold the
// top levels into octree nodes, report.
//
// Grounded on the teacher's main.go phased structure (bootstrap → build →
// report), trimmed of the live-chain-sync and websocket phases that have
// no counterpart here.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"radixtree/driver"
	"radixtree/fixtures"
	"radixtree/logx"
	"radixtree/octree"
	"radixtree/treesink"
)

func main() {
	var (
		fixturePath    = flag.String("fixture", "", "path to a JSON fixture file (required)")
		bits           = flag.Int("bits", 0, "significant bit count, overrides the fixture's own Bits field when > 0")
		maxLeafSize    = flag.Uint("max-leaf-size", 4, "maximum codes per leaf")
		keepSingletons = flag.Bool("keep-singletons", false, "keep singleton forwarder nodes instead of bit-skipping past them")
		workers        = flag.Int("workers", 0, "goroutine fan-out per level, 0 = GOMAXPROCS")
		sqlitePath     = flag.String("sqlite", "", "optional path to persist the tree into a sqlite database instead of memory")
		collapse       = flag.Bool("collapse", false, "fold the root's top three binary levels into one octree node and report its mask")
	)
	flag.Parse()

	logger := logx.New()
	defer logger.Sync()

	if err := run(*fixturePath, *bits, uint32(*maxLeafSize), *keepSingletons, *workers, *sqlitePath, *collapse, logger); err != nil {
		logger.Errorw("radixtree build failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(fixturePath string, bitsFlag int, maxLeafSize uint32, keepSingletons bool, workers int, sqlitePath string, collapseRoot bool, logger *logx.Logger) error {
	if fixturePath == "" {
		return errors.New("buildtree: -fixture is required")
	}

	set, err := fixtures.Load(fixturePath)
	if err != nil {
		return errors.Wrap(err, "buildtree: load fixture")
	}

	bits := set.Bits
	if bitsFlag > 0 {
		bits = bitsFlag
	}

	logger.Infow("fixture loaded", "name", set.Name, "codes", len(set.Codes), "bits", bits)

	var sink treesink.Writer
	array := treesink.NewArraySink()
	sink = array

	var sqliteSink *treesink.SQLiteSink
	if sqlitePath != "" {
		sqliteSink, err = treesink.OpenSQLiteSink(sqlitePath)
		if err != nil {
			return errors.Wrap(err, "buildtree: open sqlite sink")
		}
		defer sqliteSink.Close()
		sink = sqliteSink
	}

	opts := driver.Options{
		Bits:           bits,
		MaxLeafSize:    maxLeafSize,
		KeepSingletons: keepSingletons,
		Workers:        workers,
		Logger:         logger,
	}

	result, err := driver.Build(set.Codes, opts, sink)
	if err != nil {
		return errors.Wrap(err, "buildtree: build")
	}

	logger.Infow("build finished", "total_nodes", result.TotalNodes, "total_leaves", result.TotalLeaves)

	if collapseRoot {
		if sqlitePath != "" {
			logger.Infow("skipping octree collapse: root fold only supported against the in-memory array sink")
		} else {
			folded := octree.CollapseTriple(array.Nodes(), 0)
			logger.Infow("root collapsed", "child_mask", fmt.Sprintf("%#02x", folded.ChildMask()), "first_child", folded.ChildOffset())
		}
	}

	return nil
}
