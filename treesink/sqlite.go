// SQLite-backed tree sink. Grounded on the teacher's main.go
// openDatabase/loadPoolsFromDatabase batch-SQL style, adapted from
// read-only pool loading to write-batched node/leaf persistence.
package treesink

import (
	"database/sql"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS tree_nodes (
	id            INTEGER PRIMARY KEY,
	has_left      INTEGER NOT NULL,
	has_right     INTEGER NOT NULL,
	child_or_leaf INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tree_leaves (
	id    INTEGER PRIMARY KEY,
	begin INTEGER NOT NULL,
	end   INTEGER NOT NULL
);
`

// SQLiteSink persists node and leaf records into a SQLite database inside
// a single long-lived transaction, committed once by Close. Writes are
// serialized behind a mutex: tree nodes have disjoint owners in the split
// kernel (spec §5), but a single *sql.Tx does not tolerate concurrent
// Exec calls, so the mutex exists purely for the SQL driver's sake, not
// for tree-invariant reasons.
type SQLiteSink struct {
	db       *sql.DB
	tx       *sql.Tx
	nodeStmt *sql.Stmt
	leafStmt *sql.Stmt
	mu       sync.Mutex
}

// OpenSQLiteSink opens (creating if necessary) a SQLite database at path
// and prepares it to receive a tree via the Writer contract.
func OpenSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "treesink: open sqlite")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "treesink: create schema")
	}
	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "treesink: begin transaction")
	}
	nodeStmt, err := tx.Prepare(`INSERT OR REPLACE INTO tree_nodes(id, has_left, has_right, child_or_leaf) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, errors.Wrap(err, "treesink: prepare node statement")
	}
	leafStmt, err := tx.Prepare(`INSERT OR REPLACE INTO tree_leaves(id, begin, end) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, errors.Wrap(err, "treesink: prepare leaf statement")
	}
	return &SQLiteSink{db: db, tx: tx, nodeStmt: nodeStmt, leafStmt: leafStmt}, nil
}

// ReserveNodes is a no-op: SQLite tables need no preallocation.
func (s *SQLiteSink) ReserveNodes(n int) error { return nil }

// ReserveLeaves is a no-op: SQLite tables need no preallocation.
func (s *SQLiteSink) ReserveLeaves(n int) error { return nil }

// WriteNode inserts or replaces the node record for id.
func (s *SQLiteSink) WriteNode(id uint32, hasLeft, hasRight bool, childOrLeafIndex uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.nodeStmt.Exec(id, boolToInt(hasLeft), boolToInt(hasRight), childOrLeafIndex); err != nil {
		return errors.Wrapf(err, "treesink: write node %d", id)
	}
	return nil
}

// WriteLeaf inserts or replaces the leaf record for id.
func (s *SQLiteSink) WriteLeaf(id uint32, begin, end uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.leafStmt.Exec(id, begin, end); err != nil {
		return errors.Wrapf(err, "treesink: write leaf %d", id)
	}
	return nil
}

// Close commits the pending transaction and closes the database handle.
func (s *SQLiteSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tx.Commit(); err != nil {
		s.db.Close()
		return errors.Wrap(err, "treesink: commit")
	}
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
