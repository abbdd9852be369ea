package engine

import (
	"context"
	"fmt"
	"sync/atomic"
)

// JoinMode controls how a connection wrapped around an externally
// managed transaction chooses ROOT vs NESTED on its first begin.
type JoinMode int

const (
	// JoinTakeOver assumes full control: the first begin adopts the
	// external transaction as its root and commit/rollback drive it
	// directly.
	JoinTakeOver JoinMode = iota

	// JoinSavepoint never touches the external transaction; every begin
	// nests under it via savepoint.
	JoinSavepoint

	// JoinConditional nests via savepoint only when the external
	// connection is already inside a savepoint; otherwise the joined
	// transaction leaves commit to the external owner while rollback
	// still rolls the external transaction back.
	JoinConditional
)

func (m JoinMode) String() string {
	switch m {
	case JoinTakeOver:
		return "take-over"
	case JoinSavepoint:
		return "savepoint"
	case JoinConditional:
		return "conditional"
	default:
		return fmt.Sprintf("JoinMode(%d)", int(m))
	}
}

// ParseJoinMode converts a configuration string to a JoinMode.
func ParseJoinMode(s string) (JoinMode, error) {
	switch s {
	case "", "take-over":
		return JoinTakeOver, nil
	case "savepoint":
		return JoinSavepoint, nil
	case "conditional":
		return JoinConditional, nil
	default:
		return 0, fmt.Errorf("unknown join mode %q", s)
	}
}

// InvalidStateError reports an illegal transaction transition or
// concurrent misuse of a single transaction object. It is a
// programming-error-class failure and is never retried.
type InvalidStateError struct {
	Op    string
	State string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state: cannot %s: %s", e.Op, e.State)
}

const (
	txActive int32 = iota
	txCommitted
	txRolledBack
)

func stateName(s int32) string {
	switch s {
	case txActive:
		return "active"
	case txCommitted:
		return "already committed"
	case txRolledBack:
		return "already rolled back"
	default:
		return "unknown"
	}
}

// Transaction is one marker on a connection's transaction stack. The
// bottom marker is usually the root, holding the physical BEGIN; deeper
// markers are savepoints. A connection joined to an external
// transaction may instead have a savepoint or deferred-commit marker at
// the bottom, per JoinMode.
//
// A Transaction is not safe for concurrent use; concurrent or reentrant
// state changes are detected and rejected with InvalidStateError rather
// than interleaved.
type Transaction struct {
	conn  *Connection
	depth int

	// root markers issue physical BEGIN/COMMIT/ROLLBACK. Non-root
	// markers operate on the savepoint named by their depth.
	root bool

	// ownerCommits marks a conditionally-joined bottom marker whose
	// commit is deferred to the external owner. Rollback is not
	// deferred: discarded work must not survive into the owner's
	// commit, so it rolls the external transaction back on the wire.
	ownerCommits bool

	state    atomic.Int32
	inFlight atomic.Bool
}

func savepointName(depth int) string {
	return fmt.Sprintf("tsq_sp_%d", depth)
}

// Depth returns the marker's position on the stack; 1 is the bottom.
func (tx *Transaction) Depth() int { return tx.depth }

// Active reports whether the marker has neither committed nor rolled
// back.
func (tx *Transaction) Active() bool { return tx.state.Load() == txActive }

// enter is the optimistic guard against concurrent and reentrant state
// changes on one transaction object. It is not a lock: the second
// conflicting caller fails instead of waiting, which also catches a
// hook on the same goroutine calling back into the transaction.
func (tx *Transaction) enter(op string) error {
	if !tx.inFlight.CompareAndSwap(false, true) {
		return &InvalidStateError{Op: op, State: "another operation is in progress"}
	}
	if s := tx.state.Load(); s != txActive {
		tx.inFlight.Store(false)
		return &InvalidStateError{Op: op, State: stateName(s)}
	}
	return nil
}

func (tx *Transaction) exit() { tx.inFlight.Store(false) }

// Begin opens a nested transaction under this one via savepoint.
func (tx *Transaction) Begin(ctx context.Context) (*Transaction, error) {
	if err := tx.enter("begin nested"); err != nil {
		return nil, err
	}
	defer tx.exit()

	if tx.conn.top() != tx {
		return nil, &InvalidStateError{Op: "begin nested", State: "not the innermost transaction"}
	}
	return tx.conn.beginNested(ctx)
}

// Commit finalizes the marker. The root issues a physical COMMIT; a
// savepoint marker releases its savepoint and leaves the transaction
// below open. Committing with an open nested transaction underneath is
// rejected.
func (tx *Transaction) Commit(ctx context.Context) error {
	if err := tx.enter("commit"); err != nil {
		return err
	}
	defer tx.exit()

	if tx.conn.top() != tx {
		return &InvalidStateError{Op: "commit", State: "a nested transaction is still open"}
	}

	switch {
	case tx.ownerCommits:
		// The external owner finishes the physical transaction.
		tx.state.Store(txCommitted)
		tx.conn.pop()

	case tx.root:
		if err := tx.conn.execControl(ctx, "COMMIT"); err != nil {
			tx.state.Store(txRolledBack)
			tx.conn.clearStack()
			tx.conn.markTxClosed()
			return err
		}
		tx.state.Store(txCommitted)
		tx.conn.pop()
		tx.conn.markTxClosed()

	default:
		sql := "RELEASE SAVEPOINT " + savepointName(tx.depth)
		if err := tx.conn.execControl(ctx, sql); err != nil {
			return err
		}
		tx.state.Store(txCommitted)
		tx.conn.pop()
	}
	return nil
}

// Rollback undoes the marker. The bottom of the stack discards every
// marker above it: a root or conditionally-joined marker issues a
// physical ROLLBACK, a savepoint-joined bottom marker rolls back to its
// savepoint. A nested savepoint marker rolls back to its savepoint,
// leaving the work below pending.
func (tx *Transaction) Rollback(ctx context.Context) error {
	if err := tx.enter("rollback"); err != nil {
		return err
	}
	defer tx.exit()

	if tx.conn.bottom() == tx {
		// Unconditional: any still-open nested markers are discarded.
		tx.conn.closeNestedAbove(tx)
		tx.state.Store(txRolledBack)
		tx.conn.clearStack()

		switch {
		case tx.root || tx.ownerCommits:
			err := tx.conn.execControl(ctx, "ROLLBACK")
			tx.conn.markTxClosed()
			return err
		default:
			return tx.conn.execControl(ctx, "ROLLBACK TO SAVEPOINT "+savepointName(tx.depth))
		}
	}

	if tx.conn.top() != tx {
		return &InvalidStateError{Op: "rollback", State: "a nested transaction is still open"}
	}
	if err := tx.conn.execControl(ctx, "ROLLBACK TO SAVEPOINT "+savepointName(tx.depth)); err != nil {
		return err
	}
	tx.state.Store(txRolledBack)
	tx.conn.pop()
	return nil
}
