package compile

import "strings"

// ParamKind classifies a parameter slot in a compiled statement.
type ParamKind int

const (
	// ParamNamed is a named parameter supplied by the caller at
	// execution time.
	ParamNamed ParamKind = iota

	// ParamLiteral is a literal embedded in the tree. Its value is
	// collected from the tree at bind time, in slot order.
	ParamLiteral

	// ParamExpanding is a named list parameter. The slot expands into N
	// placeholders per execution based on the runtime list length.
	ParamExpanding

	// ParamPostCompile is a named parameter the dialect cannot bind.
	// It renders as literal text at bind time from the cached template.
	ParamPostCompile
)

// ParamSlot describes one parameter position in a compiled statement.
type ParamSlot struct {
	Name string
	Kind ParamKind

	// LitIndex is the ordinal of the source literal in tree walk order,
	// or -1 when the slot's value comes from the caller by name.
	LitIndex int

	// For expanding slots the compiler pre-renders the left-hand side of
	// the IN predicate, so the whole predicate can be replaced by a
	// constant truth value when the runtime list is empty.
	LeftSQL string
	Negated bool
}

// segment is one piece of compiled output: either literal SQL text or a
// reference to a parameter slot by index.
type segment struct {
	text string
	slot int // -1 for text segments
}

// CompiledStatement is the immutable result of compiling a statement
// tree for one dialect. It is safe to share across goroutines and
// executions; per-execution state (expanded lists, post-compile values)
// never mutates it.
type CompiledStatement struct {
	// SQL is the finalized statement text with dialect placeholders.
	// For dynamic statements (expanding or post-compile slots present)
	// it is the template form; the per-execution text comes from Bind.
	SQL string

	// Slots lists the parameter positions in placeholder order.
	Slots []ParamSlot

	// Dialect is the name of the dialect this was compiled for.
	Dialect string

	segments    []segment
	dynamic     bool
	returnsRows bool
}

// Dynamic reports whether the statement text must be rebuilt per
// execution (expanding or post-compile parameters present).
func (cs *CompiledStatement) Dynamic() bool { return cs.dynamic }

// ReturnsRows reports whether executing the statement produces a row
// stream (SELECT, or DML with a RETURNING clause).
func (cs *CompiledStatement) ReturnsRows() bool { return cs.returnsRows }

// ParamNames returns the slot names in placeholder order, including
// duplicates. Literal slots report their ordinal name.
func (cs *CompiledStatement) ParamNames() []string {
	names := make([]string, len(cs.Slots))
	for i, s := range cs.Slots {
		names[i] = s.Name
	}
	return names
}

// Writer is the text sink the compiler and dialect hooks write into.
type Writer interface {
	WriteString(s string) (int, error)
	Write(p []byte) (int, error)
}

// sqlWriter accumulates compiled output as text segments interleaved
// with parameter slot references.
type sqlWriter struct {
	segs []segment
	cur  strings.Builder
}

func (w *sqlWriter) WriteString(s string) (int, error) {
	return w.cur.WriteString(s)
}

func (w *sqlWriter) Write(p []byte) (int, error) {
	return w.cur.Write(p)
}

// slot flushes pending text and records a parameter position.
func (w *sqlWriter) slot(i int) {
	w.flush()
	w.segs = append(w.segs, segment{slot: i})
}

func (w *sqlWriter) flush() {
	if w.cur.Len() > 0 {
		w.segs = append(w.segs, segment{text: w.cur.String(), slot: -1})
		w.cur.Reset()
	}
}

func (w *sqlWriter) finish() []segment {
	w.flush()
	return w.segs
}
