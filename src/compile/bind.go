package compile

import (
	"reflect"
	"strings"
)

// renderTemplate produces the statement text stored on a
// CompiledStatement. For static statements this is the final SQL with
// numbered placeholders. Dynamic statements get a readable template:
// expanding slots render as `x IN (:name)` and post-compile slots as
// `:name`, with the concrete per-execution text produced by Bind.
func renderTemplate(cs *CompiledStatement, d Dialect) string {
	var b strings.Builder
	n := 0
	for _, seg := range cs.segments {
		if seg.slot < 0 {
			b.WriteString(seg.text)
			continue
		}
		s := cs.Slots[seg.slot]
		switch s.Kind {
		case ParamNamed, ParamLiteral:
			n++
			b.WriteString(d.Placeholder(n))
		case ParamExpanding:
			b.WriteString(s.LeftSQL)
			if s.Negated {
				b.WriteString(" NOT IN (:")
			} else {
				b.WriteString(" IN (:")
			}
			b.WriteString(s.Name)
			b.WriteString(")")
		case ParamPostCompile:
			b.WriteString(":")
			b.WriteString(s.Name)
		}
	}
	return b.String()
}

// Bind associates execution-time values with a compiled statement and
// returns the final SQL text and driver argument list.
//
// named supplies values for named and expanding parameters. literals
// supplies values for literal slots, collected from the source tree in
// walk order (stmt.LiteralValues). Static statements reuse the cached
// SQL unchanged; dynamic statements rebuild the text with placeholder
// renumbering.
func Bind(cs *CompiledStatement, d Dialect, named map[string]any, literals []any) (string, []any, error) {
	if !cs.dynamic {
		args := make([]any, 0, len(cs.Slots))
		for _, s := range cs.Slots {
			v, err := slotValue(s, named, literals)
			if err != nil {
				return "", nil, err
			}
			args = append(args, v)
		}
		return cs.SQL, args, nil
	}
	return bindDynamic(cs, d, named, literals)
}

func slotValue(s ParamSlot, named map[string]any, literals []any) (any, error) {
	if s.LitIndex >= 0 {
		if s.LitIndex >= len(literals) {
			return nil, bindErrf(s.Name, "literal index %d out of range (%d literals)", s.LitIndex, len(literals))
		}
		return literals[s.LitIndex], nil
	}
	v, ok := named[s.Name]
	if !ok {
		return nil, bindErrf(s.Name, "no value supplied")
	}
	return v, nil
}

func bindDynamic(cs *CompiledStatement, d Dialect, named map[string]any, literals []any) (string, []any, error) {
	var b strings.Builder
	args := make([]any, 0, len(cs.Slots))
	n := 0

	for _, seg := range cs.segments {
		if seg.slot < 0 {
			b.WriteString(seg.text)
			continue
		}
		s := cs.Slots[seg.slot]
		switch s.Kind {
		case ParamNamed, ParamLiteral:
			v, err := slotValue(s, named, literals)
			if err != nil {
				return "", nil, err
			}
			n++
			b.WriteString(d.Placeholder(n))
			args = append(args, v)

		case ParamExpanding:
			v, ok := named[s.Name]
			if !ok {
				return "", nil, bindErrf(s.Name, "no value supplied")
			}
			elems, err := expandList(s.Name, v)
			if err != nil {
				return "", nil, err
			}
			if len(elems) == 0 {
				b.WriteString(d.EmptyInText(s.Negated))
				continue
			}
			b.WriteString(s.LeftSQL)
			if s.Negated {
				b.WriteString(" NOT IN (")
			} else {
				b.WriteString(" IN (")
			}
			for i, e := range elems {
				if i > 0 {
					b.WriteString(", ")
				}
				n++
				b.WriteString(d.Placeholder(n))
				args = append(args, e)
			}
			b.WriteString(")")

		case ParamPostCompile:
			v, err := slotValue(s, named, literals)
			if err != nil {
				return "", nil, err
			}
			if err := writeLiteralText(&b, d, v); err != nil {
				return "", nil, bindErrf(s.Name, "%v", err)
			}
		}
	}
	return b.String(), args, nil
}

// expandList flattens an expanding parameter's runtime value into
// individual elements. Strings and byte slices are scalars, not lists.
func expandList(name string, v any) ([]any, error) {
	if v == nil {
		return nil, bindErrf(name, "expanding parameter is nil, pass an empty slice")
	}
	switch v := v.(type) {
	case []any:
		return v, nil
	case string, []byte:
		return nil, bindErrf(name, "expanding parameter must be a slice, got %T", v)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, bindErrf(name, "expanding parameter must be a slice, got %T", v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
