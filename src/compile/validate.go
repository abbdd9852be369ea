package compile

import (
	"fmt"
	"regexp"

	"github.com/tidesql/tidesql/src/stmt"
)

var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidateIdentifier checks that a name is a safe SQL identifier.
// Quoting handles reserved words; this guards against injection through
// names that reach the compiler from outside generated code.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier is empty")
	}
	if len(name) > 63 {
		return fmt.Errorf("identifier %q exceeds 63 characters", name)
	}
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("identifier %q contains invalid characters", name)
	}
	return nil
}

// validateAST checks the structural invariants of a statement tree
// before compilation. Expression-level problems (expanding parameters
// outside IN, empty fixed lists) surface during compilation instead.
func validateAST(ast *stmt.AST) error {
	if ast == nil {
		return compileErrf("statement", "nil statement tree")
	}

	for _, cte := range ast.CTEs {
		if err := ValidateIdentifier(cte.Name); err != nil {
			return compileErrf("with", "invalid CTE name: %v", err)
		}
		if err := validateAST(cte.Query); err != nil {
			return err
		}
	}

	if ast.SetOp != nil {
		if err := validateAST(ast.SetOp.Left); err != nil {
			return err
		}
		return validateAST(ast.SetOp.Right)
	}

	switch ast.Kind {
	case stmt.SelectStatement:
		if ast.FromTable.Name == "" {
			return compileErrf("select", "missing FROM table")
		}
	case stmt.InsertStatement:
		if ast.FromTable.Name == "" {
			return compileErrf("insert", "missing target table")
		}
		if len(ast.InsertCols) == 0 {
			return compileErrf("insert", "no columns specified")
		}
		if len(ast.InsertCols) != len(ast.InsertVals) {
			return compileErrf("insert", "%d columns but %d values",
				len(ast.InsertCols), len(ast.InsertVals))
		}
	case stmt.UpdateStatement:
		if ast.FromTable.Name == "" {
			return compileErrf("update", "missing target table")
		}
		if len(ast.SetClauses) == 0 {
			return compileErrf("update", "no SET clauses")
		}
	case stmt.DeleteStatement:
		if ast.FromTable.Name == "" {
			return compileErrf("delete", "missing target table")
		}
	default:
		return compileErrf("statement", "unknown kind: %q", string(ast.Kind))
	}
	return nil
}
