package pass1

import (
	"strings"

	"github.com/sicxe/assembler/parser"
)

// Evaluate computes expr left to right: no operator
// precedence, no parentheses, a strict chain of terms joined by '+' or
// '-'. A term is '*' (the current location counter), a numeric literal,
// or a symbol name looked up in symtab. The result is unresolvable if
// any term in the chain is an undefined symbol.
func Evaluate(expr string, symtab *parser.SymbolTable, locctr uint32) (value uint32, resolvable bool) {
	terms, ops := splitExpr(expr)
	if len(terms) == 0 {
		return 0, false
	}

	value, resolvable = evalTerm(terms[0], symtab, locctr)
	for i, op := range ops {
		v, ok := evalTerm(terms[i+1], symtab, locctr)
		resolvable = resolvable && ok
		if op == '-' {
			value -= v
		} else {
			value += v
		}
	}
	return value, resolvable
}

// IsPlainSymbol reports whether expr is nothing but a single symbol
// reference: no '+'/'-' chain, not the current-location '*', and not a
// numeric literal. A WORD whose operand is a plain symbol bakes that
// symbol's absolute address into the object code and so needs a
// modification record; a numeric constant or location-counter
// expression does not.
func IsPlainSymbol(expr string) bool {
	terms, ops := splitExpr(expr)
	if len(terms) != 1 || len(ops) != 0 {
		return false
	}
	term := strings.TrimSpace(terms[0])
	if term == "" || term == "*" {
		return false
	}
	if _, err := parser.ParseNumeric(term); err == nil && isNumericTerm(term) {
		return false
	}
	return true
}

// isNumericTerm reports whether term is written as a number. Labels
// start with a letter, so a term starting with a digit or sign is a
// literal and anything else is a symbol name, even one such as "A" or
// "BEEF" that would also parse as bare hex.
func isNumericTerm(term string) bool {
	return term != "" && ((term[0] >= '0' && term[0] <= '9') || term[0] == '+' || term[0] == '-')
}

// splitExpr splits expr into its terms and the operators joining them.
// A leading '+' or '-' belongs to the first term rather than splitting
// it, since SIC/XE expressions have no unary operators.
func splitExpr(expr string) (terms []string, ops []byte) {
	var cur strings.Builder
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if (c == '+' || c == '-') && i > 0 {
			terms = append(terms, cur.String())
			ops = append(ops, c)
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	terms = append(terms, cur.String())
	return terms, ops
}

func evalTerm(term string, symtab *parser.SymbolTable, locctr uint32) (uint32, bool) {
	term = strings.TrimSpace(term)
	if term == "*" {
		return locctr, true
	}
	if v, err := parser.ParseNumeric(term); err == nil && isNumericTerm(term) {
		return uint32(v), true
	}
	if v, ok := symtab.Lookup(strings.ToUpper(term)); ok {
		return v, true
	}
	return 0, false
}
