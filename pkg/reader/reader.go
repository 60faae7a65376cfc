// Package reader parses the surface syntax of the logic language into terms
// and statements.
//
// The syntax is a small S-expression language:
//
//	; a comment
//	(fact (parent abraham barack))
//	(fact (ancestor ?a ?y) (parent ?a ?y))
//	(query (ancestor ?who barack))
//
// Symbols are bare words, variables start with '?', numbers are integers or
// floats, and (a b . c) writes a dotted list.
package reader

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"github.com/gitrdm/gokanquery/pkg/logic"
)

var (
	sexpLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `;[^\n]*`},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Var", Pattern: `\?[^\s();]+`},
		{Name: "Float", Pattern: `[-+]?\d+\.\d+(?:[eE][-+]?\d+)?|[-+]?\d+[eE][-+]?\d+`},
		{Name: "Int", Pattern: `[-+]?\d+`},
		{Name: "Paren", Pattern: `[()]`},
		{Name: "Symbol", Pattern: `[^\s();.][^\s();]*|\.[^\s();]+`},
		{Name: "Dot", Pattern: `\.`},
	})
	sexpParser = participle.MustBuild[program](
		participle.Lexer(sexpLexer),
		participle.Elide("Comment", "Whitespace"),
	)
)

type program struct {
	Exprs []*sexp `@@*`
}

type sexp struct {
	Pos lexer.Position

	List   *list    `  @@`
	Var    *string  `| @Var`
	Float  *float64 `| @Float`
	Int    *int64   `| @Int`
	Symbol *string  `| @Symbol`
}

type list struct {
	Elems []*sexp `"(" @@*`
	Tail  *sexp   `( Dot @@ )? ")"`
}

func (s *sexp) term() logic.Term {
	switch {
	case s.List != nil:
		elems := make([]logic.Term, len(s.List.Elems))
		for i, e := range s.List.Elems {
			elems[i] = e.term()
		}
		if s.List.Tail != nil {
			return logic.ListTail(s.List.Tail.term(), elems...)
		}
		return logic.List(elems...)
	case s.Var != nil:
		return logic.NewVar((*s.Var)[1:])
	case s.Float != nil:
		return logic.NewAtom(*s.Float)
	case s.Int != nil:
		return logic.NewAtom(*s.Int)
	default:
		return logic.Sym(*s.Symbol)
	}
}

// ParseTerms parses every expression in src. name identifies the source in
// error messages.
func ParseTerms(name, src string) ([]logic.Term, error) {
	prog, err := sexpParser.ParseString(name, src)
	if err != nil {
		return nil, errors.Wrapf(err, "reader: parse %s", name)
	}
	terms := make([]logic.Term, len(prog.Exprs))
	for i, e := range prog.Exprs {
		terms[i] = e.term()
	}
	return terms, nil
}

// ParseTerm parses exactly one expression.
func ParseTerm(src string) (logic.Term, error) {
	terms, err := ParseTerms("<term>", src)
	if err != nil {
		return nil, err
	}
	if len(terms) != 1 {
		return nil, errors.Errorf("reader: expected one expression, got %d", len(terms))
	}
	return terms[0], nil
}

// MustParseTerm is ParseTerm that panics on error. Intended for tests and
// examples.
func MustParseTerm(src string) logic.Term {
	t, err := ParseTerm(src)
	if err != nil {
		panic(err)
	}
	return t
}
