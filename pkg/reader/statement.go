package reader

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"github.com/gitrdm/gokanquery/pkg/logic"
)

// Statement keywords.
const (
	FactKeyword  = "fact"
	QueryKeyword = "query"
)

// Kind distinguishes fact declarations from queries.
type Kind int

const (
	KindFact Kind = iota
	KindQuery
)

func (k Kind) String() string {
	switch k {
	case KindFact:
		return FactKeyword
	case KindQuery:
		return QueryKeyword
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Statement is one top-level form: (fact conclusion hypothesis...) or
// (query goal...).
type Statement struct {
	Kind Kind
	Pos  lexer.Position

	// Fact is set for KindFact.
	Fact *logic.Fact
	// Goals is set for KindQuery.
	Goals []logic.Term
}

func (s Statement) String() string {
	if s.Kind == KindFact {
		return s.Fact.String()
	}
	return logic.NewPair(logic.Sym(QueryKeyword), logic.List(s.Goals...)).String()
}

// ParseStatements parses src into statements. name identifies the source in
// error messages.
func ParseStatements(name, src string) ([]Statement, error) {
	prog, err := sexpParser.ParseString(name, src)
	if err != nil {
		return nil, errors.Wrapf(err, "reader: parse %s", name)
	}

	stmts := make([]Statement, 0, len(prog.Exprs))
	for _, e := range prog.Exprs {
		stmt, err := statement(e)
		if err != nil {
			return nil, errors.Wrapf(err, "reader: %s", e.Pos)
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func statement(e *sexp) (Statement, error) {
	parts, ok := logic.AsList(e.term())
	if !ok || len(parts) == 0 {
		return Statement{}, errors.New("expected (fact ...) or (query ...)")
	}
	head, ok := parts[0].(*logic.Atom)
	if !ok {
		return Statement{}, errors.Errorf("expected fact or query, got %s", parts[0])
	}

	switch {
	case head.IsSymbol(FactKeyword):
		if len(parts) < 2 {
			return Statement{}, errors.New("fact requires a conclusion")
		}
		f, err := logic.NewFact(parts[1], parts[2:]...)
		if err != nil {
			return Statement{}, err
		}
		return Statement{Kind: KindFact, Pos: e.Pos, Fact: f}, nil
	case head.IsSymbol(QueryKeyword):
		if len(parts) < 2 {
			return Statement{}, errors.New("query requires at least one goal")
		}
		return Statement{Kind: KindQuery, Pos: e.Pos, Goals: parts[1:]}, nil
	default:
		return Statement{}, errors.Errorf("unknown statement %s", head)
	}
}

// Load adds every fact statement to store, in order, and returns the query
// statements.
func Load(store *logic.Store, stmts []Statement) ([]Statement, error) {
	var queries []Statement
	for _, s := range stmts {
		switch s.Kind {
		case KindFact:
			if err := store.AddFact(s.Fact); err != nil {
				return nil, errors.Wrapf(err, "reader: %s", s.Pos)
			}
		case KindQuery:
			queries = append(queries, s)
		}
	}
	return queries, nil
}
