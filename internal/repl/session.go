// Package repl implements an interactive session over a fact store: facts are
// declared, queries are answered and the results are printed.
package repl

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gitrdm/gokanquery/internal/journal"
	"github.com/gitrdm/gokanquery/internal/metrics"
	"github.com/gitrdm/gokanquery/pkg/logic"
	"github.com/gitrdm/gokanquery/pkg/reader"
)

// Printed query outcomes.
const (
	SuccessText = "Success!"
	FailedText  = "Failed."
)

// Options configures a Session.
type Options struct {
	// DepthLimit bounds rule applications per branch. Negative disables it.
	DepthLimit int

	// SolutionLimit caps the answers printed per query. Zero prints all.
	SolutionLimit int

	// Journal, when set, receives every declared fact.
	Journal *journal.Journal

	Logger *zap.Logger
	Out    io.Writer
}

// Session holds the state of one interactive session.
type Session struct {
	store    *logic.Store
	engine   *logic.Engine
	stats    *logic.Stats
	registry *prometheus.Registry
	journal  *journal.Journal
	logger   *zap.Logger
	out      io.Writer
	styles   styles
	limit    int
}

// NewSession creates a session with an empty store.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	s := &Session{
		store:    logic.NewStore(),
		stats:    &logic.Stats{},
		registry: prometheus.NewRegistry(),
		journal:  opts.Journal,
		logger:   logger,
		out:      out,
		styles:   newStyles(out),
		limit:    opts.SolutionLimit,
	}
	s.engine = logic.NewEngine(s.store,
		logic.WithDepthLimit(opts.DepthLimit),
		logic.WithLogger(logger.Named("search")),
		logic.WithObserver(logic.MultiObserver(s.stats, metrics.New(s.registry))),
	)
	return s
}

// Store returns the session's fact store.
func (s *Session) Store() *logic.Store {
	return s.store
}

// Engine returns the session's search engine.
func (s *Session) Engine() *logic.Engine {
	return s.engine
}

// Stats returns the accumulated search counters.
func (s *Session) Stats() logic.StatsSnapshot {
	return s.stats.Snapshot()
}

// Restore replays the journal into the store. It is a no-op without a
// journal.
func (s *Session) Restore(ctx context.Context) (int, error) {
	if s.journal == nil {
		return 0, nil
	}
	n, err := s.journal.Replay(ctx, s.store)
	if err != nil {
		return n, err
	}
	s.logger.Info("restored facts from journal", zap.Int("facts", n))
	return n, nil
}

// Exec parses src and executes every statement in order. Facts are added to
// the store; queries are answered. Execution stops at the first error.
func (s *Session) Exec(ctx context.Context, name, src string) error {
	stmts, err := reader.ParseStatements(name, src)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		switch stmt.Kind {
		case reader.KindFact:
			if err := s.Declare(ctx, stmt.Fact); err != nil {
				return err
			}
		case reader.KindQuery:
			if _, err := s.Ask(ctx, stmt.Goals); err != nil {
				return err
			}
		}
	}
	return nil
}

// Declare adds f to the store and the journal.
func (s *Session) Declare(ctx context.Context, f *logic.Fact) error {
	if err := s.store.AddFact(f); err != nil {
		return err
	}
	if s.journal != nil {
		if err := s.journal.Append(ctx, f); err != nil {
			return err
		}
	}
	s.logger.Debug("fact declared", zap.Stringer("fact", f), zap.Int("facts", s.store.Len()))
	return nil
}

// Ask answers a query and prints the outcome. It returns the number of
// answers printed.
func (s *Session) Ask(ctx context.Context, goals []logic.Term) (int, error) {
	answers := logic.Take(s.engine.Query(ctx, goals), s.limit)
	if err := ctx.Err(); err != nil {
		return len(answers), err
	}
	s.Report(answers)
	return len(answers), nil
}

// Report prints the outcome of a query: "Failed." when there are no
// answers, otherwise "Success!" followed by one line per answer.
func (s *Session) Report(answers []logic.Answer) {
	if len(answers) == 0 {
		s.println(s.styles.failed.Render(FailedText))
		return
	}
	s.println(s.styles.success.Render(SuccessText))
	for _, a := range answers {
		if line := a.String(); line != "" {
			s.println(s.styles.answer.Render(line))
		}
	}
}

// SolutionLimit returns the maximum number of answers printed per query.
func (s *Session) SolutionLimit() int {
	return s.limit
}

// Command runs a dot command such as ".facts". It reports false when the
// session should end.
func (s *Session) Command(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true, nil
	}

	switch fields[0] {
	case ".help":
		s.println(helpText)
	case ".facts":
		for _, f := range s.store.Facts() {
			s.println(f.String())
		}
	case ".stats":
		s.printStats()
	case ".depth":
		return true, s.depth(fields[1:])
	case ".quit", ".exit":
		return false, nil
	default:
		return true, errors.Errorf("unknown command %s (try .help)", fields[0])
	}
	return true, nil
}

func (s *Session) depth(args []string) error {
	switch len(args) {
	case 0:
		if n, ok := s.engine.DepthLimit(); ok {
			s.println(fmt.Sprintf("depth limit: %d", n))
		} else {
			s.println("depth limit: off")
		}
		return nil
	case 1:
		if args[0] == "off" {
			s.engine.SetDepthLimit(-1)
			return nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.Wrap(err, ".depth")
		}
		s.engine.SetDepthLimit(n)
		s.logger.Debug("depth limit changed", zap.Int("depth_limit", n))
		return nil
	default:
		return errors.New(".depth takes at most one argument")
	}
}

func (s *Session) printStats() {
	s.println(s.stats.Snapshot().String())

	families, err := s.registry.Gather()
	if err != nil {
		s.logger.Warn("failed to gather metrics", zap.Error(err))
		return
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			if labels := m.GetLabel(); len(labels) > 0 {
				pairs := make([]string, 0, len(labels))
				for _, l := range labels {
					pairs = append(pairs, l.GetName()+"="+strconv.Quote(l.GetValue()))
				}
				name += "{" + strings.Join(pairs, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s_count %d", name, h.GetSampleCount()))
				lines = append(lines, fmt.Sprintf("%s_sum %g", name, h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		s.println(s.styles.dim.Render(l))
	}
}

func (s *Session) println(text string) {
	fmt.Fprintln(s.out, text)
}

// PrintError prints err in the error style.
func (s *Session) PrintError(err error) {
	s.println(s.styles.err.Render("error: " + err.Error()))
}

const helpText = `(fact conclusion hypothesis...)  declare a fact or rule
(query goal...)                  answer a query; (not goal...) negates
.facts                           list declared facts
.stats                           search counters and metrics
.depth [N|off]                   show or change the depth limit
.quit                            leave the session`
