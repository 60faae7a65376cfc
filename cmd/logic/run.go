package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/gokanquery/internal/parallel"
	"github.com/gitrdm/gokanquery/internal/repl"
	"github.com/gitrdm/gokanquery/pkg/logic"
	"github.com/gitrdm/gokanquery/pkg/reader"
)

// runFiles executes each file in order against one session.
func runFiles(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	s, cleanup, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if jobs > 1 {
		err = runBatch(ctx, s, args)
	} else {
		err = runSequential(ctx, s, args)
	}
	if err != nil {
		return err
	}
	logger.Debug("run finished", zap.Stringer("stats", s.Stats()))
	return nil
}

func runSequential(ctx context.Context, s *repl.Session, paths []string) error {
	for _, path := range paths {
		src, err := readSource(path)
		if err != nil {
			return err
		}
		logger.Debug("running file", zap.String("path", path))
		if err := s.Exec(ctx, path, src); err != nil {
			return err
		}
	}
	return nil
}

// runBatch declares the facts of every file first, then answers all the
// queries concurrently and prints the results in file order.
func runBatch(ctx context.Context, s *repl.Session, paths []string) error {
	var queries [][]logic.Term
	for _, path := range paths {
		src, err := readSource(path)
		if err != nil {
			return err
		}
		stmts, err := reader.ParseStatements(path, src)
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
				queries = append(queries, stmt.Goals)
			}
		}
	}

	results, err := parallel.AnswerAll(ctx, s.Engine(), queries, s.SolutionLimit(), jobs, logger)
	if err != nil {
		return err
	}
	for _, r := range results {
		s.Report(r.Answers)
	}
	return nil
}

func readSource(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "read source")
	}
	return string(src), nil
}
