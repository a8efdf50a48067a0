package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kcar/core/internal/models"
	"github.com/kcar/core/internal/relgraph"
	"github.com/kcar/core/internal/steiner"
)

// BatchResult is one answered line of a batch file. Exactly one of Tree and
// Error is set.
type BatchResult struct {
	Line     int                 `json:"line"`
	Keywords []string            `json:"keywords"`
	Tree     *models.SteinerTree `json:"tree,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// maxBatchLine bounds one line of a batch file.
const maxBatchLine = 16 << 20

type batchQuery struct {
	line     int
	keywords []string
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Answer many queries against one graph",
	Long:  "Solves every query of a file concurrently against a single shared relatedness graph",
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		var r io.Reader = os.Stdin
		if BatchFile != "-" {
			f, err := os.Open(BatchFile)
			if err != nil {
				log.Fatalf("main: %s", err)
			}
			defer f.Close()
			r = f
		}

		queries, err := parseBatch(r)
		if err != nil {
			log.Fatalf("main: %s", err)
		}

		g, _, err := loadGraph()
		if err != nil {
			log.Fatalf("main: %s", err)
		}

		results, err := runBatch(context.Background(), g, queries, BatchConcurrency, solverOptions()...)
		if err != nil {
			log.Fatalf("main: %s", err)
		}
		if err := emitJSON(results); err != nil {
			log.Fatalf("main: %s", err)
		}
	},
}

// parseBatch reads one query per line. Keywords are separated by ';'.
// Blank lines and lines starting with '#' are skipped.
func parseBatch(r io.Reader) ([]batchQuery, error) {
	var queries []batchQuery

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxBatchLine)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var keywords []string
		for _, kw := range strings.Split(text, ";") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) > 0 {
			queries = append(queries, batchQuery{line: line, keywords: keywords})
		}
	}
	return queries, scanner.Err()
}

// runBatch solves queries against g with at most concurrency solvers at a
// time. A failed query is reported in its result; only cancellation of ctx
// aborts the batch. Results keep the input order.
func runBatch(ctx context.Context, g *relgraph.Graph, queries []batchQuery, concurrency int, opts ...steiner.Option) ([]BatchResult, error) {
	results := make([]BatchResult, len(queries))

	eg, egCtx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		eg.SetLimit(concurrency)
	}

	solver := steiner.New(g, opts...)
	for i, q := range queries {
		i, q := i, q
		eg.Go(func() error {
			res := BatchResult{Line: q.line, Keywords: q.keywords}

			tree, err := solver.Solve(egCtx, q.keywords)
			switch {
			case err == nil:
				model := tree.Model(g)
				res.Tree = &model
			case egCtx.Err() != nil:
				return err
			default:
				res.Error = err.Error()
				log.WithField("line", q.line).WithError(err).Debug("Batch query failed")
			}

			results[i] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
