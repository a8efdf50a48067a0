package main

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kcar/core/internal/models"
	"github.com/kcar/core/internal/parser"
	"github.com/kcar/core/internal/relgraph"
	"github.com/kcar/core/internal/steiner"
	"github.com/kcar/core/internal/store"
)

var errNoSource = errors.New("no dataset: pass --dataset or --apis")

var importCmd = &cobra.Command{
	Use:   "import [name]",
	Short: "Import an API catalog",
	Long:  "Parse API catalog and mashup CSV files and store them under the given dataset name",
	Args:  cobra.ExactArgs(1),
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := store.With(store.NewConfig(DBFile), func(s *store.Store) error {
			ds, err := parser.LoadDataset(APIsFile, MashupsFile)
			if err != nil {
				return err
			}
			// Build once so a catalog with duplicate names never reaches the store.
			g, err := parser.BuildGraph(ds)
			if err != nil {
				return err
			}
			if err := s.Put(args[0], ds); err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"dataset": args[0],
				"apis":    g.Len(),
				"mashups": len(ds.Mashups),
				"edges":   g.EdgeCount(),
			}).Info("Import finished")
			return nil
		}); err != nil {
			log.Fatalf("main: %s", err)
		}
	},
}

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List imported datasets",
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := store.With(store.NewConfig(DBFile), func(s *store.Store) error {
			names, err := s.List()
			if err != nil {
				return err
			}
			if names == nil {
				names = []string{}
			}
			return emitJSON(names)
		}); err != nil {
			log.Fatalf("main: %s", err)
		}
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm [name]...",
	Aliases: []string{"remove", "delete", "del"},
	Short:   "Remove imported datasets",
	Args:    cobra.MinimumNArgs(1),
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := store.With(store.NewConfig(DBFile), func(s *store.Store) error {
			for _, name := range args {
				if err := s.Delete(name); err != nil {
					return err
				}
				log.WithField("dataset", name).Info("Dataset removed")
			}
			return nil
		}); err != nil {
			log.Fatalf("main: %s", err)
		}
	},
}

var statsCmd = &cobra.Command{
	Use:     "statistics",
	Aliases: []string{"stats", "stat", "st"},
	Short:   "Relatedness graph statistics",
	Long:    "Displays node, edge and per-category counts of the relatedness graph",
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		g, _, err := loadGraph()
		if err != nil {
			log.Fatalf("main: %s", err)
		}
		if err := emitJSON(parser.GraphView(g).Stats); err != nil {
			log.Fatalf("main: %s", err)
		}
	},
}

var queryCmd = &cobra.Command{
	Use:   "query [keyword]...",
	Short: "Recommend APIs covering keywords",
	Long:  "Finds the minimum-weight tree of co-used APIs whose categories cover every keyword",
	Args:  cobra.MinimumNArgs(1),
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		g, _, err := loadGraph()
		if err != nil {
			log.Fatalf("main: %s", err)
		}
		tree, err := steiner.New(g, solverOptions()...).Solve(context.Background(), args)
		if err != nil {
			log.Fatalf("main: %s", err)
		}
		if err := emitJSON(tree.Model(g)); err != nil {
			log.Fatalf("main: %s", err)
		}
	},
}

// loadGraph builds the frozen graph from --apis/--mashups when given, and
// from the stored --dataset otherwise. The returned name labels the source.
func loadGraph() (*relgraph.Graph, string, error) {
	var (
		ds   *models.Dataset
		name string
		err  error
	)

	switch {
	case APIsFile != "":
		name = APIsFile
		if ds, err = parser.LoadDataset(APIsFile, MashupsFile); err != nil {
			return nil, "", err
		}

	case DatasetName != "":
		name = DatasetName
		if err = store.With(store.NewConfig(DBFile), func(s *store.Store) error {
			ds, err = s.Get(DatasetName)
			return err
		}); err != nil {
			return nil, "", err
		}

	default:
		return nil, "", errNoSource
	}

	g, err := parser.BuildGraph(ds)
	if err != nil {
		return nil, "", fmt.Errorf("building graph for %s: %w", name, err)
	}
	return g, name, nil
}
