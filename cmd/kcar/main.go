// Package main is the kcar command line: it imports API catalogs into a
// local store, answers keyword queries with group Steiner trees and serves
// the same queries over HTTP.
package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kcar/core/internal/handlers"
	"github.com/kcar/core/internal/steiner"
)

var (
	DBFile  = "kcar.bolt"
	Quiet   bool
	Verbose bool

	DatasetName string
	APIsFile    string
	MashupsFile string

	MaxKeywords = steiner.DefaultMaxKeywords
	MaxCells    = steiner.DefaultMaxCells

	InlineMaxCells = handlers.DefaultInlineMaxCells

	BatchFile        string
	BatchConcurrency = runtime.NumCPU()

	WebAddr      = ":8080"
	QueryTimeout = 30 * time.Second
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&Quiet, "quiet", "q", false, "Activate quiet log output")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Activate verbose log output")
	rootCmd.PersistentFlags().StringVarP(&DBFile, "db", "b", DBFile, "Path to BoltDB file")

	for _, cmd := range []*cobra.Command{statsCmd, queryCmd, batchCmd, serveCmd} {
		addSourceFlags(cmd)
	}

	importCmd.Flags().StringVarP(&APIsFile, "apis", "a", "", "Path to API catalog CSV file")
	importCmd.Flags().StringVarP(&MashupsFile, "mashups", "m", "", "Path to mashup CSV file")
	importCmd.MarkFlagRequired("apis")

	queryCmd.Flags().IntVarP(&MaxKeywords, "max-keywords", "k", MaxKeywords, "Maximum number of distinct keywords per query")
	batchCmd.Flags().IntVarP(&MaxKeywords, "max-keywords", "k", MaxKeywords, "Maximum number of distinct keywords per query")
	serveCmd.Flags().IntVarP(&MaxKeywords, "max-keywords", "k", MaxKeywords, "Maximum number of distinct keywords per query")

	batchCmd.Flags().StringVarP(&BatchFile, "file", "f", "", "Query file, one query per line with keywords separated by ';' (- for STDIN)")
	batchCmd.Flags().IntVarP(&BatchConcurrency, "concurrency", "c", BatchConcurrency, "Maximum number of queries solved at once")
	batchCmd.MarkFlagRequired("file")

	serveCmd.Flags().StringVarP(&WebAddr, "addr", "", WebAddr, "Interface bind address:port spec")
	serveCmd.Flags().IntVarP(&MaxCells, "max-cells", "", MaxCells, "Maximum DP table cells (APIs x keyword subsets) per query")
	serveCmd.Flags().IntVarP(&InlineMaxCells, "inline-max-cells", "", InlineMaxCells, "Maximum DP table cells for queries that post their own dataset")
	serveCmd.Flags().DurationVarP(&QueryTimeout, "query-timeout", "t", QueryTimeout, "Per-query time limit (0 disables)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&DatasetName, "dataset", "d", DatasetName, "Name of an imported dataset")
	cmd.Flags().StringVarP(&APIsFile, "apis", "a", "", "Path to API catalog CSV file (instead of --dataset)")
	cmd.Flags().StringVarP(&MashupsFile, "mashups", "m", "", "Path to mashup CSV file (with --apis)")
}

func main() {
	doConfig()

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kcar",
	Short: "Keyword-driven API composition recommender",
	Long:  "Recommends the cheapest set of co-used web APIs covering a list of category keywords",
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		log.Info("See -h/--help for usage information")
	},
}

func initLogging() {
	level := log.InfoLevel
	if Verbose {
		log.SetReportCaller(true)
		level = log.DebugLevel
	}
	if Quiet {
		level = log.ErrorLevel
	}
	log.SetLevel(level)
}

func emitJSON(x interface{}) error {
	bs, err := json.MarshalIndent(x, "", "    ")
	if err != nil {
		return err
	}
	fmt.Printf("%v\n", string(bs))
	return nil
}

func solverOptions() []steiner.Option {
	return []steiner.Option{
		steiner.WithMaxKeywords(MaxKeywords),
		steiner.WithMaxCells(MaxCells),
	}
}
