package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hako/durafmt"
	"github.com/spf13/cobra"
	"k8s.io/klog"

	"github.com/bcaldwell/ledgermetrics/pkg/config"
	"github.com/bcaldwell/ledgermetrics/pkg/exporter"
	"github.com/bcaldwell/ledgermetrics/pkg/hledger"
	"github.com/bcaldwell/ledgermetrics/pkg/ledgermetrics"
)

var (
	configFile  string
	secretsFile string
	dryRun      bool
	yearOffset  int
	backend     string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgermetrics",
		Short:         "hledger timeseries exporter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	root.PersistentFlags().StringVar(&configFile, "config", "./config.yml", "configuration file")
	root.PersistentFlags().StringVar(&secretsFile, "secrets", "./secrets.ejson", "secrets file")

	export := &cobra.Command{
		Use:   "export",
		Short: "Derive every metric from the ledger and replace them in the timeseries store",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	export.Flags().BoolVar(&dryRun, "dry-run", false, "print payloads instead of sending them")
	export.Flags().IntVar(&yearOffset, "year-offset", 0, "shift every date back by this many years (overrides config)")
	export.Flags().StringVar(&backend, "backend", "", "victoriametrics, promscale, influxdb or postgres (overrides config)")

	root.AddCommand(export)
	return root
}

func runExport(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()

	err := config.ReadConfig(config.ConfigEnvVar, configFile, secretsFile)
	if err != nil {
		return err
	}

	conf := config.CurrentConfig()
	if cmd.Flags().Changed("year-offset") {
		conf.Ledger.YearOffset = yearOffset
	}
	if backend != "" {
		conf.Export.Backend = backend
	}

	opts := ledgermetrics.Options{}
	if conf.Metrics.ReferenceDate != "" {
		opts.ReferenceDate, err = time.Parse(hledger.DateFormat, conf.Metrics.ReferenceDate)
		if err != nil {
			return fmt.Errorf("invalid metrics.referenceDate: %w", err)
		}
		opts.ReferenceDate = opts.ReferenceDate.AddDate(-conf.Ledger.YearOffset, 0, 0)
	}

	runner := hledger.NewRunner(conf.Ledger.Command, conf.Ledger.Args)

	prices, err := hledger.ReadPrices(ctx, runner, conf.Ledger.YearOffset)
	if err != nil {
		return err
	}

	postings, err := hledger.ReadPostings(ctx, runner, conf.Ledger.YearOffset)
	if err != nil {
		return err
	}
	klog.Infof("Read %d prices and %d postings", len(prices), len(postings))

	metrics := ledgermetrics.Derive(prices, postings, opts)

	store, err := exporter.NewStore(ctx, &conf.Export, config.CurrentSecrets(), dryRun)
	if err != nil {
		return err
	}

	exp := exporter.NewExporter(store, dryRun, conf.Export.ShouldResetCache(), cmd.OutOrStdout(), conf.Export.RequestsPerSecond)
	summary, err := exp.Export(ctx, metrics)
	if err != nil {
		return err
	}

	klog.Infof("Exported %d metrics, %d series, %d samples in %s", summary.Metrics, summary.Series, summary.Samples, durafmt.Parse(time.Since(start)).LimitFirstN(2))
	klog.Flush()

	return nil
}
