package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/cobra"

	"github.com/skypie-oracle/precomputer/internal/catalog"
	appconfig "github.com/skypie-oracle/precomputer/internal/config"
	"github.com/skypie-oracle/precomputer/internal/decision"
	"github.com/skypie-oracle/precomputer/internal/enumerate"
	"github.com/skypie-oracle/precomputer/internal/ingest"
	"github.com/skypie-oracle/precomputer/internal/metrics"
	"github.com/skypie-oracle/precomputer/internal/persist"
	"github.com/skypie-oracle/precomputer/internal/pipeline"
	"github.com/skypie-oracle/precomputer/internal/redundancy"
	"github.com/skypie-oracle/precomputer/internal/selector"
	"github.com/skypie-oracle/precomputer/internal/version"
)

var (
	cfg          appconfig.Config
	cfgFile      string
	outputRoot   string
	s3Bucket     string
	otlpEndpoint string

	awsLivePricing   bool
	awsPriceCacheDir string
)

var precomputeCmd = &cobra.Command{
	Use:   "precompute",
	Short: "Enumerate write choices and persist the optimal replication placements",
	RunE:  runPrecompute,
}

func init() {
	flags := precomputeCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "optional HCL file overlaying these flags")
	flags.StringVar(&cfg.RegionSelector, "region-selector", ".*", "region name filter (regex, or cel:<expr>)")
	flags.StringVar(&cfg.ObjectStoreSelector, "object-store-selector", ".*", "object-store name filter (regex, or cel:<expr>)")
	flags.IntVar(&cfg.ReplicationFactor, "replication-factor", 1, "minimum replication factor r_min")
	flags.IntVar(&cfg.ReplicationFactorMax, "replication-factor-max", 1, "maximum replication factor r_max")
	flags.StringVar(&cfg.NetworkFile, "network-file", "", "network price CSV")
	flags.StringVar(&cfg.ObjectStoreFile, "object-store-file", "", "object-store price CSV")
	flags.StringVar(&cfg.LatencyFile, "latency-file", "", "optional latency CSV")
	latencySLO := flags.Float64("latency-slo", 0, "optional latency SLO threshold, requires --latency-file")
	flags.IntVar(&cfg.BatchSize, "batch-size", 1000, "redundancy-elimination batch target B")
	flags.IntVar(&cfg.RedundancyEliminationWorkers, "redundancy-elimination-workers", 1, "in-process worker count K")
	flags.IntVar(&cfg.WorkerID, "worker-id", 0, "this process's placement in the worker pool")
	flags.IntVar(&cfg.NumWorkers, "num-workers", 1, "total number of cooperating processes")
	flags.StringVar(&cfg.OutputFileName, "output-file-name", "optimal.bin", "per-worker optimal-decision output path")
	flags.StringVar(&cfg.OutputCandidatesFileName, "output-candidates-file-name", "candidates.bin", "per-worker candidate-decision output path")
	flags.StringVar(&cfg.ExperimentName, "experiment-name", "", "directory under which stats and output are written")
	flags.StringVar(&cfg.Optimizer, "optimizer", "naive", "redundancy-elimination backend name")
	flags.BoolVar(&cfg.UseClarkson, "use-clarkson", false, "enable the Clarkson pre-filter")
	flags.StringVar(&outputRoot, "output-root", ".", "local directory (or staging dir when --s3-bucket is set) runs are written under")
	flags.StringVar(&s3Bucket, "s3-bucket", "", "optional S3 bucket to persist output to instead of --output-root")
	flags.StringVar(&otlpEndpoint, "otlp-endpoint", "", "optional OTLP/HTTP trace collector endpoint")
	flags.BoolVar(&awsLivePricing, "aws-live-pricing", false, "refresh aws vendor storage prices from the AWS Price List API before loading the catalog")
	flags.StringVar(&awsPriceCacheDir, "aws-price-cache-dir", "", "directory for the live-pricing JSON cache (default: OS temp dir)")

	precomputeCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("latency-slo") {
			cfg.LatencySLO = latencySLO
		}
		return nil
	}
}

// runPrecompute wires every package into one run: load + validate
// configuration, ingest and filter the catalog, drive the K
// redundancy-elimination workers over this process's shard of the
// enumerator, and persist the resulting candidate/optimal streams plus the
// once-per-run wrapper message. Exit codes follow spec.md §6: 2 for a
// rejected configuration, 1 for anything fatal thereafter.
func runPrecompute(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if cfgFile != "" {
		fc, err := appconfig.LoadHCLFile(cfgFile)
		if err != nil {
			logger.Error("invalid configuration", "component", "config-file", "entity", cfgFile, "err", err)
			os.Exit(int(appconfig.ExitInvalidConfig))
		}
		cfg.ApplyFile(fc)
	}
	if err := cfg.Validate(); err != nil {
		var cerr *appconfig.ConfigError
		if errors.As(err, &cerr) {
			logger.Error("invalid configuration", "field", cerr.Field, "reason", cerr.Reason)
		} else {
			logger.Error("invalid configuration", "err", err)
		}
		os.Exit(int(appconfig.ExitInvalidConfig))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	shutdownTrace, err := metrics.InitTracing(ctx, version.AppName, version.Current, otlpEndpoint)
	if err != nil {
		return fatalf(logger, "telemetry", "tracer provider", err)
	}
	defer shutdownTrace(ctx)

	meterProvider, shutdownMeter, err := metrics.InitMeter(version.AppName, version.Current)
	if err != nil {
		return fatalf(logger, "telemetry", "meter provider", err)
	}
	defer shutdownMeter(ctx)

	accumulator, err := metrics.NewAccumulator(meterProvider.Meter(version.AppName), cfg.Optimizer)
	if err != nil {
		return fatalf(logger, "telemetry", "accumulator", err)
	}

	cat, err := loadCatalog(ctx, logger)
	if err != nil {
		return fatalf(logger, "catalog", cfg.ObjectStoreFile, err)
	}

	store, err := buildStore(ctx)
	if err != nil {
		return fatalf(logger, "storage", s3Bucket, err)
	}

	candidatesKey := appconfig.WorkerOutputPath(cfg.OutputCandidatesFileName, cfg.WorkerID)
	optimalKey := appconfig.WorkerOutputPath(cfg.OutputFileName, cfg.WorkerID)
	if cfg.ExperimentName != "" {
		candidatesKey = cfg.ExperimentName + "/" + candidatesKey
		optimalKey = cfg.ExperimentName + "/" + optimalKey
	}
	backend := redundancy.Naive{}
	backendCfg := redundancy.Config{DSize: cfg.BatchSize, UseClarkson: cfg.UseClarkson, Optimizer: cfg.Optimizer}

	// Each of the K in-process redundancy-elimination workers gets its own
	// sink pair, nested one level under this process's own worker-id
	// naming by reapplying WorkerOutputPath to the already-resolved path.
	workers := make([]*pipeline.Worker, cfg.RedundancyEliminationWorkers)
	for k := range workers {
		candidatesSubKey, optimalSubKey := candidatesKey, optimalKey
		if len(workers) > 1 {
			candidatesSubKey = appconfig.WorkerOutputPath(candidatesKey, k)
			optimalSubKey = appconfig.WorkerOutputPath(optimalKey, k)
		}
		candidates := persist.NewFramedSink(ctx, store, candidatesSubKey)
		optimal := persist.NewFramedSink(ctx, store, optimalSubKey)
		workers[k] = pipeline.NewWorker(k, cat, backend, backendCfg, cfg.BatchSize, candidates, optimal, logger, accumulator)
	}

	gen := enumerate.NewGenerator(len(cat.Stores), cfg.ReplicationFactor, cfg.ReplicationFactorMax, cfg.BatchSize)
	var source enumerate.Source = gen
	if cfg.NumWorkers > 1 {
		source = &enumerate.Shard{Source: gen, WorkerID: cfg.WorkerID, NumWorkers: cfg.NumWorkers}
	}

	// A failed worker is excluded from routing by Dispatch but does not abort
	// its peers, per §4.6's "peer workers continue" failure semantics; each
	// failure is logged here and only turned into a non-zero exit code after
	// the surviving workers' stats have been finalized and persisted below.
	failures := pipeline.Dispatch(source, workers, func(w *pipeline.Worker, b enumerate.Batch) error {
		return w.ProcessBatch(ctx, b)
	})
	for _, f := range failures {
		logger.Error("worker failed, peers continuing", "component", "pipeline", "entity", fmt.Sprintf("worker %d", f.WorkerID), "err", f.Err)
	}

	regionNames := make([]string, len(cat.Regions))
	for i, r := range cat.Regions {
		regionNames[i] = r.Name
	}
	storeNames := make([]string, len(cat.Stores))
	for i, s := range cat.Stores {
		storeNames[i] = s.Key()
	}

	wrapper := accumulator.ToWrapperRecord()
	wrapper.RegionNames = regionNames
	wrapper.StoreNames = storeNames
	wrapper.CandidatesPath = candidatesKey
	wrapper.OptimalPath = optimalKey
	wrapper.Dimension = decision.Dimension(len(cat.AppRegions))

	wrapperKey := optimalKey + ".wrapper"
	if err := persist.WriteWrapper(ctx, store, wrapperKey, wrapper); err != nil {
		return fatalf(logger, "persist", wrapperKey, err)
	}

	logger.Info("precompute run complete",
		"worker_id", cfg.WorkerID,
		"optimal_count", wrapper.OptimalCount,
		"candidates_path", candidatesKey,
		"optimal_path", optimalKey,
		"failed_workers", len(failures),
	)
	if len(failures) > 0 {
		os.Exit(int(appconfig.ExitFatalError))
	}
	return nil
}

func loadCatalog(ctx context.Context, logger *slog.Logger) (*catalog.Catalog, error) {
	priceRows, err := ingest.LoadObjectStorePrices(cfg.ObjectStoreFile, logger)
	if err != nil {
		return nil, err
	}
	if awsLivePricing {
		pricer, err := catalog.NewPriceClient(ctx, logger, awsPriceCacheDir)
		if err != nil {
			return nil, fmt.Errorf("aws live pricing: %w", err)
		}
		priceRows = ingest.RefreshAWSStoragePrices(ctx, pricer, priceRows, logger)
	}
	priceRows = ingest.ApplyPriceOverrides(priceRows, cfg.PriceOverrides)

	networkRows, err := ingest.LoadNetworkPrices(cfg.NetworkFile, logger)
	if err != nil {
		return nil, err
	}
	latencyRows, err := ingest.LoadLatencies(cfg.LatencyFile, logger)
	if err != nil {
		return nil, err
	}

	regionSel, err := selector.Parse(cfg.RegionSelector)
	if err != nil {
		return nil, fmt.Errorf("region selector: %w", err)
	}
	storeSel, err := selector.Parse(cfg.ObjectStoreSelector)
	if err != nil {
		return nil, fmt.Errorf("object-store selector: %w", err)
	}

	return catalog.Load(catalog.LoaderInput{
		PriceRows:      priceRows,
		NetworkRows:    networkRows,
		LatencyRows:    latencyRows,
		LatencySLO:     cfg.LatencySLO,
		RegionSelector: regionSel,
		StoreSelector:  storeSel,
		Logger:         logger,
	})
}

func buildStore(ctx context.Context) (persist.BlobStore, error) {
	if s3Bucket == "" {
		return persist.NewLocalStore(outputRoot), nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return persist.NewS3Store(awsCfg, s3Bucket), nil
}

func fatalf(logger *slog.Logger, component, entity string, err error) error {
	logger.Error("fatal error", "component", component, "entity", entity, "err", err)
	os.Exit(int(appconfig.ExitFatalError))
	return nil
}
