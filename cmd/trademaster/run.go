package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/trademaster/trademaster/internal/backtest"
	"github.com/trademaster/trademaster/internal/config"
	"github.com/trademaster/trademaster/internal/datasource"
	"github.com/trademaster/trademaster/internal/datasource/cache"
	"github.com/trademaster/trademaster/internal/datasource/eastmoney"
	"github.com/trademaster/trademaster/internal/logger"
	"github.com/trademaster/trademaster/internal/metrics"
	"github.com/trademaster/trademaster/internal/report"
	"github.com/trademaster/trademaster/internal/storage/archive"
	"github.com/trademaster/trademaster/internal/strategy"
	"github.com/trademaster/trademaster/internal/strategy/equalweight"
	"github.com/trademaster/trademaster/internal/strategy/noop"
	"github.com/trademaster/trademaster/internal/strategy/smacross"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest",
	Long:  "Run the configured strategy against historical data and report performance",
	RunE:  runBacktest,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func newRegistry(log *zap.Logger) *strategy.Registry {
	reg := strategy.NewRegistry()
	reg.Register("noop", func() strategy.Strategy { return noop.New() })
	reg.Register("equal_weight", func() strategy.Strategy {
		return equalweight.New(equalweight.WithLogger(log))
	})
	reg.Register("sma_cross", func() strategy.Strategy {
		return smacross.New(smacross.WithLogger(log))
	})
	return reg
}

func runBacktest(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	strat, err := newRegistry(log).Create(cfg.StrategyName)
	if err != nil {
		return err
	}

	var source datasource.DataSource = eastmoney.New()
	if cfg.Data.CachePath != "" {
		cached, err := cache.New(cfg.Data.CachePath, source, log)
		if err != nil {
			return fmt.Errorf("opening bar cache: %w", err)
		}
		defer cached.Close()
		source = cached
	}

	var m *metrics.Registry
	if cfg.Metrics.Enabled {
		m = metrics.NewRegistry()
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(m, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
				log.Error("metrics server error", zap.Error(err))
			}
		}()
		log.Info("metrics endpoint listening", zap.String("addr", cfg.Metrics.Listen))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting backtest",
		zap.String("strategy", strat.Name()),
		zap.String("start", cfg.StartDate.Format("2006-01-02")),
		zap.String("end", cfg.EndDate.Format("2006-01-02")),
		zap.Int("universe", len(cfg.Universe)),
	)

	engineOpts := []backtest.Option{backtest.WithLogger(log)}
	if m != nil {
		engineOpts = append(engineOpts, backtest.WithMetrics(m))
	}

	engine := backtest.New(backtest.Config{
		StartDate:   cfg.StartDate,
		EndDate:     cfg.EndDate,
		InitialCash: cfg.InitialCash,
		Baselines:   cfg.Baseline,
		Universe:    cfg.Universe,
	}, source, strat, engineOpts...)

	result, err := engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	fmt.Println("=== TradeMaster Backtest ===")
	fmt.Printf("Run ID:       %s\n", result.ID)
	fmt.Printf("Strategy:     %s\n", result.Strategy)
	fmt.Printf("Period:       %s to %s\n",
		result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"))
	fmt.Printf("Trading days: %d\n", len(result.Dates))
	fmt.Printf("Trades:       %d\n", len(result.Trades))
	fmt.Printf("Total return: %.2f%%\n", result.TotalReturn*100)
	fmt.Printf("Max drawdown: %.2f%%\n", result.MaxDrawdown*100)
	fmt.Printf("Sharpe ratio: %.2f\n", result.SharpeRatio)

	if cfg.Report.Enabled {
		renderer, err := report.NewRenderer(cfg.Report.OutputDir)
		if err != nil {
			return fmt.Errorf("preparing report: %w", err)
		}
		path, err := renderer.Render(result)
		if err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}
		fmt.Printf("Report:       %s\n", path)
	}

	if cfg.Archive.Enabled {
		store, err := newArchiveStore(cfg)
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		if err := archive.SaveResult(ctx, store, result); err != nil {
			return fmt.Errorf("archiving result: %w", err)
		}
		log.Info("result archived", zap.String("id", result.ID))
	}

	return nil
}

func newArchiveStore(cfg *config.Config) (archive.Storage, error) {
	switch cfg.Archive.Type {
	case "localfs":
		return archive.NewLocalFS(cfg.Archive.Path)
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.Archive.S3.Bucket,
			Endpoint:  cfg.Archive.S3.Endpoint,
			Region:    cfg.Archive.S3.Region,
			AccessKey: cfg.Archive.S3.AccessKey,
			SecretKey: cfg.Archive.S3.SecretKey,
			Prefix:    cfg.Archive.S3.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown archive type: %s", cfg.Archive.Type)
	}
}
