package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/orbitdet/eopkit/config"
	"github.com/orbitdet/eopkit/eop"
	"github.com/orbitdet/eopkit/internal/logging"
	"github.com/orbitdet/eopkit/internal/reload"
	"github.com/orbitdet/eopkit/provider"
	"github.com/orbitdet/eopkit/query"
	"github.com/orbitdet/eopkit/telemetry"
	"github.com/orbitdet/eopkit/timescale"
)

func main() {
	cfgPath := flag.String("config", "eopkit.yaml", "Path to configuration file")
	configCheck := flag.Bool("check", false, "Validate configuration and data file, then exit")
	info := flag.Bool("info", false, "Print a summary of the loaded table and exit")
	evalExpr := flag.String("eval", "", "Evaluate a query expression and exit")
	convert := flag.String("convert", "", "Convert an epoch, as FROM,TO,MJD (e.g. UTC,TT,59569.5)")
	watch := flag.Bool("watch", false, "Keep running and reload the data file when it changes")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger, cleanup, err := logging.Setup(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Loki: logging.LokiOptions{
			Enabled: cfg.Logging.Loki.Enabled,
			URL:     cfg.Logging.Loki.URL,
			Labels:  cfg.Logging.Loki.Labels,
		},
		Source: string(cfg.Source.Format),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup logger")
	}
	defer cleanup()
	log.Logger = logger

	collector := telemetry.Noop()
	if cfg.Telemetry.Enabled {
		prom, err := telemetry.NewPrometheusCollector(prometheus.DefaultRegisterer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "telemetry disabled: %v\n", err)
		} else {
			collector = prom
		}
	}

	if err := initTable(cfg, logger, collector); err != nil {
		logger.Fatal().Err(err).Msg("failed to load orientation data")
	}

	if *configCheck {
		fmt.Println("configuration and data file OK")
		return
	}

	table, err := provider.Current()
	if err != nil {
		logger.Fatal().Err(err).Msg("no table available")
	}

	switch {
	case *info:
		printInfo(table)
	case *evalExpr != "":
		engine := query.NewEngine(table, logger)
		result, err := engine.Eval(*evalExpr)
		if err != nil {
			logger.Fatal().Err(err).Str("expression", *evalExpr).Msg("evaluation failed")
		}
		fmt.Println(formatResult(result))
	case *convert != "":
		if err := runConvert(table, *convert); err != nil {
			logger.Fatal().Err(err).Msg("conversion failed")
		}
	case *watch || cfg.Watch.Enabled:
		runWatch(cfg, logger, collector)
	default:
		printInfo(table)
	}
}

func initTable(cfg *config.Config, logger zerolog.Logger, collector telemetry.Collector) error {
	opts := []eop.Option{eop.WithLogger(logger), eop.WithCollector(collector)}
	policy, err := cfg.Source.Policy()
	if err != nil {
		return err
	}
	if cfg.Source.Format == config.FormatDefaults {
		provider.InitFromDefaults(policy, cfg.Source.Interpolating(), opts...)
		return nil
	}
	src, err := cfg.Source.SourceType()
	if err != nil {
		return err
	}
	return provider.InitFromFile(cfg.Source.Path, src, policy, cfg.Source.Interpolating(), opts...)
}

func printInfo(table *eop.Table) {
	fmt.Printf("source:        %s\n", table.Source())
	fmt.Printf("entries:       %d\n", table.Len())
	fmt.Printf("range:         %s .. %s\n", civilString(table.MinMJD()), civilString(table.MaxMJD()))
	fmt.Printf("extrapolation: %s\n", table.Policy())
	fmt.Printf("interpolation: %v\n", table.Interpolating())
	if last := table.LastLOD(); last != eop.MJDNever {
		fmt.Printf("lod until:     %s\n", civilString(last))
	}
	if last := table.LastDxDy(); last != eop.MJDNever {
		fmt.Printf("cip until:     %s\n", civilString(last))
	}
}

func civilString(mjd int) string {
	year, month, day := timescale.CivilFromMJD(mjd)
	return fmt.Sprintf("%04d-%02d-%02d (mjd %d)", year, month, day, mjd)
}

func runConvert(table *eop.Table, spec string) error {
	parts := strings.Split(spec, ",")
	if len(parts) != 3 {
		return fmt.Errorf("convert spec must be FROM,TO,MJD, got %q", spec)
	}
	from, err := timescale.ParseScale(strings.TrimSpace(parts[0]))
	if err != nil {
		return err
	}
	to, err := timescale.ParseScale(strings.TrimSpace(parts[1]))
	if err != nil {
		return err
	}
	mjd, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return fmt.Errorf("parse mjd %q: %w", parts[2], err)
	}
	day := float64(int(mjd))
	frac := mjd - day

	offset, err := timescale.Offset(table, from, to, day, frac)
	if err != nil {
		return err
	}
	outDay, outFrac, err := timescale.Convert(table, from, to, day, frac)
	if err != nil {
		return err
	}
	// decimal keeps sub-microsecond offsets readable without float noise.
	fmt.Printf("%s -> %s at mjd %s\n", from, to, decimal.NewFromFloat(mjd))
	fmt.Printf("offset:  %s s\n", decimal.NewFromFloat(offset).Round(9))
	fmt.Printf("result:  mjd %s\n", decimal.NewFromFloat(outDay).Add(decimal.NewFromFloat(outFrac)))
	return nil
}

func runWatch(cfg *config.Config, logger zerolog.Logger, collector telemetry.Collector) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	watcher := reload.NewWatcher(cfg.Source.Path)
	ticker := time.NewTicker(cfg.WatchInterval())
	defer ticker.Stop()

	logger.Info().Str("path", cfg.Source.Path).Dur("interval", cfg.WatchInterval()).Msg("watching data file")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down")
			return
		case <-ticker.C:
			changed := watcher.Check()
			if len(changed) == 0 {
				continue
			}
			logger.Info().Strs("files", changed).Msg("data file changed, reloading")
			if err := initTable(cfg, logger, collector); err != nil {
				logger.Error().Err(err).Msg("reload failed, keeping previous table")
			}
		}
	}
}

func formatResult(result interface{}) string {
	switch v := result.(type) {
	case float64:
		return decimal.NewFromFloat(v).String()
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v[k]))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("%v", result)
	}
}
