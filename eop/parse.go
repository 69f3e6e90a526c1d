package eop

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/orbitdet/eopkit/telemetry"
)

// longTermHeaderLines is the fixed header block preceding the long-term
// product's data rows.
const longTermHeaderLines = 14

// Option adjusts loader behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	logger    zerolog.Logger
	collector telemetry.Collector
}

// WithLogger attaches a logger used for per-load summaries.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *loaderOptions) {
		o.logger = logger
	}
}

// WithCollector attaches a telemetry collector. The collector stays with
// the constructed table and also counts extrapolation fallbacks at query
// time.
func WithCollector(collector telemetry.Collector) Option {
	return func(o *loaderOptions) {
		if collector != nil {
			o.collector = collector
		}
	}
}

func applyOptions(opts []Option) loaderOptions {
	options := loaderOptions{
		logger:    zerolog.Nop(),
		collector: telemetry.Noop(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// Load builds a table from the file at path, parsed as the given source
// format.
func Load(path string, src SourceType, policy ExtrapolationPolicy, interpolate bool, opts ...Option) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open eop data: %w", err)
	}
	defer f.Close()
	table, err := Read(f, src, policy, interpolate, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return table, nil
}

// Read builds a table from an already opened stream of the given source
// format.
//
// The long-term product loader is strict: any malformed data row aborts the
// whole load. The bulletin loader is tolerant: malformed lines are skipped,
// which absorbs the trailing short or blank lines those files end with.
func Read(r io.Reader, src SourceType, policy ExtrapolationPolicy, interpolate bool, opts ...Option) (*Table, error) {
	options := applyOptions(opts)

	var records []Record
	var skipped uint64
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 512), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if src == SourceLongTerm && lineNo <= longTermHeaderLines {
			continue
		}
		rec, err := parseLine(src, line, lineNo)
		if err != nil {
			if src == SourceLongTerm {
				return nil, err
			}
			skipped++
			options.logger.Debug().Int("line", lineNo).Err(err).Msg("skipping malformed bulletin line")
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read eop data: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("no usable data rows")
	}

	table, err := newTable(records, src, policy, interpolate, options.collector)
	if err != nil {
		return nil, err
	}
	options.collector.IncTableLoad(src.String())
	options.collector.IncLineSkipped(src.String(), skipped)
	options.logger.Info().
		Str("source", src.String()).
		Int("days", table.Len()).
		Int("mjd_min", table.MinMJD()).
		Int("mjd_max", table.MaxMJD()).
		Uint64("skipped", skipped).
		Msg("eop table loaded")
	return table, nil
}
