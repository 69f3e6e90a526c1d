// Package logging builds the process logger. Output goes to stdout as JSON
// or console text, optionally mirrored to Loki so long-running watch
// deployments keep their reload history.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/grafana/loki-client-go/loki"
	"github.com/prometheus/common/model"
	"github.com/rs/zerolog"
)

// Options carries the logging configuration plus the data source label
// attached to shipped log streams.
type Options struct {
	Level  string
	Format string
	Loki   LokiOptions
	// Source names the orientation data product this process serves, e.g.
	// "longterm" or "bulletin_a". It becomes a Loki stream label so logs
	// from different feeds stay separable.
	Source string
}

// LokiOptions configures optional log shipping.
type LokiOptions struct {
	Enabled bool
	URL     string
	Labels  map[string]string
}

// Setup creates a zerolog logger from the options. The returned cleanup
// function flushes pending Loki entries and must be called on shutdown.
func Setup(opts Options) (zerolog.Logger, func(), error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	var stdout io.Writer = os.Stdout
	if strings.EqualFold(opts.Format, "text") {
		stdout = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	writers := []io.Writer{stdout}
	cleanup := func() {}

	if opts.Loki.Enabled {
		lokiWriter, closer, err := newLokiWriter(opts.Loki, opts.Source)
		if err != nil {
			return zerolog.Logger{}, nil, err
		}
		writers = append(writers, lokiWriter)
		cleanup = closer
	}

	multi := zerolog.MultiLevelWriter(writers...)
	logger := zerolog.New(multi).With().Timestamp().Logger().Level(level)
	return logger, cleanup, nil
}

func newLokiWriter(opts LokiOptions, source string) (io.Writer, func(), error) {
	if opts.URL == "" {
		return nil, nil, fmt.Errorf("loki url is required")
	}
	lokiCfg, err := loki.NewDefaultConfig(opts.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("prepare loki config: %w", err)
	}
	client, err := loki.New(lokiCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create loki client: %w", err)
	}

	labels := streamLabels(opts.Labels, source)
	writer := &lokiWriter{client: client, labels: labels}
	cleanup := func() {
		client.Stop()
	}
	return writer, cleanup, nil
}

// streamLabels merges the configured labels over the defaults. The defaults
// identify the application and the data product feeding it.
func streamLabels(configured map[string]string, source string) model.LabelSet {
	labels := model.LabelSet{"app": "eopkit"}
	if source != "" {
		labels["source"] = model.LabelValue(source)
	}
	for k, v := range configured {
		labels[model.LabelName(k)] = model.LabelValue(v)
	}
	return labels
}

type lokiWriter struct {
	client *loki.Client
	labels model.LabelSet
}

func (l *lokiWriter) Write(p []byte) (int, error) {
	entry := strings.TrimSpace(string(p))
	if entry == "" {
		return len(p), nil
	}
	err := l.client.Handle(l.labels, time.Now(), entry)
	return len(p), err
}
