package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"entsogo/internal/client"
	"entsogo/internal/config"
	"entsogo/internal/models"
	"entsogo/internal/transport"
)

// Command entsogo queries the European electricity transparency platform
// and prints the result as a table or CSV.
//
// Supported operations:
//   - actual_load, load_forecast, day_ahead_prices
//   - actual_generation, generation_forecast, installed_capacity,
//     generation_per_unit (optional -psr fuel filter)
//   - crossborder_flows, scheduled_exchanges, net_transfer_capacity
//     (ordered -pairs instead of -areas)
//   - imbalance_prices, imbalance_volumes
//
// Usage:
//
//	entsogo -op day_ahead_prices -start 2024-06-01 -end 2024-06-08 -areas FR,DE_LU
//	entsogo -op crossborder_flows -start 2024-06-01 -end 2024-06-02 -pairs "FR>DE_LU,DE_LU>FR"
func main() {
	flags := parseFlags()

	appConfig, err := config.Load(flags.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if flags.Token != "" {
		appConfig.API.Token = flags.Token
	}

	logger := newLogger(appConfig.Logging)

	c, err := client.New(client.Options{
		Transport: transport.Config{
			BaseURL:        appConfig.API.BaseURL,
			Token:          appConfig.API.Token,
			Timeout:        appConfig.API.Timeout,
			MaxRetries:     appConfig.Retry.MaxRetries,
			BaseDelay:      appConfig.Retry.BaseDelay,
			MaxDelay:       appConfig.Retry.MaxDelay,
			NetworkRetries: appConfig.Retry.NetworkRetries,
			NetworkDelay:   appConfig.Retry.NetworkDelay,
		},
		RatePerSecond:  appConfig.RateLimit.PerSecond,
		RateBurst:      appConfig.RateLimit.Burst,
		MaxConcurrency: appConfig.Fetch.MaxConcurrency,
		Logger:         logger,
		Metrics:        prometheus.NewRegistry(),
	})
	if err != nil {
		logger.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start, end, err := parseRange(flags.Start, flags.End)
	if err != nil {
		logger.Fatalf("Invalid time range: %v", err)
	}

	table, err := run(ctx, c, flags, start, end)
	if err != nil {
		logger.Fatalf("Query failed: %v", err)
	}

	for _, missing := range table.Missing {
		logger.WithField("dimension", missing).Warn("no data for dimension")
	}

	if err := render(os.Stdout, flags.Format, table); err != nil {
		logger.Fatalf("Failed to write output: %v", err)
	}
}

type Flags struct {
	ConfigPath string
	Token      string
	Op         string
	Start      string
	End        string
	Areas      string
	Pairs      string
	PSR        string
	Format     string
}

func parseFlags() *Flags {
	flags := &Flags{}

	flag.StringVar(&flags.ConfigPath, "config", "", "Path to config file (optional)")
	flag.StringVar(&flags.Token, "token", "", "API security token (overrides config and ENTSOGO_API_TOKEN)")
	flag.StringVar(&flags.Op, "op", "", "Operation to run, e.g. actual_load")
	flag.StringVar(&flags.Start, "start", "", "Range start, YYYY-MM-DD or YYYY-MM-DDTHH:MM (UTC)")
	flag.StringVar(&flags.End, "end", "", "Range end, exclusive")
	flag.StringVar(&flags.Areas, "areas", "", "Comma-separated area codes, e.g. FR,NL")
	flag.StringVar(&flags.Pairs, "pairs", "", "Comma-separated ordered pairs for border operations, e.g. FR>DE_LU")
	flag.StringVar(&flags.PSR, "psr", "", "Fuel type filter for generation operations, code or name")
	flag.StringVar(&flags.Format, "format", "table", "Output format: table or csv")

	flag.Parse()

	return flags
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := parseTimestamp(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	e, err := parseTimestamp(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}
	return s, e, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func splitAreas(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func splitPairs(s string) ([]models.Dimension, error) {
	var pairs []models.Dimension
	for _, part := range splitAreas(s) {
		from, to, ok := strings.Cut(part, ">")
		if !ok {
			return nil, fmt.Errorf("pair %q must be FROM>TO", part)
		}
		pairs = append(pairs, client.Pair(strings.TrimSpace(from), strings.TrimSpace(to)))
	}
	return pairs, nil
}

func run(ctx context.Context, c *client.Client, flags *Flags, start, end time.Time) (*models.Table, error) {
	areas := splitAreas(flags.Areas)

	switch flags.Op {
	case "actual_load":
		return c.ActualLoad(ctx, start, end, areas...)
	case "load_forecast":
		return c.LoadForecast(ctx, start, end, areas...)
	case "day_ahead_prices":
		return c.DayAheadPrices(ctx, start, end, areas...)
	case "actual_generation":
		return c.ActualGeneration(ctx, start, end, flags.PSR, areas...)
	case "generation_forecast":
		return c.GenerationForecast(ctx, start, end, flags.PSR, areas...)
	case "installed_capacity":
		return c.InstalledCapacity(ctx, start, end, flags.PSR, areas...)
	case "generation_per_unit":
		return c.GenerationPerUnit(ctx, start, end, flags.PSR, areas...)
	case "imbalance_prices":
		return c.ImbalancePrices(ctx, start, end, areas...)
	case "imbalance_volumes":
		return c.ImbalanceVolumes(ctx, start, end, areas...)
	case "crossborder_flows", "scheduled_exchanges", "net_transfer_capacity":
		pairs, err := splitPairs(flags.Pairs)
		if err != nil {
			return nil, err
		}
		switch flags.Op {
		case "crossborder_flows":
			return c.CrossborderFlows(ctx, start, end, pairs...)
		case "scheduled_exchanges":
			return c.ScheduledExchanges(ctx, start, end, pairs...)
		default:
			return c.NetTransferCapacity(ctx, start, end, pairs...)
		}
	default:
		return nil, fmt.Errorf("unknown operation %q", flags.Op)
	}
}

func render(out *os.File, format string, table *models.Table) error {
	switch format {
	case "csv":
		return renderCSV(out, table)
	case "table":
		return renderTable(out, table)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func row(o models.Observation) []string {
	value := ""
	if o.Value != nil {
		value = strconv.FormatFloat(*o.Value, 'f', -1, 64)
	}
	extra := o.CategoryName
	if extra == "" {
		extra = o.PSRName
	}
	if o.UnitName != "" {
		extra = o.UnitName
	}
	return []string{
		o.Timestamp.Format(time.RFC3339),
		o.Dimension,
		value,
		extra,
	}
}

func renderCSV(out *os.File, table *models.Table) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"timestamp", "dimension", "value", "detail"}); err != nil {
		return err
	}
	for _, o := range table.Observations {
		if err := w.Write(row(o)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func renderTable(out *os.File, table *models.Table) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tDIMENSION\tVALUE\tDETAIL")
	for _, o := range table.Observations {
		fmt.Fprintln(w, strings.Join(row(o), "\t"))
	}
	return w.Flush()
}
