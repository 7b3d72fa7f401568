// Command climate queries BioSIM for a list of sites and prints the results
// as JSON. Endpoints, timeouts and logging come from the same environment
// variables as climate-server.
//
// Usage:
//
//	go run ./cmd/climate -sites sites.yaml -mode annual -period 1981_2010 -vars TN,TX,P
//	go run ./cmd/climate -sites sites.yaml -mode climate -from 1981 -to 2010 -vars TN,TX,P -model DegreeDay_Annual
//	go run ./cmd/climate -mode models
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/couchcryptid/biosim-climate-client/internal/adapter/biosim"
	"github.com/couchcryptid/biosim-climate-client/internal/climate"
	"github.com/couchcryptid/biosim-climate-client/internal/config"
	"github.com/couchcryptid/biosim-climate-client/internal/domain"
	"github.com/couchcryptid/biosim-climate-client/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
)

type options struct {
	sites  string
	mode   string
	period string
	vars   string
	months string
	from   int
	to     int
	model  string
}

func main() {
	var o options
	flag.StringVar(&o.sites, "sites", "", "YAML file listing sites as {lat, long, elev}")
	flag.StringVar(&o.mode, "mode", "annual", "normals, annual, climate or models")
	flag.StringVar(&o.period, "period", "1981_2010", "normals period")
	flag.StringVar(&o.vars, "vars", "TN,TX,P", "comma-separated variable codes, or all")
	flag.StringVar(&o.months, "months", "", "comma-separated months to aggregate in normals mode, or all")
	flag.IntVar(&o.from, "from", 1981, "first year in climate mode")
	flag.IntVar(&o.to, "to", 2010, "last year in climate mode")
	flag.StringVar(&o.model, "model", "", "model name in climate mode")
	flag.Parse()

	if o.mode != "models" && o.sites == "" {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(o))
}

func run(o options) int {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}
	logger := observability.NewLoggerTo(os.Stderr, cfg)
	metrics := observability.NewMetrics()

	transport := biosim.NewClient(cfg.PrimaryURL, cfg.SecondaryURL, cfg.HTTPTimeout, metrics, logger)
	cache := climate.NewSignatureCache(cfg.CacheSize, cfg.CacheTTL, clockwork.NewRealClock(), metrics)
	client := climate.NewClient(transport, cache, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, err := query(ctx, client, o)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, "encode:", err)
		return 1
	}
	return 0
}

func query(ctx context.Context, client *climate.Client, o options) (any, error) {
	if o.mode == "models" {
		return client.ListModels(ctx), nil
	}

	sites, err := loadSites(o.sites)
	if err != nil {
		return nil, err
	}
	vars, err := parseVars(o.vars)
	if err != nil {
		return nil, err
	}

	switch o.mode {
	case "normals", "annual":
		period, err := domain.ParsePeriod(o.period)
		if err != nil {
			return nil, err
		}
		if o.mode == "annual" {
			return client.GetAnnualNormals(ctx, period, vars, sites)
		}
		months, err := domain.ParseMonths(o.months)
		if err != nil {
			return nil, err
		}
		return client.GetNormals(ctx, period, vars, sites, months)
	case "climate":
		return client.GetClimateVariables(ctx, o.from, o.to, vars, sites, o.model)
	default:
		return nil, fmt.Errorf("unknown mode %q", o.mode)
	}
}

// parseVars reads the -vars flag; "all" selects every variable.
func parseVars(s string) ([]domain.Variable, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return domain.AllVariables(), nil
	}
	return domain.ParseVariables(strings.Split(s, ","))
}
