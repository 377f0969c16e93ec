// Command crsinfo inspects the reference dataset: it looks up objects by
// authority code, re-expresses them as WKT or PROJ strings, and derives
// coordinate operations between two CRS.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"crskit/pkg/derive"
	"crskit/pkg/geodesy"
	"crskit/pkg/projstr"
	"crskit/pkg/registry"
	"crskit/pkg/wkt"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("crsinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		dbPath     = fs.String("db", "", "dataset path, empty selects the embedded dataset")
		lookup     = fs.String("lookup", "", "AUTHORITY:CODE to look up")
		wktDialect = fs.String("wkt-dialect", "", "emit WKT: WKT2_2018, WKT2_2018_SIMPLIFIED, WKT2_2015, WKT2_2015_SIMPLIFIED, WKT1_GDAL or WKT1_ESRI")
		projStyle  = fs.String("proj-style", "", "emit a PROJ string: proj4 or proj5")
		doDerive   = fs.Bool("derive", false, "derive operations between two AUTHORITY:CODE arguments")
		pivots     = fs.String("pivots", "any", "pivot policy for -derive: any or none")
		area       = fs.String("area", "strict", "spatial criterion for -derive: strict or partial")
		verbose    = fs.Bool("v", false, "enable debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	reg, err := registry.Open(registry.Options{DatabasePath: *dbPath, Logger: logger})
	if err != nil {
		logger.Error("opening dataset failed", "error", err)
		return 1
	}
	defer func() { _ = reg.Close() }()

	ctx := context.Background()
	switch {
	case *lookup != "":
		return runLookup(ctx, reg, *lookup, *wktDialect, *projStyle, stdout, logger)
	case *doDerive:
		return runDerive(ctx, reg, fs.Args(), *pivots, *area, stdout, logger)
	}
	fs.Usage()
	return 2
}

func runLookup(ctx context.Context, reg *registry.Registry, ref, wktDialect, projStyle string, stdout io.Writer, logger *slog.Logger) int {
	id, err := parseRef(ref)
	if err != nil {
		logger.Error("bad lookup reference", "error", err)
		return 2
	}
	obj, err := reg.Lookup(ctx, id.Authority, id.Code, registry.CategoryAny)
	if err != nil {
		logger.Error("lookup failed", "reference", ref, "error", err)
		return 1
	}

	suffix := ""
	if obj.Info().Deprecated() {
		suffix = " (deprecated)"
	}
	fmt.Fprintf(stdout, "%s: %s%s\n", id, geodesy.NameOf(obj), suffix)

	if wktDialect != "" {
		dialect, err := dialectFromFlag(wktDialect)
		if err != nil {
			logger.Error("bad wkt dialect", "error", err)
			return 2
		}
		opts := wkt.DefaultOptions(dialect)
		opts.Aliases = reg
		text, err := wkt.Format(obj, dialect, opts)
		if err != nil {
			logger.Error("wkt formatting failed", "reference", ref, "error", err)
			return 1
		}
		fmt.Fprintln(stdout, text)
	}
	if projStyle != "" {
		style, err := styleFromFlag(projStyle)
		if err != nil {
			logger.Error("bad proj style", "error", err)
			return 2
		}
		text, err := projstr.Format(obj, style, projstr.DefaultOptions())
		if err != nil {
			logger.Error("proj formatting failed", "reference", ref, "error", err)
			return 1
		}
		fmt.Fprintln(stdout, text)
	}
	return 0
}

func runDerive(ctx context.Context, reg *registry.Registry, args []string, pivots, area string, stdout io.Writer, logger *slog.Logger) int {
	if len(args) != 2 {
		logger.Error("derive needs exactly two AUTHORITY:CODE arguments", "got", len(args))
		return 2
	}
	cfg := derive.Config{}
	switch pivots {
	case "any":
	case "none":
		cfg.Pivots = derive.PivotNone
	default:
		logger.Error("bad pivot policy", "value", pivots)
		return 2
	}
	switch area {
	case "strict":
	case "partial":
		cfg.Spatial = derive.PartialIntersection
	default:
		logger.Error("bad spatial criterion", "value", area)
		return 2
	}

	endpoints := make([]geodesy.CRS, 2)
	for i, ref := range args {
		id, err := parseRef(ref)
		if err != nil {
			logger.Error("bad derive reference", "error", err)
			return 2
		}
		obj, err := reg.Lookup(ctx, id.Authority, id.Code, registry.CategoryCRS)
		if err != nil {
			logger.Error("lookup failed", "reference", ref, "error", err)
			return 1
		}
		crs, ok := obj.(geodesy.CRS)
		if !ok {
			logger.Error("reference is not a CRS", "reference", ref)
			return 1
		}
		endpoints[i] = crs
	}

	ops, err := derive.Operations(ctx, reg, endpoints[0], endpoints[1], cfg)
	if err != nil {
		logger.Error("derivation failed", "error", err)
		return 1
	}
	if len(ops) == 0 {
		fmt.Fprintln(stdout, "no usable path found")
		return 0
	}
	for i, op := range ops {
		accuracy := "unknown accuracy"
		if acc, known := op.Accuracy(); known {
			accuracy = fmt.Sprintf("accuracy %g m", acc)
		}
		fmt.Fprintf(stdout, "%d. %s (%s)\n", i+1, geodesy.NameOf(op), accuracy)
		if grids := op.GridsUsed(); len(grids) > 0 {
			fmt.Fprintf(stdout, "   grids: %s\n", strings.Join(grids, ", "))
		}
	}
	return 0
}

func parseRef(ref string) (geodesy.Identifier, error) {
	authority, code, found := strings.Cut(ref, ":")
	if !found || authority == "" || code == "" {
		return geodesy.Identifier{}, fmt.Errorf("reference %q is not AUTHORITY:CODE", ref)
	}
	return geodesy.Identifier{Authority: authority, Code: code}, nil
}

func dialectFromFlag(value string) (wkt.Dialect, error) {
	switch strings.ToUpper(value) {
	case "WKT2_2018", "WKT2:2018":
		return wkt.WKT22018, nil
	case "WKT2_2018_SIMPLIFIED", "WKT2:2018_SIMPLIFIED":
		return wkt.WKT22018Simplified, nil
	case "WKT2_2015", "WKT2:2015":
		return wkt.WKT22015, nil
	case "WKT2_2015_SIMPLIFIED", "WKT2:2015_SIMPLIFIED":
		return wkt.WKT22015Simplified, nil
	case "WKT1_GDAL", "WKT1:GDAL":
		return wkt.WKT1GDAL, nil
	case "WKT1_ESRI", "WKT1:ESRI":
		return wkt.WKT1ESRI, nil
	}
	return wkt.NotWKT, fmt.Errorf("unknown WKT dialect %q", value)
}

func styleFromFlag(value string) (projstr.Style, error) {
	switch strings.ToLower(value) {
	case "proj4", "4":
		return projstr.Proj4, nil
	case "proj5", "5":
		return projstr.Proj5, nil
	}
	return "", fmt.Errorf("unknown PROJ style %q", value)
}
