// Command geoloc is a terminal client for the geolocation services.
//
// Usage:
//
//	geoloc [-v] geocode <address>
//	geoloc [-v] reverse <lat,lon>
//	geoloc [-v] distance <from> <to>
//	geoloc [-v] pois [-radius m] <address|lat,lon>
//	geoloc [-v] map [-radius m] [-open] <address|lat,lon>
//	geoloc [-v] history [-limit n]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"geolocation_backend/internal/bootstrap"
	"geolocation_backend/internal/geo"
	"geolocation_backend/internal/history/service"
	"geolocation_backend/platform/apperr"
	"geolocation_backend/platform/config"
	"geolocation_backend/platform/logger"

	"github.com/pkg/browser"
)

const cliSubject = "cli"

var errUsage = errors.New("usage")

var (
	defaultOpenBrowser = browser.OpenFile
	openBrowser        = defaultOpenBrowser
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("geoloc", flag.ContinueOnError)
	global.SetOutput(stderr)
	verbose := global.Bool("v", false, "log to stderr")
	global.Usage = func() { printUsage(stderr) }
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		printUsage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	log := logger.Discard()
	if *verbose {
		log = logger.NewWithWriter(cfg.Env, stderr)
	}
	ctx = context.WithValue(ctx, logger.SubjectKey, cliSubject)

	components, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer components.Close()

	cli := &cli{components: components, out: stdout, errOut: stderr}
	err = cli.dispatch(ctx, global.Arg(0), global.Args()[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		printUsage(stderr)
		return 2
	default:
		fmt.Fprintf(stderr, "Error: %s\n", errorMessage(err))
		return 1
	}
}

type cli struct {
	components *bootstrap.Components
	out        io.Writer
	errOut     io.Writer
}

func (c *cli) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "geocode":
		return c.geocode(ctx, args)
	case "reverse":
		return c.reverse(ctx, args)
	case "distance":
		return c.distance(ctx, args)
	case "pois":
		return c.pois(ctx, args)
	case "map":
		return c.showMap(ctx, args)
	case "history":
		return c.history(ctx, args)
	default:
		return errUsage
	}
}

func (c *cli) geocode(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	coord, err := c.components.Geocoding.Geocode(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Coordinates: %s\n", coord)
	return nil
}

func (c *cli) reverse(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	coord, err := geo.ParseCoordinate(strings.Join(args, ""))
	if err != nil {
		return err
	}
	address, err := c.components.Geocoding.ReverseGeocode(ctx, coord)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Address: %s\n", address)
	return nil
}

func (c *cli) distance(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	result, err := c.components.Geocoding.DistanceBetween(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Distance: %.2f km\n", result.Kilometers)
	return nil
}

func (c *cli) pois(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pois", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	radius := fs.Int("radius", 0, "search radius in meters")
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		return errUsage
	}

	center, err := c.components.Geocoding.Resolve(ctx, strings.Join(fs.Args(), " "))
	if err != nil {
		return err
	}
	items := c.components.POIs.Fetch(ctx, center, c.components.POIs.ClampRadius(*radius))
	if len(items) == 0 {
		fmt.Fprintln(c.out, "No points of interest found")
		return nil
	}
	for _, p := range items {
		fmt.Fprintf(c.out, "%-30s %-16s %8.3f km\n", p.Name, p.Category, p.DistanceKm)
	}
	return nil
}

func (c *cli) showMap(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("map", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	radius := fs.Int("radius", 0, "search radius in meters")
	open := fs.Bool("open", false, "open the document in a browser")
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		return errUsage
	}

	result, err := c.components.Explorer.Show(ctx, strings.Join(fs.Args(), " "), *radius)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Map: %s (%d points of interest)\n", result.Path, len(result.POIs))
	if result.DownloadURL != "" {
		fmt.Fprintf(c.out, "Download: %s\n", result.DownloadURL)
	}
	if *open {
		if err := openBrowser(result.Path); err != nil {
			fmt.Fprintf(c.errOut, "Warning: could not open browser: %v\n", err)
		}
	}
	return nil
}

func (c *cli) history(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	limit := fs.Int("limit", service.DefaultRecentLimit, "number of entries")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return errUsage
	}

	records, err := c.components.History.Recent(ctx, *limit)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(c.out, "Query: %s\nResult: %s\nTime: %s\n\n", r.Query, r.Result, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func errorMessage(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `usage: geoloc [-v] <command> [arguments]

commands:
  geocode <address>                       resolve an address to coordinates
  reverse <lat,lon>                       resolve coordinates to an address
  distance <from> <to>                    geodesic distance between two locations
  pois [-radius m] <location>             named amenities around a location
  map [-radius m] [-open] <location>      render an interactive map
  history [-limit n]                      most recent lookups`)
}
