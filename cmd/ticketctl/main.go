// ticketctl drives the concert ticket pipeline from a terminal: search the
// listing API, look up an event's openers, and export a ticket described in
// a YAML file to a print-ready PNG.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/charlelisefouasse/concert-tickets/internal/concert"
	"github.com/charlelisefouasse/concert-tickets/internal/config"
	"github.com/charlelisefouasse/concert-tickets/internal/export"
	"github.com/charlelisefouasse/concert-tickets/internal/model"
	"github.com/charlelisefouasse/concert-tickets/internal/render"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printHelp(stderr)
		return errUsage
	}
	cfg := config.Load()
	log := cfg.NewLogger()
	log.SetOutput(stderr)
	if cfg.LogLevel == "info" {
		log.SetLevel(logrus.WarnLevel)
	}

	switch args[0] {
	case "search":
		return runSearch(ctx, cfg, log, args[1:], stdout)
	case "details":
		return runDetails(ctx, cfg, log, args[1:], stdout)
	case "export":
		return runExport(ctx, cfg, log, args[1:], stdout)
	case "help", "-h", "--help":
		printHelp(stdout)
		return nil
	}
	fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
	printHelp(stderr)
	return errUsage
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `ticketctl: souvenir concert ticket tools

Usage:
  ticketctl search  [--artist NAME] [--city NAME] [--date YYYY-MM-DD]
  ticketctl details --venue-id ID --date DD-MM-YYYY [--headliner-id MBID]
  ticketctl export  --in ticket.yaml [--out DIR] [--dpi N] [--measured-width PX]

Search and details need SETLIST_FM_KEY in the environment or in .env.
`)
}

func runSearch(ctx context.Context, cfg config.Config, log logrus.FieldLogger, args []string, stdout io.Writer) error {
	var q concert.SearchQuery
	fs := pflag.NewFlagSet("search", pflag.ContinueOnError)
	fs.StringVar(&q.ArtistName, "artist", "", "artist name")
	fs.StringVar(&q.CityName, "city", "", "city name")
	fs.StringVar(&q.EventDate, "date", "", "event date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res := concert.New(cfg.Setlist, log).Search(ctx, q)
	if res.Status == concert.StatusFailed {
		return fmt.Errorf("search failed: %s", res.Reason())
	}
	if len(res.Concerts) == 0 {
		fmt.Fprintln(stdout, "no concerts found")
		return nil
	}
	for _, c := range res.Concerts {
		fmt.Fprintf(stdout, "%s  %-30s  %s, %s  venue_id=%s headliner_id=%s\n",
			c.DateStr, c.Artist, c.Venue, c.City, c.VenueID, c.ArtistID)
	}
	return nil
}

func runDetails(ctx context.Context, cfg config.Config, log logrus.FieldLogger, args []string, stdout io.Writer) error {
	var q concert.DetailQuery
	fs := pflag.NewFlagSet("details", pflag.ContinueOnError)
	fs.StringVar(&q.VenueID, "venue-id", "", "setlist venue id")
	fs.StringVar(&q.DateStr, "date", "", "event date as DD-MM-YYYY")
	fs.StringVar(&q.HeadlinerID, "headliner-id", "", "artist id to leave out of the openers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res := concert.New(cfg.Setlist, log).Details(ctx, q)
	switch res.Status {
	case concert.StatusFailed:
		return fmt.Errorf("detail lookup failed: %s", res.Reason())
	case concert.StatusNoData:
		fmt.Fprintln(stdout, "no data for this venue and date")
		return nil
	}
	if res.Details == nil || len(res.Details.Openers) == 0 {
		fmt.Fprintln(stdout, "no openers")
		return nil
	}
	fmt.Fprintln(stdout, strings.Join(res.Details.Openers, ", "))
	return nil
}

func runExport(ctx context.Context, cfg config.Config, log logrus.FieldLogger, args []string, stdout io.Writer) error {
	var in, out string
	var opts export.Options
	fs := pflag.NewFlagSet("export", pflag.ContinueOnError)
	fs.StringVar(&in, "in", "", "ticket YAML file")
	fs.StringVar(&out, "out", ".", "output directory")
	fs.IntVar(&opts.DPI, "dpi", cfg.Export.DPI, "target print resolution")
	fs.Float64Var(&opts.MeasuredWidth, "measured-width", 0, "on-screen width in CSS pixels (default: unzoomed layout width)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if in == "" {
		return errors.New("--in is required")
	}

	t, err := loadTicket(in)
	if err != nil {
		return err
	}
	renderer, err := render.NewRenderer()
	if err != nil {
		return err
	}
	art, err := export.NewPipeline(renderer, cfg.Export, nil, log).Export(ctx, t, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	path := filepath.Join(out, art.Filename)
	if err := os.WriteFile(path, art.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "%s (%dx%d px, %d dpi)\n", path, art.WidthPx, art.HeightPx, art.DPI)
	return nil
}

// loadTicket reads a ticket YAML file.  The date is pinned to its calendar
// day so the label does not depend on how the YAML timestamp was written.
func loadTicket(path string) (model.TicketData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.TicketData{}, fmt.Errorf("read ticket: %w", err)
	}
	var t model.TicketData
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return model.TicketData{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if t.Date != nil {
		d := model.CalendarDate(t.Date.Year(), t.Date.Month(), t.Date.Day())
		t.Date = &d
	}
	if err := t.Validate(); err != nil {
		return model.TicketData{}, err
	}
	return t, nil
}
