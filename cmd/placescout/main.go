package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"

	"github.com/go-scripts/placescout/internal/browser"
	"github.com/go-scripts/placescout/internal/config"
	"github.com/go-scripts/placescout/internal/filter"
	"github.com/go-scripts/placescout/internal/pipeline"
	"github.com/go-scripts/placescout/internal/progress"
	"github.com/go-scripts/placescout/internal/retry"
	"github.com/go-scripts/placescout/internal/types"
	"github.com/go-scripts/placescout/internal/writer"
)

// CLIFlags holds the command line options. Flags override config file and
// environment values.
type CLIFlags struct {
	Keyword        string   `help:"Search keyword." short:"k" required:""`
	Address        string   `help:"Area or address to search around." short:"a"`
	RatingMin      float64  `help:"Minimum rating." default:"0"`
	RatingMax      float64  `help:"Maximum rating (0 = no limit)." default:"0"`
	ReviewsMin     int      `help:"Minimum review count." default:"0"`
	ReviewsMax     int      `help:"Maximum review count (0 = no limit)." default:"0"`
	AddressTerms   string   `help:"Comma-separated address terms (OR match)."`
	CategoryTerms  string   `help:"Comma-separated category terms (OR match)."`
	BudgetMin      int      `help:"Minimum budget (0 = no limit)." default:"0"`
	BudgetMax      int      `help:"Maximum budget (0 = no limit)." default:"0"`
	Days           []string `help:"Days of week the place must be open."`
	Hours          string   `help:"Time of day HH:MM the place must be open."`
	MaxItems       int      `help:"Maximum candidates to enrich (0 = unlimited)." default:"0"`
	Output         string   `help:"Output CSV file name." short:"o"`
	Debug          bool     `help:"Enable debug logging." default:"false"`
}

func (f CLIFlags) request() types.SearchRequest {
	addrTerms, catTerms := filter.ParseTerms(f.AddressTerms, f.CategoryTerms)
	return types.SearchRequest{
		AddressQuery: f.Address,
		Keyword:      f.Keyword,
		Filter: types.FilterConfig{
			RatingMin:      f.RatingMin,
			RatingMax:      f.RatingMax,
			ReviewCountMin: f.ReviewsMin,
			ReviewCountMax: f.ReviewsMax,
			AddressTerms:   addrTerms,
			CategoryTerms:  catTerms,
			BudgetMin:      f.BudgetMin,
			BudgetMax:      f.BudgetMax,
			DaysOfWeek:     f.Days,
			TimeOfDay:      f.Hours,
			MaxItems:       f.MaxItems,
		},
	}
}

// spinnerSink renders progress events on a terminal spinner.
type spinnerSink struct {
	spin *spinner.Spinner
}

func newSpinnerSink() *spinnerSink {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	s.Start()
	return &spinnerSink{spin: s}
}

func (s *spinnerSink) Publish(ev progress.Event) {
	msg := fmt.Sprintf(" [%s] %s", ev.Stage, ev.Message)
	if ev.Total > 0 {
		msg = fmt.Sprintf(" [%s] %d%% %s", ev.Stage, ev.Percent, ev.Message)
	}
	s.spin.Suffix = msg
}

func (s *spinnerSink) stop() {
	s.spin.Stop()
}

func main() {
	var flags CLIFlags
	kong.Parse(&flags)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "placescout",
	})
	if flags.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load configuration", "err", err)
	}
	outputFile := cfg.Output.File
	if flags.Output != "" {
		outputFile = flags.Output
	}

	session, err := browser.NewChromeSession(browser.Options{
		Headless:  cfg.Browser.Headless,
		UserAgent: cfg.Browser.UserAgent,
	})
	if err != nil {
		logger.Fatal("could not start browser", "err", err)
	}
	defer session.Close()

	sink := newSpinnerSink()
	defer sink.stop()

	retrier := retry.NewExecutor(cfg.Retry.BaseDelay, logger)
	reporter := progress.NewReporter(sink)
	pipe := pipeline.New(session, pipeline.DefaultSite(), retrier, reporter, logger)

	results, err := pipe.Run(context.Background(), flags.request())
	if err != nil {
		sink.stop()
		logger.Fatal("search failed", "err", err)
	}
	sink.stop()

	csvWriter, err := writer.New(cfg.Output.Dir)
	if err != nil {
		logger.Fatal("could not prepare output directory", "err", err)
	}
	path, err := csvWriter.Write(outputFile, results)
	if err != nil {
		logger.Fatal("could not write results", "err", err)
	}

	logger.Info("search complete", "results", len(results), "file", path)
	for i, r := range results {
		fmt.Printf("%2d. %s  %.1f (%d)  %s  %s\n", i+1, r.Name, r.Rating, r.ReviewCount, r.Category, r.Address)
	}
}
