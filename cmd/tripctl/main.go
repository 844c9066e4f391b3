// Package main provides tripctl, a one-shot command line front end for the trip planner.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	appLogger "github.com/ChampLong29/Multi-Agents-trip-planner/app/logger"
	"github.com/ChampLong29/Multi-Agents-trip-planner/config"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/container"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type planOptions struct {
	req    types.TripRequest
	stream bool
	withDB bool
	quiet  bool
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tripctl",
		Short: "Plan trips from the command line",
		Long: `tripctl runs the same planning pipeline as the HTTP service: attractions,
weather and hotels are searched concurrently and an LLM assembles the itinerary.

Configuration is read from config.yml and the environment (AMAP_API_KEY,
GOOGLE_GEMINI_API_KEY).`,
		SilenceUsage: true,
	}
	cmd.AddCommand(planCmd())
	return cmd
}

func planCmd() *cobra.Command {
	opts := planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a trip and print the result as JSON",
		Example: `  tripctl plan --city Beijing --start 2024-05-01 --end 2024-05-03 --pref history --pref food
  tripctl plan --city Hangzhou --start 2024-10-01 --end 2024-10-02 --stream`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.req.TravelDays == 0 {
				days, err := spanDays(opts.req.StartDate, opts.req.EndDate)
				if err != nil {
					return err
				}
				opts.req.TravelDays = days
			}
			if err := opts.req.Validate(); err != nil {
				return fmt.Errorf("invalid trip request: %w", err)
			}
			return runPlan(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.req.City, "city", "", "Destination city")
	f.StringVar(&opts.req.StartDate, "start", "", "First travel day (YYYY-MM-DD)")
	f.StringVar(&opts.req.EndDate, "end", "", "Last travel day (YYYY-MM-DD)")
	f.IntVar(&opts.req.TravelDays, "days", 0, "Number of travel days (derived from the dates when omitted)")
	f.StringVar(&opts.req.Transportation, "transport", "public transit", "Preferred transportation")
	f.StringVar(&opts.req.Accommodation, "accommodation", "hotel", "Preferred accommodation")
	f.StringSliceVar(&opts.req.Preferences, "pref", nil, "Preference tag, repeatable; the first one drives the attraction search")
	f.StringVar(&opts.req.FreeTextInput, "note", "", "Free-text request passed to the planner")
	f.BoolVar(&opts.stream, "stream", false, "Print progress events as JSON lines instead of the final plan")
	f.BoolVar(&opts.withDB, "with-db", false, "Connect to Postgres as configured")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Only log warnings and errors")
	_ = cmd.MarkFlagRequired("city")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func spanDays(start, end string) (int, error) {
	s, err := time.Parse(types.DateLayout, start)
	if err != nil {
		return 0, fmt.Errorf("invalid --start: %w", err)
	}
	e, err := time.Parse(types.DateLayout, end)
	if err != nil {
		return 0, fmt.Errorf("invalid --end: %w", err)
	}
	return int(e.Sub(s).Hours()/24) + 1, nil
}

func runPlan(ctx context.Context, opts planOptions, out io.Writer) error {
	_ = godotenv.Load()

	cfg, err := config.InitConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Repositories.Postgres.Enabled = opts.withDB

	logger := appLogger.SetupLogger(os.Stderr, cfg.Mode)
	if opts.quiet {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c, err := container.NewContainer(ctx, &cfg, nil, logger)
	if err != nil {
		return fmt.Errorf("build planner: %w", err)
	}
	defer c.Close()

	enc := json.NewEncoder(out)
	if !opts.stream {
		result, err := c.PlannerService.PlanTrip(ctx, nil, opts.req)
		if err != nil {
			return err
		}
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	events, err := c.PlannerService.PlanTripStream(ctx, nil, opts.req)
	if err != nil {
		return err
	}
	for event := range events {
		if err := enc.Encode(event); err != nil {
			return fmt.Errorf("write event: %w", err)
		}
	}
	return nil
}
