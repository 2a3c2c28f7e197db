package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/club-rank-service/internal/app/leaderboard"
	"github.com/preston-bernstein/club-rank-service/internal/app/seasons"
	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"github.com/preston-bernstein/club-rank-service/internal/logging"
	"github.com/preston-bernstein/club-rank-service/internal/seed"
	"github.com/preston-bernstein/club-rank-service/internal/store"
)

type leaderboardOptions struct {
	seedFile string
	seasonID string
	asJSON   bool
	logLevel string
}

func leaderboardCmd() *cobra.Command {
	opts := leaderboardOptions{}

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the ranked leaderboard for a season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeaderboard(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.seedFile, "seed", "", "seed file (yaml) with seasons and records")
	cmd.Flags().StringVar(&opts.seasonID, "season", seasons.ActiveAlias, "season id, or \"active\"")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the leaderboard as JSON")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level for diagnostics on stderr")
	_ = cmd.MarkFlagRequired("seed")

	return cmd
}

func runLeaderboard(ctx context.Context, out, errOut io.Writer, opts leaderboardOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.NewLogger(logging.Config{Level: opts.logLevel, Output: errOut})

	data, err := seed.LoadFile(opts.seedFile)
	if err != nil {
		return err
	}
	st := store.NewMemoryStore()
	if err := seed.Apply(ctx, st, data); err != nil {
		return fmt.Errorf("apply seed: %w", err)
	}

	seasonSvc := seasons.NewService(st, points.DefaultSeasonID, logger)
	board, err := leaderboard.NewService(seasonSvc, st, nil, logger).Build(ctx, opts.seasonID)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(board)
	}
	return writeTable(out, board)
}

func writeTable(out io.Writer, board points.LeaderboardResponse) error {
	fmt.Fprintf(out, "%s (match x%g, activity x%g)\n\n", board.SeasonTitle, board.MatchWeight, board.ActivityWeight)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "RANK\tPLAYER\tMATCH\tACTIVITY\tADJUST\tTOTAL\t")
	for _, row := range board.Rows {
		adjust := row.MatchAdjustment + row.ActivityAdjustment + row.TotalAdjustment
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%+.2f\t%.2f\t\n",
			row.Rank, row.PlayerName, row.MatchPointsBase, row.ActivityPointsBase, adjust, row.TotalPoints)
	}
	return tw.Flush()
}
