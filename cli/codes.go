package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"bot-companion-web/server"
	"bot-companion-web/services"

	"github.com/spf13/cobra"
)

// openRewards loads the configured store and reconciles an index from it.
func openRewards(opts *RootOptions) (*services.RewardService, services.LoadResult, error) {
	store, err := server.OpenCodeStore(opts.Config)
	if err != nil {
		return nil, services.LoadResult{}, err
	}
	generator, err := server.NewGenerator(opts.Config)
	if err != nil {
		return nil, services.LoadResult{}, err
	}
	svc := services.NewRewardService(store, generator, nil)
	return svc, svc.Reload(), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print code totals from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, result, err := openRewards(opts)
			if err != nil {
				return err
			}
			stats := svc.ChristmasStats()
			return printJSON(cmd, map[string]any{
				"store":           result.Status.String(),
				"total_generated": stats.TotalGenerated,
				"available":       stats.Available,
				"claimed":         stats.Claimed,
				"top_score":       stats.TopScore,
			})
		},
	}
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(opts *RootOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Mint codes without going through HTTP",
		Long: `Mint codes exactly like GET /api/generate_sock and print one per line.

Example:
  bot-companion-web generate --count 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			svc, _, err := openRewards(opts)
			if err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				result, err := svc.Generate()
				if err != nil {
					return fmt.Errorf("code %s not persisted: %w", result.Code, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", result.Code, result.Score)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of codes to mint")
	return cmd
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <code>",
		Short: "Show the claim status of a code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := openRewards(opts)
			if err != nil {
				return err
			}
			status, err := svc.Lookup(args[0])
			if errors.Is(err, services.ErrCodeNotFound) {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, status)
		},
	}
}
