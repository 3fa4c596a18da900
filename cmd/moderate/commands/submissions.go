package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rushboard/challenge-api/internal/config"
	"github.com/rushboard/challenge-api/internal/database"
	"github.com/spf13/cobra"
)

const defaultPendingLimit = 50

// NewSubmissionsCmd creates the submissions moderation command with pending,
// approve and reject subcommands.
func NewSubmissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "Moderate run submissions",
		Long:  "List pending submissions and approve or reject them.",
	}
	cmd.AddCommand(newSubmissionsPendingCmd())
	cmd.AddCommand(newSubmissionsApproveCmd())
	cmd.AddCommand(newSubmissionsRejectCmd())
	return cmd
}

func withSubmissionRepo(fn func(ctx context.Context, repo *database.SubmissionRepository) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()
	return fn(context.Background(), database.NewSubmissionRepository(db))
}

func newSubmissionsPendingCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List submissions awaiting review",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSubmissionRepo(func(ctx context.Context, repo *database.SubmissionRepository) error {
				pending, err := repo.ListPending(ctx, limit)
				if err != nil {
					return fmt.Errorf("list pending submissions: %w", err)
				}
				if len(pending) == 0 {
					fmt.Println("No pending submissions.")
					return nil
				}
				for _, s := range pending {
					fmt.Printf("%s  %s  %s  %s\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Runner, s.Result)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", defaultPendingLimit, "Maximum number of submissions to list")
	return cmd
}

func newSubmissionsApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Publish a pending submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid submission ID: %w", err)
			}
			return withSubmissionRepo(func(ctx context.Context, repo *database.SubmissionRepository) error {
				if err := repo.Publish(ctx, id); err != nil {
					return fmt.Errorf("approve submission: %w", err)
				}
				fmt.Println("Submission approved.")
				return nil
			})
		},
	}
}

func newSubmissionsRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Delete a pending submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid submission ID: %w", err)
			}
			return withSubmissionRepo(func(ctx context.Context, repo *database.SubmissionRepository) error {
				if err := repo.Delete(ctx, id); err != nil {
					return fmt.Errorf("reject submission: %w", err)
				}
				fmt.Println("Submission rejected.")
				return nil
			})
		},
	}
}
