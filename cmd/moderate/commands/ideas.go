package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rushboard/challenge-api/internal/config"
	"github.com/rushboard/challenge-api/internal/database"
	"github.com/spf13/cobra"
)

// NewIdeasCmd creates the ideas moderation command with pending, approve and
// reject subcommands.
func NewIdeasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ideas",
		Short: "Moderate community ideas",
		Long:  "List pending ideas and approve or reject them.",
	}
	cmd.AddCommand(newIdeasPendingCmd())
	cmd.AddCommand(newIdeasApproveCmd())
	cmd.AddCommand(newIdeasRejectCmd())
	return cmd
}

func withIdeaRepo(fn func(ctx context.Context, repo *database.IdeaRepository) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()
	return fn(context.Background(), database.NewIdeaRepository(db))
}

func newIdeasPendingCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List ideas awaiting review",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withIdeaRepo(func(ctx context.Context, repo *database.IdeaRepository) error {
				pending, err := repo.ListPending(ctx, limit)
				if err != nil {
					return fmt.Errorf("list pending ideas: %w", err)
				}
				if len(pending) == 0 {
					fmt.Println("No pending ideas.")
					return nil
				}
				for _, i := range pending {
					fmt.Printf("%s  %s  [%s]  %s\n", i.ID, i.CreatedAt.Format("2006-01-02 15:04"), i.Type, i.Description)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", defaultPendingLimit, "Maximum number of ideas to list")
	return cmd
}

func newIdeasApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Publish a pending idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid idea ID: %w", err)
			}
			return withIdeaRepo(func(ctx context.Context, repo *database.IdeaRepository) error {
				if err := repo.Publish(ctx, id); err != nil {
					return fmt.Errorf("approve idea: %w", err)
				}
				fmt.Println("Idea approved.")
				return nil
			})
		},
	}
}

func newIdeasRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Delete a pending idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid idea ID: %w", err)
			}
			return withIdeaRepo(func(ctx context.Context, repo *database.IdeaRepository) error {
				if err := repo.Delete(ctx, id); err != nil {
					return fmt.Errorf("reject idea: %w", err)
				}
				fmt.Println("Idea rejected.")
				return nil
			})
		},
	}
}
