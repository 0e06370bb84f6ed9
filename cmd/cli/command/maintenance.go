package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"libraryhub/database"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/microservices/http-api/service"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		return database.Migrate(db, logger)
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Mark borrowed loans past their due date as overdue",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
		defer cancel()

		loans := service.NewLoanService(repository.NewStore(db), nil, cfg.LoanPeriod, logger)
		ids, err := loans.SweepOverdue(ctx)
		if err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "marked %d loan(s) overdue\n", len(ids))
		for _, id := range ids {
			fmt.Fprintf(cmd.OutOrStdout(), "  loan %d\n", id)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the dashboard counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
		defer cancel()

		summary, err := service.NewDashboardService(repository.NewStore(db), nil, logger).Summary(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Books:        %d\n", summary.BookCount)
		fmt.Fprintf(out, "Readers:      %d\n", summary.ReaderCount)
		fmt.Fprintf(out, "Librarians:   %d\n", summary.LibrarianCount)
		fmt.Fprintf(out, "Active loans: %d\n", summary.ActiveLoanCount)
		if len(summary.RecentLoans) > 0 {
			fmt.Fprintln(out, "Recent loans:")
			for _, l := range summary.RecentLoans {
				title := fmt.Sprintf("book %d", l.BookID)
				if l.Book != nil {
					title = l.Book.Title
				}
				fmt.Fprintf(out, "  #%d %-30s %-9s due %s\n", l.ID, title, l.Status, l.DueAt.Format("2006-01-02"))
			}
		}
		return nil
	},
}
