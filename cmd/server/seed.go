package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"voting-platform/internal/bootstrap"
	"voting-platform/internal/fixtures"
	"voting-platform/internal/metrics"
)

func seedCommand() *cobra.Command {
	var fixturesPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create tables and load demo accounts and candidates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data := fixtures.Default()
			if fixturesPath != "" {
				var err error
				if data, err = fixtures.Load(fixturesPath); err != nil {
					return err
				}
			}

			log := bootstrap.NewLogger(cfg)
			db, err := bootstrap.OpenDatabase(cfg, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			services := bootstrap.NewServices(db, metrics.New())
			report, err := services.Seeder.Seed(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Database initialized successfully!")
			fmt.Fprintf(out, "Created %d users and %d candidates\n", report.UsersCreated, report.CandidatesCreated)
			fmt.Fprintln(out, "\nDatabase Statistics:")
			fmt.Fprintf(out, "Total Users: %d\n", report.TotalUsers)
			fmt.Fprintf(out, "Admin Users: %d\n", report.Admins)
			fmt.Fprintf(out, "Regular Users: %d\n", report.Voters())
			fmt.Fprintf(out, "Candidates: %d\n", report.Candidates)
			printAccounts(out, data)
			return nil
		},
	}
	cmd.Flags().StringVar(&fixturesPath, "fixtures", "", "path to a YAML fixtures file (defaults to the built-in demo data)")
	return cmd
}

func accountsCommand() *cobra.Command {
	var fixturesPath string
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Print the demo login credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data := fixtures.Default()
			if fixturesPath != "" {
				var err error
				if data, err = fixtures.Load(fixturesPath); err != nil {
					return err
				}
			}
			printAccounts(cmd.OutOrStdout(), data)
			return nil
		},
	}
	cmd.Flags().StringVar(&fixturesPath, "fixtures", "", "path to a YAML fixtures file (defaults to the built-in demo data)")
	return cmd
}

func printAccounts(out io.Writer, data *fixtures.Fixtures) {
	fmt.Fprintln(out, "\nSample Login Credentials:")
	for _, a := range data.Admins {
		fmt.Fprintf(out, "Admin: %s / %s\n", a.Username, a.Password)
	}
	for _, v := range data.Voters {
		fmt.Fprintf(out, "User:  %s / %s\n", v.Username, v.Password)
	}
}
