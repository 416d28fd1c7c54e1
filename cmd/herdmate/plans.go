// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Inspect stored allocation plans",
	Long: `Plans reads allocation runs from the plan store: list them, show or
export one, look up a cow's past allocations, or delete a run.`,
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.ListRuns(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), runs)
		}
		printRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

var plansShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print a stored plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		plan, err := s.LoadRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), plan)
		}
		printPlan(cmd.OutOrStdout(), plan)
		return nil
	},
}

var plansExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a stored plan to YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		var path string
		switch format {
		case "yaml", "":
			path, err = s.ExportYAML(cmd.Context(), args[0])
		case "json":
			path, err = s.ExportJSON(cmd.Context(), args[0])
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return nil
	},
}

var plansHistoryCmd = &cobra.Command{
	Use:   "history <cow-id>",
	Short: "Show a cow's allocations across stored runs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		hist, err := s.CowHistory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), args[0], hist)
		return nil
	},
}

var plansDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.DeleteRun(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	plansListCmd.Flags().Bool("json", false, "output runs as JSON")
	plansShowCmd.Flags().Bool("json", false, "output the plan as JSON")
	plansExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	plansCmd.AddCommand(plansListCmd)
	plansCmd.AddCommand(plansShowCmd)
	plansCmd.AddCommand(plansExportCmd)
	plansCmd.AddCommand(plansHistoryCmd)
	plansCmd.AddCommand(plansDeleteCmd)

	rootCmd.AddCommand(plansCmd)
}
