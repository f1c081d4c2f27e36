package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jfc974-droid/order-management-system/automation"
)

// errFailed signals a failed operation whose error was already printed.
var errFailed = errors.New("operation failed")

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Color-code MASTER rows and refresh each school's MASTER sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printOutcome("Organize Schools", runner.OrganizeSchools(cmd.Context()))
	},
}

var productionCmd = &cobra.Command{
	Use:   "production",
	Short: "Write the production PDF and the Production sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printOutcome("Production Report", runner.ProductionReport(cmd.Context()))
	},
}

var leaderboardsCmd = &cobra.Command{
	Use:   "leaderboards",
	Short: "Write one HTML sales leaderboard per school",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printOutcome("Leaderboards", runner.Leaderboards(cmd.Context()))
	},
}

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Check student data and rewrite the Error Log sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printOutcome("Find Data Errors", runner.FindErrors(cmd.Context()))
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [school]",
	Short: "Create order forms and a combined PDF for one school",
	Long: `Creates one filled order form per pick-up order of the school, exports
each as PDF and combines them sorted by grade then student name.

Without an argument, lists the schools and prompts for a number.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var school string
		if len(args) == 1 {
			school = args[0]
		} else {
			schools, err := runner.ListSchools(cmd.Context())
			if err != nil {
				return err
			}
			school, err = automation.SelectSchool(os.Stdin, os.Stdout, schools)
			if err != nil {
				return err
			}
		}
		return printOutcome("Export Orders - "+school, runner.ExportOrderForms(cmd.Context(), school))
	},
}

var schoolsCmd = &cobra.Command{
	Use:   "schools",
	Short: "List schools that have a MASTER sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schools, err := runner.ListSchools(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range schools {
			fmt.Println(s)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Replace the MASTER sheet with a CSV order export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return printOutcome("Import", runner.ImportCSV(cmd.Context(), f))
	},
}

// printOutcome prints a Result and converts failure into an error for cobra.
func printOutcome(title string, res automation.Result) error {
	printResult(os.Stdout, title, res)
	if !res.OK() {
		return fmt.Errorf("%w: %v", errFailed, res.Err)
	}
	return nil
}
