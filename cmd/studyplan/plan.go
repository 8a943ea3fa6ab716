package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fentz26/studyplan/internal/export"
	"github.com/fentz26/studyplan/internal/planner"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate and view the weekly plan",
}

var planGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a plan for the next seven days",
	RunE:  runPlanGenerate,
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current plan",
	RunE:  runPlanShow,
}

var planSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show per-day totals of the current plan",
	RunE:  runPlanSummary,
}

var planExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current plan as JSON, text and PDF",
	RunE:  runPlanExport,
}

var (
	planHours    map[string]string
	planDaily    float64
	planExportTo string
	planAndSave  bool
)

func init() {
	planCmd.AddCommand(planGenerateCmd, planShowCmd, planSummaryCmd, planExportCmd)

	planGenerateCmd.Flags().StringToStringVar(&planHours, "hours", nil, "Hours per day, e.g. --hours Mon=3,Sat=5")
	planGenerateCmd.Flags().Float64Var(&planDaily, "daily", -1, "Same hours for every day (applied before --hours)")
	planGenerateCmd.Flags().BoolVar(&planAndSave, "export", false, "Export the plan after generating it")

	planExportCmd.Flags().StringVar(&planExportTo, "dir", "", "Output directory (default from config)")
}

func runPlanGenerate(cmd *cobra.Command, args []string) error {
	override := planner.Capacity{}
	if planDaily >= 0 {
		override = planner.UniformCapacity(planDaily)
	}
	if len(planHours) > 0 {
		perDay, err := planner.ParseCapacity(planHours)
		if err != nil {
			return err
		}
		override = override.Merge(perDay)
	}

	res, err := application.Service.GeneratePlan(override)
	if err != nil {
		return err
	}
	fmt.Print(export.RenderText(res.Plan))
	printOutstanding(res)

	if planAndSave {
		return exportCurrent("")
	}
	return nil
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	res, err := application.Service.CurrentPlan()
	if err != nil {
		return err
	}
	fmt.Printf("Generated %s\n\n", res.Plan.GeneratedAt.Local().Format("2006-01-02 15:04"))
	fmt.Print(export.RenderText(res.Plan))
	printOutstanding(res)
	return nil
}

func runPlanSummary(cmd *cobra.Command, args []string) error {
	res, err := application.Service.CurrentPlan()
	if err != nil {
		return err
	}
	if res.Plan.IsEmpty() {
		fmt.Println("Nothing scheduled")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tDATE\tSESSIONS\tHOURS\tAVAILABLE")
	for _, d := range res.Plan.Days {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f\t%.1f\n", d.Day, d.Date, len(d.Sessions), d.TotalHours, d.AvailableHours)
	}
	fmt.Fprintf(w, "TOTAL\t\t%d\t%.1f\t\n", res.Plan.SessionCount(), res.Plan.TotalHours())
	w.Flush()
	fmt.Printf("\nTasks included: %d\n", res.TasksIncluded())
	return nil
}

func runPlanExport(cmd *cobra.Command, args []string) error {
	return exportCurrent(planExportTo)
}

func exportCurrent(dir string) error {
	res, err := application.Service.ExportPlan(dir)
	if res == nil {
		return err
	}
	for _, a := range res.Artifacts {
		if a.Err != nil {
			fmt.Printf("FAILED  %s: %v\n", a.Path, a.Err)
		} else {
			fmt.Printf("Wrote   %s\n", a.Path)
		}
	}
	return err
}

func printOutstanding(res *planner.Result) {
	if len(res.Outstanding) == 0 {
		return
	}
	fmt.Println("Not scheduled this week:")
	for _, o := range res.Outstanding {
		fmt.Printf("  %s (%.1fh left)\n", o.Title, o.Hours)
	}
}
