package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the audit trail of changes",
	RunE:  runAudit,
}

var (
	auditAction string
	auditLimit  int
)

func init() {
	auditCmd.Flags().StringVar(&auditAction, "action", "", "Filter by action (e.g. plan.generate)")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 20, "Number of records")
}

func runAudit(cmd *cobra.Command, args []string) error {
	entries, err := application.Service.AuditLog(auditAction, auditLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No audit records")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tOUTCOME\tTASK\tDETAILS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Action, e.Outcome,
			truncateID(e.TaskID), truncate(e.Details, 60))
	}
	w.Flush()
	return nil
}
