package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"clinicbook/internal/domain"
	"clinicbook/internal/pagination"
	"clinicbook/internal/ui/views"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Print one page of appointments",
	Long: `Print one page of appointments as a table.

The filter applies to the fetched page only, as in the TUI.

Examples:
  clinicbook list                      # First page of all appointments
  clinicbook list --page 2 --limit 20  # Another page
  clinicbook list --pending            # Appointments awaiting confirmation
  clinicbook list --filter today       # Today's appointments on the page`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("pending", false, "list pending appointments")
	listCmd.Flags().Int("page", 1, "page number")
	listCmd.Flags().Int("limit", 0, "items per page (default from config)")
	listCmd.Flags().String("filter", "all", "filter: all, today, upcoming, past")
}

func runList(cmd *cobra.Command, args []string) error {
	pending, _ := cmd.Flags().GetBool("pending")
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	filterName, _ := cmd.Flags().GetString("filter")

	filter, ok := domain.ParseFilter(filterName)
	if !ok {
		return fmt.Errorf("unknown filter %q", filterName)
	}
	if limit <= 0 {
		limit = cfg.ItemsPerPage
	}
	if !pagination.ValidPageSize(limit) {
		return fmt.Errorf("limit must be one of %v", pagination.PageSizes)
	}

	client := newClient()
	fetcher := client.AppointmentsFetcher()
	if pending {
		fetcher = client.PendingFetcher()
	}
	ctrl := pagination.New(fetcher, "", limit)
	ctrl.SetFilter(filter)
	if err := ctrl.Load(cmd.Context(), max(page, 1)); err != nil {
		return fmt.Errorf("listing appointments: %w", err)
	}
	items := ctrl.Visible()

	out := cmd.OutOrStdout()
	last := "STATUS"
	if pending {
		last = "PRIORITY"
	}
	t := newTable(out, []string{"ID", "DATE & TIME", "PATIENT", "DOCTOR", "DIAGNOSIS", last})
	for _, a := range items {
		badge := domain.StatusLabel(a.Status)
		if pending {
			badge = a.Priority.Label()
		}
		t.addRow(a.ID, views.FormatWhen(a), orDash(a.PatientName), orDash(a.DoctorName), orDash(a.Diagnosis), badge)
	}
	if err := t.render(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, pagination.Summary(ctrl.State(), filter, len(items)))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
