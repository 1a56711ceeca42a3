package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clinicbook/internal/domain"
	"clinicbook/internal/terminology"
)

var searchCmd = &cobra.Command{
	Use:   "search <procedure|diagnosis> <query>",
	Short: "Look up ICHI procedures or ICD-11 diagnoses",
	Long: `Search the terminology endpoints the booking form uses.

Procedures are searched through the configured ICHI search URL. When the
backend cannot be reached, matching sample results are printed instead.

Examples:
  clinicbook search procedure cholecyst
  clinicbook search diagnosis "type 2 diabetes"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Int("limit", 0, "maximum number of results (default from config)")
}

func parseSearchType(s string) (domain.SearchType, error) {
	switch strings.ToLower(s) {
	case "procedure", "procedures", "ichi":
		return domain.SearchProcedure, nil
	case "diagnosis", "diagnoses", "icd":
		return domain.SearchDiagnosis, nil
	}
	return "", fmt.Errorf("unknown search type %q (want procedure or diagnosis)", s)
}

func runSearch(cmd *cobra.Command, args []string) error {
	st, err := parseSearchType(args[0])
	if err != nil {
		return err
	}
	query := strings.Join(args[1:], " ")
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.SearchLimit
	}

	opts := terminology.Options{SearchType: st}
	if st == domain.SearchProcedure {
		opts.SearchURL = cfg.ICHISearchURL
	} else {
		opts.SearchURL = cfg.ICDSearchURL
	}
	searcher := terminology.Resolve(opts).Searcher(newClient(), limit)

	out := cmd.OutOrStdout()
	results, err := searcher.Search(cmd.Context(), query)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Search failed (%v), showing sample %s\n", err, st.Plural())
		results = terminology.SampleMatches(st, query)
	}
	if len(results) == 0 {
		fmt.Fprintf(out, "No %s found for %q\n", st.Plural(), query)
		return nil
	}

	t := newTable(out, []string{"CODE", "TITLE", "DESCRIPTION"})
	for _, r := range results {
		t.addRow(r.Code, r.Title, truncate(r.Description, 60))
	}
	return t.render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
