package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"clinicbook/internal/logging"
	"clinicbook/internal/logic"
	"clinicbook/internal/mockapi"
)

var mockAPICmd = &cobra.Command{
	Use:   "mock-api",
	Short: "Serve an in-memory appointment backend",
	Long: `Serve the appointment endpoints from memory for local development.

Bookings are kept until the process exits.

Examples:
  clinicbook mock-api                   # Listen on :8080 with 23 appointments
  clinicbook mock-api --addr :9000 --seed 0`,
	Args: cobra.NoArgs,
	RunE: runMockAPI,
}

func init() {
	rootCmd.AddCommand(mockAPICmd)

	mockAPICmd.Flags().String("addr", ":8080", "listen address")
	mockAPICmd.Flags().Int("seed", 23, "number of sample appointments")
	mockAPICmd.Flags().Bool("pretty", true, "human-readable log output")
}

func runMockAPI(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	seed, _ := cmd.Flags().GetInt("seed")
	pretty, _ := cmd.Flags().GetBool("pretty")

	logger := logging.Console(cmd.OutOrStdout(), pretty)

	store := logic.NewMemoryAppointmentStore()
	mockapi.Seed(store, time.Now(), max(seed, 0))
	srv := mockapi.New(store, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down mock api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
