package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pivanov/relaywarden/internal/config"
	"github.com/pivanov/relaywarden/internal/event"
)

var (
	eventsAuthority string
	eventsType      string
	eventsJSON      bool
)

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
	eventsCmd.AddCommand(eventsVerifyCmd)
	eventsTailCmd.Flags().StringVar(&eventsAuthority, "authority", "", "Authority id filter")
	eventsTailCmd.Flags().StringVar(&eventsType, "type", "", "Event type filter")
	eventsTailCmd.Flags().BoolVar(&eventsJSON, "json", false, "Print raw JSON instead of a timeline")
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Event ledger operations",
	Long:  "Commands for inspecting and verifying the hash-chained event ledger.",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show ledger entries as a timeline",
	RunE:  runEventsTail,
}

var eventsVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify hash chain integrity of the event ledger",
	Long:  "Walks the JSONL ledger and validates that every entry's prev_hash\nmatches the SHA-256 of the previous entry. Exits 0 if valid, 1 if tampered.",
	RunE:  runEventsVerify,
}

func ledgerPath() (string, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return "", err
	}
	return cfg.Paths.EventLog, nil
}

func runEventsTail(cmd *cobra.Command, args []string) error {
	path, err := ledgerPath()
	if err != nil {
		return err
	}

	result, err := event.Query(path, event.Filter{Authority: eventsAuthority, Type: eventsType})
	if err != nil {
		return err
	}

	if eventsJSON {
		out, err := event.FormatJSON(result)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	fmt.Print(event.FormatTimeline(result))
	return nil
}

func runEventsVerify(cmd *cobra.Command, args []string) error {
	path, err := ledgerPath()
	if err != nil {
		return err
	}

	result := event.Verify(path)
	if result.Valid {
		fmt.Printf("OK: %d entries verified\n", result.Lines)
		return nil
	}
	fmt.Fprintf(os.Stderr, "FAILED at line %d: %s\n", result.ErrorLine, result.Error)
	os.Exit(1)
	return nil
}
