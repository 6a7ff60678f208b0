package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pivanov/relaywarden/internal/config"
	"github.com/pivanov/relaywarden/internal/daemon"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the authority's ownership and recovery state",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	snap := d.Status()
	out := map[string]any{
		"id":                 snap.ID,
		"origin_domain":      uint64(snap.OriginDomain),
		"owner":              snap.Owner.String(),
		"two_step_ownership": snap.TwoStepOwnership,
		"forwarder":          d.Forwarder().String(),
	}
	if !snap.PendingOwner.IsZero() {
		out["pending_owner"] = snap.PendingOwner.String()
	}
	if snap.RecoveryEnabled {
		out["recovery_address"] = snap.RecoveryAddress.String()
		out["recovery_delay"] = snap.RecoveryDelay.String()
		if !snap.RecoveryInitiatedAt.IsZero() {
			out["recovery_initiated_at"] = snap.RecoveryInitiatedAt.UTC().Format("2006-01-02T15:04:05.000Z")
			out["recovery_claim_active"] = d.Authority().RecoveryClaimActive()
		}
	}

	data, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(data))
	return nil
}

func openDaemon() (*daemon.Daemon, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	return daemon.New(cfg)
}
