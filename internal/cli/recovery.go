package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pivanov/relaywarden/internal/ident"
)

var (
	recoveryAs     string
	recoveryTarget string
	recoveryValue  uint64
	recoveryData   string
)

func init() {
	rootCmd.AddCommand(recoveryCmd)
	recoveryCmd.AddCommand(recoveryInitiateCmd)
	recoveryCmd.AddCommand(recoveryRenounceCmd)
	recoveryCmd.AddCommand(recoveryExecCmd)
	recoveryCmd.AddCommand(recoveryStatusCmd)
	recoveryCmd.PersistentFlags().StringVar(&recoveryAs, "as", "", "Caller identity (0x hex), must match the recovery address")
	recoveryExecCmd.Flags().StringVar(&recoveryTarget, "target", "", "Target identity")
	recoveryExecCmd.Flags().Uint64Var(&recoveryValue, "value", 0, "Value to attach")
	recoveryExecCmd.Flags().StringVar(&recoveryData, "data", "", "Calldata, passed verbatim")
	recoveryExecCmd.MarkFlagRequired("target")
}

var recoveryCmd = &cobra.Command{
	Use:   "recovery",
	Short: "Break-glass recovery operations",
	Long:  "Drives the timed recovery path: the recovery address initiates a claim,\nwaits out the delay, then may forward calls on the owner's behalf.",
}

var recoveryInitiateCmd = &cobra.Command{
	Use:   "initiate",
	Short: "Start the recovery claim timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := recoveryCaller()
		if err != nil {
			return err
		}
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.InitiateRecovery(context.Background(), caller); err != nil {
			return err
		}
		snap := d.Status()
		fmt.Printf("Recovery claim initiated; matures at %s\n",
			snap.RecoveryInitiatedAt.Add(snap.RecoveryDelay).UTC().Format("2006-01-02T15:04:05Z"))
		return nil
	},
}

var recoveryRenounceCmd = &cobra.Command{
	Use:   "renounce",
	Short: "Cancel a pending recovery claim",
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := recoveryCaller()
		if err != nil {
			return err
		}
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.RenounceRecovery(context.Background(), caller); err != nil {
			return err
		}
		fmt.Println("Recovery claim renounced")
		return nil
	},
}

var recoveryExecCmd = &cobra.Command{
	Use:   "exec",
	Short: "Forward a call through a matured recovery claim",
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := recoveryCaller()
		if err != nil {
			return err
		}
		target, err := ident.ParseIdentity(recoveryTarget)
		if err != nil {
			return fmt.Errorf("--target: %w", err)
		}
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		result, err := d.RecoveryExecute(context.Background(), caller, target, recoveryValue, []byte(recoveryData))
		if err != nil {
			return err
		}
		if len(result) > 0 {
			fmt.Println(string(result))
		} else {
			fmt.Println("ok")
		}
		return nil
	},
}

var recoveryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the recovery claim state",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		snap := d.Status()
		out := map[string]any{
			"recovery_enabled": snap.RecoveryEnabled,
		}
		if snap.RecoveryEnabled {
			out["recovery_address"] = snap.RecoveryAddress.String()
			out["recovery_delay"] = snap.RecoveryDelay.String()
			if snap.RecoveryInitiatedAt.IsZero() {
				out["claim_pending"] = false
			} else {
				out["claim_pending"] = true
				out["initiated_at"] = snap.RecoveryInitiatedAt.UTC().Format("2006-01-02T15:04:05.000Z")
				out["active_at"] = snap.RecoveryInitiatedAt.Add(snap.RecoveryDelay).UTC().Format("2006-01-02T15:04:05.000Z")
				out["active"] = d.Authority().RecoveryClaimActive()
			}
		}

		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	},
}

func recoveryCaller() (ident.Identity, error) {
	if recoveryAs == "" {
		return ident.Null, fmt.Errorf("--as is required")
	}
	caller, err := ident.ParseIdentity(recoveryAs)
	if err != nil {
		return ident.Null, fmt.Errorf("--as: %w", err)
	}
	return caller, nil
}
