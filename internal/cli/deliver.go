package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pivanov/relaywarden/internal/envelope"
	"github.com/pivanov/relaywarden/internal/ident"
)

var (
	deliverDomain  uint64
	deliverSender  string
	deliverOp      string
	deliverTarget  string
	deliverValue   uint64
	deliverData    string
	deliverNewAddr string
)

func init() {
	rootCmd.AddCommand(deliverCmd)
	deliverCmd.Flags().Uint64Var(&deliverDomain, "from-domain", 0, "Origin domain id of the sender")
	deliverCmd.Flags().StringVar(&deliverSender, "from-sender", "", "Origin sender identity (0x hex)")
	deliverCmd.Flags().StringVar(&deliverOp, "op", "", "Operation name (execute, transfer_ownership, ...)")
	deliverCmd.Flags().StringVar(&deliverTarget, "target", "", "Target identity for execute")
	deliverCmd.Flags().Uint64Var(&deliverValue, "value", 0, "Value to attach to an execute call")
	deliverCmd.Flags().StringVar(&deliverData, "data", "", "Calldata for execute, passed verbatim")
	deliverCmd.Flags().StringVar(&deliverNewAddr, "new-address", "", "New identity for reassignment ops")
	deliverCmd.MarkFlagRequired("from-domain")
	deliverCmd.MarkFlagRequired("from-sender")
	deliverCmd.MarkFlagRequired("op")
}

var deliverCmd = &cobra.Command{
	Use:   "deliver",
	Short: "Deliver a relayed instruction to the authority",
	Long:  "Runs an instruction through the authority as if it arrived from the\ntrusted forwarder, prints the forwarded result, and persists state.\nMainly for local testing; production traffic goes through the relay.",
	RunE:  runDeliver,
}

func runDeliver(cmd *cobra.Command, args []string) error {
	sender, err := ident.ParseIdentity(deliverSender)
	if err != nil {
		return fmt.Errorf("--from-sender: %w", err)
	}

	op, err := envelope.OpFromName(deliverOp)
	if err != nil {
		return err
	}

	inst := envelope.Instruction{Op: op, Value: deliverValue, Data: []byte(deliverData)}
	if deliverTarget != "" {
		if inst.Target, err = ident.ParseIdentity(deliverTarget); err != nil {
			return fmt.Errorf("--target: %w", err)
		}
	}
	if deliverNewAddr != "" {
		if inst.NewAddr, err = ident.ParseIdentity(deliverNewAddr); err != nil {
			return fmt.Errorf("--new-address: %w", err)
		}
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	result, err := d.Deliver(context.Background(), ident.DomainID(deliverDomain), sender, inst)
	if err != nil {
		return err
	}

	if len(result) > 0 {
		fmt.Println(string(result))
	} else {
		fmt.Println("ok")
	}
	return nil
}
