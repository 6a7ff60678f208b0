package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pivanov/relaywarden/internal/config"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap the relaywarden configuration",
	Long: `Writes a starter config to ~/.relaywarden/config.yaml (or --config).

The generated file needs the forwarder, owner, and target routes filled
in before the daemon will accept instructions.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Default().Write(path); err != nil {
		return err
	}

	fmt.Printf("Created %s\n", path)
	fmt.Println("Fill in authority.owner, forwarder, and targets before running serve.")
	return nil
}
