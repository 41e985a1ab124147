package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yellow-footed-honeyguide/rakke/internal/layout"
)

var bareFlag bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create an empty Git-compatible repository",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		result, err := layout.Init(dir, bareFlag)
		if err != nil {
			return err
		}

		if result.Bare {
			fmt.Printf("Initialized empty Git repository in %s\n", result.TargetAbs)
		} else {
			fmt.Printf("Initialized empty Git repository in %s/.git/\n", result.TargetAbs)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&bareFlag, "bare", false, "create a bare repository")
}
