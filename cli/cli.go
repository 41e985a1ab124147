// Package cli wires rakke's cobra command surface: init, add, count-objects,
// and --version (spec §6). Every RunE returns a wrapped error rather than
// calling log.Fatal, so Execute can prefix "fatal:" and choose the exit
// code uniformly.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yellow-footed-honeyguide/rakke/internal/colors"
)

// Version is rakke's reported semantic version.
const Version = "0.1.0"

var showVersion bool

var rootCmd = &cobra.Command{
	Use:           "rakke",
	Short:         "rakke is a minimal Git-compatible object store",
	Long:          "rakke reimplements Git's core object store, pack reader, and staging area.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("rakke version %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "print rakke's version")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(countObjectsCmd)
}

// Execute runs the root command and exits 1 on any fatal error, printing it
// with the "fatal:" prefix required by spec §7.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colors.ErrorText(fmt.Sprintf("fatal: %s", err)))
		os.Exit(1)
	}
}
