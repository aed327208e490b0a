package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindis/avrobridge/internal/cmd/bridge"
	"github.com/mindis/avrobridge/internal/cmd/schema"
)

func NewRootCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "avrobridge",
		Short: "Converts avro records into transfer-safe records for data processing",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Welcome to avrobridge!")
		},
	}

	cmd.AddCommand(bridge.NewCommand())
	cmd.AddCommand(schema.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
