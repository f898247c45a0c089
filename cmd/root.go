package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "boleto",
	Short: "Banco do Brasil registered boleto service",
	Long:  "Builds and renders the registered boleto form that is posted to the Banco do Brasil payment gateway.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
