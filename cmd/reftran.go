package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-boleto/app/boleto"
)

var reftranBillingCode string

var reftranCmd = &cobra.Command{
	Use:   "reftran <sequence-number>",
	Short: "Print the refTran built from a sequence number",
	Long:  "Print the 17 character refTran for a sequence number. A 7 digit billing agreement code is used as prefix, other codes are ignored.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := reftranBillingCode
		if !cmd.Flags().Changed("billing-code") {
			code = mustLoadConfig().Boleto.BillingAgreementCode
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), boleto.GenerateTransactionRef(strings.TrimSpace(args[0]), code))
		return err
	},
}

func init() {
	rootCmd.AddCommand(reftranCmd)
	reftranCmd.Flags().StringVar(&reftranBillingCode, "billing-code", "", "Billing agreement code (defaults to BOLETO_BILLING_AGREEMENT_CODE)")
}
