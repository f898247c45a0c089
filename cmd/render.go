package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-boleto/app/mapper"
	"github.com/vibast-solutions/ms-go-boleto/app/service"
	"github.com/vibast-solutions/ms-go-boleto/app/types"
)

const (
	outputHTML   = "html"
	outputFields = "fields"
	outputJSON   = "json"
)

var (
	renderReq         types.CreateBoletoRequest
	renderOutput      string
	renderPaymentType int
	renderPersonKind  int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write a boleto form for the given fields to stdout",
	Long:  "Build the bank submission from flags and write the auto-submit HTML page, the ordered fields or the JSON submission.",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	f := renderCmd.Flags()
	f.StringVarP(&renderOutput, "output", "o", outputHTML, "Output format: html, fields or json")
	f.BoolVar(&renderReq.Strict, "strict", false, "Reject values the bank would refuse")
	f.StringVar(&renderReq.SequenceNumber, "sequence", "", "Sequence number used to build refTran")
	f.Int64Var(&renderReq.MerchantID, "merchant-id", 0, "Merchant agreement number (idConv)")
	f.StringVar(&renderReq.TransactionRef, "transaction-ref", "", "Transaction reference (refTran)")
	f.StringVar(&renderReq.Amount, "amount", "", "Amount in cents (valor)")
	f.Int64Var(&renderReq.LoyaltyPoints, "loyalty-points", 0, "Loyalty points (qtdPontos)")
	f.StringVar(&renderReq.DueDate, "due-date", "", "Due date DD/MM/YYYY (dtVenc)")
	f.IntVar(&renderPaymentType, "payment-type", 0, "Payment type (tpPagamento)")
	f.StringVar(&renderReq.PayerDocument, "payer-document", "", "Payer CPF/CNPJ (cpfCnpj)")
	f.IntVar(&renderPersonKind, "payer-document-kind", 0, "1 for CPF, 2 for CNPJ (indicadorPessoa)")
	f.StringVar(&renderReq.DiscountAmount, "discount-amount", "", "Discount in cents (valorDesconto)")
	f.StringVar(&renderReq.DiscountDeadline, "discount-deadline", "", "Discount deadline DD/MM/YYYY (dataLimiteDesconto)")
	f.StringVar(&renderReq.InvoiceKind, "invoice-kind", "", "DM or DS (tpDuplicata)")
	f.StringVar(&renderReq.ReturnURL, "return-url", "", "Return URL (urlRetorno)")
	f.StringVar(&renderReq.ConfirmURL, "confirm-url", "", "Confirmation URL (urlInforma)")
	f.StringVar(&renderReq.PayerName, "payer-name", "", "Payer name (nome)")
	f.StringVar(&renderReq.PayerAddress, "payer-address", "", "Payer address (endereco)")
	f.StringVar(&renderReq.PayerCity, "payer-city", "", "Payer city (cidade)")
	f.StringVar(&renderReq.PayerState, "payer-state", "", "Payer state (uf)")
	f.StringVar(&renderReq.PayerZip, "payer-zip", "", "Payer ZIP code (cep)")
	f.StringVar(&renderReq.StoreMessage, "store-message", "", "Message printed on the boleto (msgLoja)")
}

func runRender(cmd *cobra.Command, _ []string) error {
	switch renderOutput {
	case outputHTML, outputFields, outputJSON:
	default:
		return fmt.Errorf("unknown output %q", renderOutput)
	}

	req := renderReq
	if cmd.Flags().Changed("payment-type") {
		req.PaymentType = &renderPaymentType
	}
	if cmd.Flags().Changed("payer-document-kind") {
		req.PayerDocumentKind = &renderPersonKind
	}
	if err := req.Validate(); err != nil {
		return err
	}

	cfg := mustLoadConfig()
	boletoService := service.NewBoletoService(nil, mustCreateRenderer(cfg), cfg.Boleto)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return writeRendered(ctx, cmd.OutOrStdout(), boletoService, &req, renderOutput)
}

func writeRendered(ctx context.Context, w io.Writer, boletoService *service.BoletoService, req *types.CreateBoletoRequest, output string) error {
	prepare := boletoService.Prepare
	if output == outputHTML {
		prepare = boletoService.PrepareForm
	}
	prepared, err := prepare(ctx, mapper.CreateBoletoRequestToPaymentRequest(req), mapper.PrepareOptionsFromRequest(req))
	if err != nil {
		return err
	}

	switch output {
	case outputFields:
		for _, f := range prepared.Submission {
			if _, err := fmt.Fprintf(w, "%s=%s\n", f.Name, f.Value); err != nil {
				return err
			}
		}
		return nil
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(mapper.SubmissionToResponse(prepared, boletoService.GatewayURL(), boletoService.Charset()))
	default:
		return boletoService.RenderForm(w, prepared)
	}
}
