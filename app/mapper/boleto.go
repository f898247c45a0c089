package mapper

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vibast-solutions/ms-go-boleto/app/boleto"
	"github.com/vibast-solutions/ms-go-boleto/app/entity"
	"github.com/vibast-solutions/ms-go-boleto/app/service"
	"github.com/vibast-solutions/ms-go-boleto/app/types"
	"google.golang.org/protobuf/types/known/structpb"
)

func CreateBoletoRequestToPaymentRequest(req *types.CreateBoletoRequest) *boleto.PaymentRequest {
	if req == nil {
		return nil
	}

	out := boleto.NewPaymentRequest().
		SetTransactionRef(req.TransactionRef).
		SetAmount(req.Amount).
		SetDueDate(req.DueDate).
		SetPayerDocument(req.PayerDocument).
		SetDiscountAmount(req.DiscountAmount).
		SetDiscountDeadline(req.DiscountDeadline).
		SetPayerName(req.PayerName).
		SetPayerAddress(req.PayerAddress).
		SetPayerCity(req.PayerCity).
		SetPayerState(req.PayerState).
		SetPayerZip(req.PayerZip).
		SetStoreMessage(req.StoreMessage)

	// Zero on the wire means absent: idConv falls back to configuration and
	// qtdPontos goes out empty.
	if req.MerchantID != 0 {
		out.SetMerchantID(req.MerchantID)
	}
	if req.LoyaltyPoints != 0 {
		out.SetLoyaltyPoints(req.LoyaltyPoints)
	}
	if req.PaymentType != nil {
		out.SetPaymentType(boleto.PaymentType(*req.PaymentType))
	}
	if req.PayerDocumentKind != nil {
		out.SetPayerDocumentKind(boleto.PersonKind(*req.PayerDocumentKind))
	}
	if req.InvoiceKind != "" {
		out.SetInvoiceKind(boleto.InvoiceKind(req.InvoiceKind))
	}
	if req.ReturnURL != "" {
		out.SetReturnURL(req.ReturnURL)
	}
	if req.ConfirmURL != "" {
		out.SetConfirmURL(req.ConfirmURL)
	}
	return out
}

func PrepareOptionsFromRequest(req *types.CreateBoletoRequest) service.PrepareOptions {
	if req == nil {
		return service.PrepareOptions{}
	}
	return service.PrepareOptions{
		RequestID:      req.RequestID,
		SequenceNumber: req.SequenceNumber,
		Strict:         req.Strict,
	}
}

func SubmissionToResponse(prepared *service.Prepared, action, charset string) *types.SubmissionResponse {
	if prepared == nil {
		return nil
	}

	fields := make([]types.FormField, 0, prepared.Submission.Len())
	for _, f := range prepared.Submission {
		fields = append(fields, types.FormField{Name: string(f.Name), Value: f.Value})
	}

	resp := &types.SubmissionResponse{
		TransactionRef: prepared.Request.TransactionRef(),
		Action:         action,
		Method:         http.MethodPost,
		Charset:        charset,
		Fields:         fields,
		Encoded:        prepared.Submission.Encode(),
	}
	if prepared.Record != nil {
		resp.SubmissionID = prepared.Record.PublicID
	}
	return resp
}

func SubmissionRecordToResponse(item *entity.Submission) *types.SubmissionRecordResponse {
	if item == nil {
		return nil
	}
	return &types.SubmissionRecordResponse{
		SubmissionID:   item.PublicID,
		RequestID:      item.RequestID,
		MerchantID:     item.MerchantID,
		TransactionRef: item.TransactionRef,
		AmountCents:    item.AmountCents,
		DueDate:        item.DueDate,
		PayerDocument:  item.PayerDocument,
		Fields:         recordFieldsToResponse(item.Fields),
		CreatedAt:      item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ValidationErrorToResponse flattens a *boleto.ValidationError. A nil verr
// yields a response with no field details.
func ValidationErrorToResponse(message string, verr *boleto.ValidationError) *types.ValidationErrorResponse {
	resp := &types.ValidationErrorResponse{Error: message, Fields: []types.FieldErrorDetail{}}
	if verr == nil {
		return resp
	}
	for _, f := range verr.Fields {
		resp.Fields = append(resp.Fields, types.FieldErrorDetail{
			Field:  string(f.Field),
			Value:  f.Value,
			Reason: f.Err.Error(),
		})
	}
	return resp
}

// StructToCreateBoletoRequest decodes a gRPC struct payload using the same
// JSON names as the HTTP body.
func StructToCreateBoletoRequest(in *structpb.Struct) (*types.CreateBoletoRequest, error) {
	var out types.CreateBoletoRequest
	if in == nil {
		return &out, nil
	}
	raw, err := json.Marshal(in.AsMap())
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func SubmissionResponseToStruct(resp *types.SubmissionResponse) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"submission_id":   resp.SubmissionID,
		"transaction_ref": resp.TransactionRef,
		"action":          resp.Action,
		"method":          resp.Method,
		"charset":         resp.Charset,
		"fields":          formFieldsToList(resp.Fields),
		"encoded":         resp.Encoded,
	})
}

func SubmissionRecordToStruct(resp *types.SubmissionRecordResponse) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"submission_id":   resp.SubmissionID,
		"request_id":      resp.RequestID,
		"merchant_id":     resp.MerchantID,
		"transaction_ref": resp.TransactionRef,
		"amount_cents":    resp.AmountCents,
		"due_date":        resp.DueDate,
		"payer_document":  resp.PayerDocument,
		"fields":          formFieldsToList(resp.Fields),
		"created_at":      resp.CreatedAt,
	})
}

func HealthToStruct(status string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"status": structpb.NewStringValue(status),
	}}
}

func recordFieldsToResponse(src []entity.FormField) []types.FormField {
	out := make([]types.FormField, 0, len(src))
	for _, f := range src {
		out = append(out, types.FormField{Name: f.Name, Value: f.Value})
	}
	return out
}

func formFieldsToList(src []types.FormField) []interface{} {
	out := make([]interface{}, 0, len(src))
	for _, f := range src {
		out = append(out, map[string]interface{}{"name": f.Name, "value": f.Value})
	}
	return out
}
