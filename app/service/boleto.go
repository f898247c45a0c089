package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-boleto/app/boleto"
	"github.com/vibast-solutions/ms-go-boleto/app/entity"
	"github.com/vibast-solutions/ms-go-boleto/app/factory"
	"github.com/vibast-solutions/ms-go-boleto/app/render"
	"github.com/vibast-solutions/ms-go-boleto/app/repository"
	"github.com/vibast-solutions/ms-go-boleto/config"
)

type submissionRepository interface {
	Create(ctx context.Context, submission *entity.Submission) error
	FindByTransactionRef(ctx context.Context, transactionRef string) (*entity.Submission, error)
}

type PrepareOptions struct {
	RequestID string
	// SequenceNumber is turned into refTran when the request carries none.
	SequenceNumber string
	// Strict forces validation even when the service runs permissive.
	Strict bool
}

type Prepared struct {
	Request    *boleto.PaymentRequest
	Submission boleto.Submission
	// Record is nil when no ledger is configured.
	Record *entity.Submission
	// Page holds the encoded HTML form; only PrepareForm fills it.
	Page []byte
}

type BoletoService struct {
	submissionRepo submissionRepository
	renderer       *render.FormRenderer
	boletoCfg      config.BoletoConfig
	logger         logrus.FieldLogger
	now            func() time.Time
}

// NewBoletoService builds the service. submissionRepo may be nil to run
// without a ledger.
func NewBoletoService(submissionRepo submissionRepository, renderer *render.FormRenderer, boletoCfg config.BoletoConfig) *BoletoService {
	if renderer == nil {
		renderer = render.NewFormRenderer(boletoCfg.GatewayURL, nil, boletoCfg.RedirectDelay)
	}
	return &BoletoService{
		submissionRepo: submissionRepo,
		renderer:       renderer,
		boletoCfg:      boletoCfg,
		logger:         factory.NewModuleLogger("boleto-service"),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Prepare fills configured defaults into req, builds its submission and
// records it in the ledger.
func (s *BoletoService) Prepare(ctx context.Context, req *boleto.PaymentRequest, opts PrepareOptions) (*Prepared, error) {
	prepared, err := s.build(req, opts)
	if err != nil {
		return nil, err
	}
	if err := s.record(ctx, prepared, opts); err != nil {
		return nil, err
	}
	s.logPrepared(prepared, opts)
	return prepared, nil
}

// PrepareForm is Prepare for the HTML flow. The page is rendered before the
// ledger write so a render failure never consumes the refTran.
func (s *BoletoService) PrepareForm(ctx context.Context, req *boleto.PaymentRequest, opts PrepareOptions) (*Prepared, error) {
	prepared, err := s.build(req, opts)
	if err != nil {
		return nil, err
	}

	var page bytes.Buffer
	if err := s.renderer.Render(&page, prepared.Submission); err != nil {
		return nil, fmt.Errorf("render form: %w", err)
	}
	prepared.Page = page.Bytes()

	if err := s.record(ctx, prepared, opts); err != nil {
		return nil, err
	}
	s.logPrepared(prepared, opts)
	return prepared, nil
}

// RenderForm writes the auto-submitting bank form for a prepared submission.
func (s *BoletoService) RenderForm(w io.Writer, prepared *Prepared) error {
	if prepared == nil {
		return ErrInvalidRequest
	}
	if prepared.Page != nil {
		_, err := w.Write(prepared.Page)
		return err
	}
	return s.renderer.Render(w, prepared.Submission)
}

func (s *BoletoService) build(req *boleto.PaymentRequest, opts PrepareOptions) (*Prepared, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	s.applyDefaults(req)

	if req.TransactionRefOriginal() == "" {
		seq := strings.TrimSpace(opts.SequenceNumber)
		if seq == "" {
			return nil, fmt.Errorf("%w: transaction ref or sequence number is required", ErrInvalidRequest)
		}
		req.SetTransactionRef(boleto.GenerateTransactionRef(seq, s.boletoCfg.BillingAgreementCode))
	}

	if s.strict(opts) {
		submission, err := boleto.BuildStrictSubmission(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return &Prepared{Request: req, Submission: submission}, nil
	}
	return &Prepared{Request: req, Submission: boleto.BuildSubmission(req)}, nil
}

func (s *BoletoService) record(ctx context.Context, prepared *Prepared, opts PrepareOptions) error {
	if s.submissionRepo == nil {
		return nil
	}

	req := prepared.Request
	fields := make([]entity.FormField, 0, prepared.Submission.Len())
	for _, f := range prepared.Submission {
		fields = append(fields, entity.FormField{Name: string(f.Name), Value: f.Value})
	}
	record := &entity.Submission{
		PublicID:       uuid.NewString(),
		RequestID:      strings.TrimSpace(opts.RequestID),
		MerchantID:     req.MerchantID(),
		TransactionRef: req.TransactionRef(),
		AmountCents:    req.Amount(),
		DueDate:        req.DueDate(),
		PayerDocument:  req.PayerDocument(),
		Fields:         fields,
		CreatedAt:      s.now(),
	}
	if err := s.submissionRepo.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrTransactionRefExists) {
			return fmt.Errorf("%w: %s", ErrTransactionRefReused, record.TransactionRef)
		}
		return err
	}
	prepared.Record = record
	return nil
}

func (s *BoletoService) logPrepared(prepared *Prepared, opts PrepareOptions) {
	entry := s.logger.WithFields(logrus.Fields{
		"request_id":      opts.RequestID,
		"transaction_ref": prepared.Request.TransactionRef(),
		"strict":          s.strict(opts),
	})
	if amount, err := prepared.Request.AmountDecimal(); err == nil {
		entry = entry.WithField("amount", amount.StringFixed(2))
	}
	entry.Info("boleto_prepared")
}

func (s *BoletoService) strict(opts PrepareOptions) bool {
	return s.boletoCfg.StrictValidation || opts.Strict
}

func (s *BoletoService) FindSubmission(ctx context.Context, transactionRef string) (*entity.Submission, error) {
	if s.submissionRepo == nil {
		return nil, ErrLedgerDisabled
	}
	ref := strings.TrimSpace(transactionRef)
	if ref == "" {
		return nil, ErrInvalidRequest
	}

	item, err := s.submissionRepo.FindByTransactionRef(ctx, boleto.PadTransactionRef(ref))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrSubmissionNotFound
	}
	return item, nil
}

func (s *BoletoService) ContentType() string {
	return s.renderer.ContentType()
}

func (s *BoletoService) GatewayURL() string {
	return s.renderer.Action()
}

func (s *BoletoService) Charset() string {
	return s.renderer.Charset()
}

// applyDefaults only touches fields the caller left unset, so an explicit "/"
// or 0 reaches the bank as given.
func (s *BoletoService) applyDefaults(req *boleto.PaymentRequest) {
	if !req.IsSet(boleto.FieldMerchantID) && s.boletoCfg.MerchantID != 0 {
		req.SetMerchantID(s.boletoCfg.MerchantID)
	}
	if !req.IsSet(boleto.FieldReturnURL) && s.boletoCfg.ReturnURL != "" {
		req.SetReturnURL(s.boletoCfg.ReturnURL)
	}
	if !req.IsSet(boleto.FieldConfirmURL) && s.boletoCfg.ConfirmURL != "" {
		req.SetConfirmURL(s.boletoCfg.ConfirmURL)
	}
}
