package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-boleto/app/entity"
	"github.com/vibast-solutions/ms-go-boleto/app/render"
	"github.com/vibast-solutions/ms-go-boleto/app/repository"
	"github.com/vibast-solutions/ms-go-boleto/app/service"
	"github.com/vibast-solutions/ms-go-boleto/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type grpcSubmissionRepo struct {
	createFn               func(ctx context.Context, submission *entity.Submission) error
	findByTransactionRefFn func(ctx context.Context, transactionRef string) (*entity.Submission, error)
}

func (r *grpcSubmissionRepo) Create(ctx context.Context, submission *entity.Submission) error {
	if r.createFn != nil {
		return r.createFn(ctx, submission)
	}
	return nil
}

func (r *grpcSubmissionRepo) FindByTransactionRef(ctx context.Context, transactionRef string) (*entity.Submission, error) {
	if r.findByTransactionRefFn != nil {
		return r.findByTransactionRefFn(ctx, transactionRef)
	}
	return nil, nil
}

func newGRPCServerForTest(repo *grpcSubmissionRepo) *Server {
	cfg := config.BoletoConfig{
		GatewayURL:    "https://bank.example/mpag/",
		MerchantID:    311793,
		FormCharset:   "UTF-8",
		RedirectDelay: time.Second,
	}
	renderer := render.NewFormRenderer(cfg.GatewayURL, render.UTF8(), cfg.RedirectDelay)
	if repo == nil {
		return NewServer(service.NewBoletoService(nil, renderer, cfg))
	}
	return NewServer(service.NewBoletoService(repo, renderer, cfg))
}

func mustStruct(t *testing.T, in map[string]interface{}) *structpb.Struct {
	t.Helper()
	out, err := structpb.NewStruct(in)
	if err != nil {
		t.Fatalf("failed to build struct: %v", err)
	}
	return out
}

func TestBuildSubmissionInvalidArgument(t *testing.T) {
	srv := newGRPCServerForTest(&grpcSubmissionRepo{})
	_, err := srv.BuildSubmission(context.Background(), mustStruct(t, map[string]interface{}{"amount": "100"}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestBuildSubmissionStrictValidation(t *testing.T) {
	srv := newGRPCServerForTest(nil)
	_, err := srv.BuildSubmission(context.Background(), mustStruct(t, map[string]interface{}{
		"sequence_number": "1",
		"amount":          "abc",
		"strict":          true,
	}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestBuildSubmissionAlreadyExists(t *testing.T) {
	srv := newGRPCServerForTest(&grpcSubmissionRepo{createFn: func(context.Context, *entity.Submission) error {
		return repository.ErrTransactionRefExists
	}})
	_, err := srv.BuildSubmission(context.Background(), mustStruct(t, map[string]interface{}{"sequence_number": "1"}))
	if status.Code(err) != codes.AlreadyExists {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}
}

func TestBuildSubmissionInternal(t *testing.T) {
	srv := newGRPCServerForTest(&grpcSubmissionRepo{createFn: func(context.Context, *entity.Submission) error {
		return errors.New("db down")
	}})
	_, err := srv.BuildSubmission(context.Background(), mustStruct(t, map[string]interface{}{"sequence_number": "1"}))
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
}

func TestBuildSubmissionSuccess(t *testing.T) {
	var stored *entity.Submission
	srv := newGRPCServerForTest(&grpcSubmissionRepo{createFn: func(_ context.Context, submission *entity.Submission) error {
		stored = submission
		return nil
	}})

	out, err := srv.BuildSubmission(context.Background(), mustStruct(t, map[string]interface{}{
		"request_id":      "req-grpc",
		"sequence_number": "42",
		"amount":          "1,957",
		"payer_name":      "ana",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.GetFields()["transaction_ref"].GetStringValue(); got != "00000000000000042" {
		t.Fatalf("unexpected transaction_ref: %s", got)
	}
	fields := out.GetFields()["fields"].GetListValue().GetValues()
	if len(fields) != 19 {
		t.Fatalf("expected 19 fields, got %d", len(fields))
	}
	if stored == nil || stored.RequestID != "req-grpc" {
		t.Fatalf("unexpected ledger record: %+v", stored)
	}
}

func TestGetSubmissionStatuses(t *testing.T) {
	srv := newGRPCServerForTest(nil)
	_, err := srv.GetSubmission(context.Background(), mustStruct(t, map[string]interface{}{"transaction_ref": "1"}))
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("expected Unavailable, got %v", err)
	}

	srv = newGRPCServerForTest(&grpcSubmissionRepo{})
	_, err = srv.GetSubmission(context.Background(), mustStruct(t, map[string]interface{}{"transaction_ref": "1"}))
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
	_, err = srv.GetSubmission(context.Background(), mustStruct(t, map[string]interface{}{}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestServiceDescOverBufconn(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	grpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(RecoveryInterceptor(), RequestIDInterceptor(), LoggingInterceptor()))
	RegisterBoletoServiceServer(grpcSrv, newGRPCServerForTest(nil))
	go func() { _ = grpcSrv.Serve(lis) }()
	defer grpcSrv.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	health := new(structpb.Struct)
	if err := conn.Invoke(ctx, "/boleto.BoletoService/Health", &structpb.Struct{}, health); err != nil {
		t.Fatalf("health call failed: %v", err)
	}
	if health.GetFields()["status"].GetStringValue() != "ok" {
		t.Fatalf("unexpected health: %v", health)
	}

	out := new(structpb.Struct)
	in := mustStruct(t, map[string]interface{}{"transaction_ref": "9", "amount": "100"})
	if err := conn.Invoke(ctx, "/boleto.BoletoService/BuildSubmission", in, out); err != nil {
		t.Fatalf("build call failed: %v", err)
	}
	if got := out.GetFields()["charset"].GetStringValue(); got != "UTF-8" {
		t.Fatalf("unexpected charset: %s", got)
	}
}
