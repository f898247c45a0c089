package grpc

import (
	"context"
	"errors"

	"github.com/vibast-solutions/ms-go-boleto/app/boleto"
	"github.com/vibast-solutions/ms-go-boleto/app/mapper"
	"github.com/vibast-solutions/ms-go-boleto/app/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "boleto.BoletoService"

// BoletoServiceServer is the gRPC surface. Payloads are structpb.Struct values
// carrying the same JSON shape as the HTTP API.
type BoletoServiceServer interface {
	Health(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BuildSubmission(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSubmission(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var BoletoServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*BoletoServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Health", Handler: unaryHandler("Health", BoletoServiceServer.Health)},
		{MethodName: "BuildSubmission", Handler: unaryHandler("BuildSubmission", BoletoServiceServer.BuildSubmission)},
		{MethodName: "GetSubmission", Handler: unaryHandler("GetSubmission", BoletoServiceServer.GetSubmission)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "boleto.proto",
}

func RegisterBoletoServiceServer(registrar grpc.ServiceRegistrar, srv BoletoServiceServer) {
	registrar.RegisterService(&BoletoServiceDesc, srv)
}

type unaryMethod func(BoletoServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	fullMethod := "/" + serviceName + "/" + method
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BoletoServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(BoletoServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type Server struct {
	boletoService *service.BoletoService
}

func NewServer(boletoService *service.BoletoService) *Server {
	return &Server{boletoService: boletoService}
}

func (s *Server) Health(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return mapper.HealthToStruct("ok"), nil
}

func (s *Server) BuildSubmission(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	l := loggerWithContext(ctx)
	req, err := mapper.StructToCreateBoletoRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request payload")
	}
	if req.RequestID == "" {
		req.RequestID = RequestIDFromContext(ctx)
	}
	if err := req.Validate(); err != nil {
		l.WithError(err).Debug("Build submission validation failed")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	prepared, err := s.boletoService.Prepare(ctx, mapper.CreateBoletoRequestToPaymentRequest(req), mapper.PrepareOptionsFromRequest(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return nil, validationStatus(err).Err()
		case errors.Is(err, service.ErrInvalidRequest):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		case errors.Is(err, service.ErrTransactionRefReused):
			return nil, status.Error(codes.AlreadyExists, err.Error())
		default:
			l.WithError(err).Error("Build submission failed")
			return nil, status.Error(codes.Internal, "internal server error")
		}
	}

	out, err := mapper.SubmissionResponseToStruct(mapper.SubmissionToResponse(prepared, s.boletoService.GatewayURL(), s.boletoService.Charset()))
	if err != nil {
		l.WithError(err).Error("Encode submission failed")
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return out, nil
}

func (s *Server) GetSubmission(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ref := in.GetFields()["transaction_ref"].GetStringValue()
	item, err := s.boletoService.FindSubmission(ctx, ref)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return nil, status.Error(codes.InvalidArgument, "transaction_ref is required")
		case errors.Is(err, service.ErrSubmissionNotFound):
			return nil, status.Error(codes.NotFound, "submission not found")
		case errors.Is(err, service.ErrLedgerDisabled):
			return nil, status.Error(codes.Unavailable, err.Error())
		default:
			loggerWithContext(ctx).WithError(err).Error("Get submission failed")
			return nil, status.Error(codes.Internal, "internal server error")
		}
	}

	out, err := mapper.SubmissionRecordToStruct(mapper.SubmissionRecordToResponse(item))
	if err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return out, nil
}

// validationStatus lists the rejected fields in the status message.
func validationStatus(err error) *status.Status {
	var verr *boleto.ValidationError
	if !errors.As(err, &verr) {
		return status.New(codes.InvalidArgument, err.Error())
	}
	return status.New(codes.InvalidArgument, verr.Error())
}
