package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-boleto/app/boleto"
	"github.com/vibast-solutions/ms-go-boleto/app/factory"
	"github.com/vibast-solutions/ms-go-boleto/app/mapper"
	"github.com/vibast-solutions/ms-go-boleto/app/service"
	"github.com/vibast-solutions/ms-go-boleto/app/types"
)

type BoletoController struct {
	boletoService *service.BoletoService
	logger        logrus.FieldLogger
}

func NewBoletoController(boletoService *service.BoletoService) *BoletoController {
	return &BoletoController{
		boletoService: boletoService,
		logger:        factory.NewModuleLogger("boleto-controller"),
	}
}

func (c *BoletoController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

// CreateForm answers with the auto-submitting HTML page that posts to the bank.
func (c *BoletoController) CreateForm(ctx echo.Context) error {
	req, err := types.NewCreateBoletoRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	prepared, err := c.boletoService.PrepareForm(
		ctx.Request().Context(),
		mapper.CreateBoletoRequestToPaymentRequest(req),
		mapper.PrepareOptionsFromRequest(req),
	)
	if err != nil {
		return c.handlePrepareError(ctx, err)
	}

	return ctx.Blob(http.StatusOK, c.boletoService.ContentType(), prepared.Page)
}

// CreateSubmission answers with the form fields as JSON for callers that post
// to the bank themselves.
func (c *BoletoController) CreateSubmission(ctx echo.Context) error {
	req, err := types.NewCreateBoletoRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	prepared, err := c.prepare(ctx, req)
	if err != nil {
		return c.handlePrepareError(ctx, err)
	}

	resp := mapper.SubmissionToResponse(prepared, c.boletoService.GatewayURL(), c.boletoService.Charset())
	return ctx.JSON(http.StatusCreated, resp)
}

func (c *BoletoController) GetSubmission(ctx echo.Context) error {
	item, err := c.boletoService.FindSubmission(ctx.Request().Context(), ctx.Param("transaction_ref"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, "transaction_ref is required")
		case errors.Is(err, service.ErrSubmissionNotFound):
			return c.writeError(ctx, http.StatusNotFound, "submission not found")
		case errors.Is(err, service.ErrLedgerDisabled):
			return c.writeError(ctx, http.StatusServiceUnavailable, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get submission failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, mapper.SubmissionRecordToResponse(item))
}

func (c *BoletoController) prepare(ctx echo.Context, req *types.CreateBoletoRequest) (*service.Prepared, error) {
	return c.boletoService.Prepare(
		ctx.Request().Context(),
		mapper.CreateBoletoRequestToPaymentRequest(req),
		mapper.PrepareOptionsFromRequest(req),
	)
}

func (c *BoletoController) handlePrepareError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		var verr *boleto.ValidationError
		errors.As(err, &verr)
		return ctx.JSON(http.StatusUnprocessableEntity, mapper.ValidationErrorToResponse(service.ErrValidation.Error(), verr))
	case errors.Is(err, service.ErrInvalidRequest):
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTransactionRefReused):
		return c.writeError(ctx, http.StatusConflict, err.Error())
	default:
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Prepare boleto failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
}

func (c *BoletoController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
