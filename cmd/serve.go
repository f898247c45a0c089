package cmd

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	authclient "github.com/vibast-solutions/lib-go-auth/client"
	authmiddleware "github.com/vibast-solutions/lib-go-auth/middleware"
	authlibservice "github.com/vibast-solutions/lib-go-auth/service"
	"github.com/vibast-solutions/ms-go-boleto/app/controller"
	boletogrpc "github.com/vibast-solutions/ms-go-boleto/app/grpc"
	"github.com/vibast-solutions/ms-go-boleto/app/render"
	"github.com/vibast-solutions/ms-go-boleto/app/repository"
	"github.com/vibast-solutions/ms-go-boleto/app/service"
	"github.com/vibast-solutions/ms-go-boleto/config"

	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	Long:  "Start both HTTP (Echo) and gRPC servers for the boleto service.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, boletoService, cleanup := mustCreateBoletoService()
	defer cleanup()

	boletoController := controller.NewBoletoController(boletoService)
	grpcBoletoServer := boletogrpc.NewServer(boletoService)

	var httpAuth []echo.MiddlewareFunc
	var grpcAuth []grpc.UnaryServerInterceptor
	if addr := strings.TrimSpace(cfg.InternalEndpoints.AuthGRPCAddr); addr != "" {
		authGRPCClient, err := authclient.NewGRPCClientFromAddr(context.Background(), addr)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize auth gRPC client")
		}
		defer authGRPCClient.Close()

		internalAuthService := authlibservice.NewInternalAuthService(authGRPCClient)
		httpAuth = append(httpAuth, authmiddleware.NewEchoInternalAuthMiddleware(internalAuthService).RequireInternalAccess(cfg.App.ServiceName))
		grpcAuth = append(grpcAuth, authmiddleware.NewGRPCInternalAuthMiddleware(internalAuthService).UnaryRequireInternalAccess(cfg.App.ServiceName))
	} else {
		logrus.Warn("AUTH_SERVICE_GRPC_ADDR is empty, internal auth is disabled")
	}

	e := setupHTTPServer(boletoController, httpAuth...)
	grpcSrv, lis := setupGRPCServer(cfg, grpcBoletoServer, grpcAuth...)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	go func() {
		logrus.WithField("addr", lis.Addr().String()).Info("Starting gRPC server")
		if err := grpcSrv.Serve(lis); err != nil {
			logrus.WithError(err).Fatal("gRPC server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}
	grpcSrv.GracefulStop()

	logrus.Info("Server stopped")
}

func setupHTTPServer(boletoController *controller.BoletoController, authMiddleware ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
				"request_id": v.RequestID,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(requestID())
	e.Use(authMiddleware...)

	e.GET("/health", boletoController.Health)

	boletos := e.Group("/boletos")
	boletos.POST("", boletoController.CreateForm)
	boletos.POST("/submission", boletoController.CreateSubmission)
	boletos.GET("/:transaction_ref", boletoController.GetSubmission)

	return e
}

// requestID keeps the caller's X-Request-ID or assigns a new one.
func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id := strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderXRequestID))
			if id == "" {
				id = uuid.NewString()
				ctx.Request().Header.Set(echo.HeaderXRequestID, id)
			}
			ctx.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(ctx)
		}
	}
}

func setupGRPCServer(cfg *config.Config, boletoServer *boletogrpc.Server, authInterceptors ...grpc.UnaryServerInterceptor) (*grpc.Server, net.Listener) {
	grpcAddr := net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to listen on gRPC port")
	}

	interceptors := []grpc.UnaryServerInterceptor{
		boletogrpc.RecoveryInterceptor(),
		boletogrpc.RequestIDInterceptor(),
		boletogrpc.LoggingInterceptor(),
	}
	interceptors = append(interceptors, authInterceptors...)

	grpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	boletogrpc.RegisterBoletoServiceServer(grpcSrv, boletoServer)

	return grpcSrv, lis
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	return cfg
}

func mustCreateRenderer(cfg *config.Config) *render.FormRenderer {
	encoder, err := render.EncoderFor(cfg.Boleto.FormCharset)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to configure form charset")
	}
	return render.NewFormRenderer(cfg.Boleto.GatewayURL, encoder, cfg.Boleto.RedirectDelay)
}

func mustOpenDatabase(cfg *config.Config) *sql.DB {
	dsn, err := mysql.ParseDSN(cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid MYSQL_DSN")
	}
	// created_at is scanned into time.Time.
	dsn.ParseTime = true

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}
	return db
}

func mustCreateBoletoService() (*config.Config, *service.BoletoService, func()) {
	cfg := mustLoadConfig()
	renderer := mustCreateRenderer(cfg)

	if !cfg.MySQL.Enabled() {
		logrus.Info("MYSQL_DSN is empty, submission ledger is disabled")
		return cfg, service.NewBoletoService(nil, renderer, cfg.Boleto), func() {}
	}

	db := mustOpenDatabase(cfg)
	submissionRepo := repository.NewSubmissionRepository(db)
	if err := submissionRepo.EnsureSchema(context.Background()); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to prepare submission ledger")
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, service.NewBoletoService(submissionRepo, renderer, cfg.Boleto), cleanup
}
