package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/leetguard/leetguard-server/internal/config"
)

// healthProbeInterval is how often the gRPC health status follows the
// database.
const healthProbeInterval = 15 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	config     *config.AppConfig
	log        *zap.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	health     *health.Server
	db         Pinger
	stop       chan struct{}
}

type Params struct {
	fx.In

	Config *config.AppConfig
	Logger *zap.Logger
	Router http.Handler
	DB     Pinger
}

func NewServer(p Params) *Server {
	s := &Server{
		config: p.Config,
		log:    p.Logger,
		db:     p.DB,
		stop:   make(chan struct{}),
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(p.Config.Server.Host, p.Config.Server.Port),
			Handler:      p.Router,
			ReadTimeout:  p.Config.Server.ReadTimeout,
			WriteTimeout: p.Config.Server.WriteTimeout,
			ErrorLog:     zap.NewStdLog(p.Logger.Named("http")),
		},
	}

	if p.Config.GRPC.Enabled {
		s.grpcServer = grpc.NewServer()
		s.health = health.NewServer()
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		healthpb.RegisterHealthServer(s.grpcServer, s.health)

		if p.Config.GRPC.EnableReflection {
			reflection.Register(s.grpcServer)
		}
	}

	return s
}

// Start binds the listeners and serves in the background. Bind errors are
// returned so fx aborts startup.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	var glis net.Listener
	if s.grpcServer != nil {
		addr := net.JoinHostPort(s.config.Server.Host, s.config.GRPC.Port)
		glis, err = net.Listen("tcp", addr)
		if err != nil {
			_ = lis.Close()
			return fmt.Errorf("failed to listen for grpc: %w", err)
		}
	}

	s.log.Info("Starting HTTP server",
		zap.String("address", s.httpServer.Addr),
		zap.Object("config", serverConfigToField(s.config)),
	)
	go func() {
		if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server stopped", zap.Error(err))
		}
	}()

	if glis == nil {
		return nil
	}

	s.log.Info("Starting gRPC health server", zap.String("address", glis.Addr().String()))
	go func() {
		if err := s.grpcServer.Serve(glis); err != nil {
			s.log.Error("grpc server stopped", zap.Error(err))
		}
	}()
	go s.watchDatabase()

	return nil
}

func (s *Server) watchDatabase() {
	ticker := time.NewTicker(healthProbeInterval)
	defer ticker.Stop()

	for {
		s.probe()
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.Ping(ctx); err != nil {
		s.log.Warn("database ping failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
}

func serverConfigToField(config *config.AppConfig) zapcore.ObjectMarshaler {
	return zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddString("environment", config.Environment)
		enc.AddBool("grpc_enabled", config.GRPC.Enabled)
		enc.AddBool("reflection_enabled", config.GRPC.EnableReflection)
		enc.AddDuration("read_timeout", config.Server.ReadTimeout)
		enc.AddDuration("write_timeout", config.Server.WriteTimeout)
		return nil
	})
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	if s.grpcServer != nil {
		close(s.stop)
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
	}

	if timeout := s.config.Server.ShutdownTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.httpServer.Shutdown(ctx)
}
