package grpc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// NewServer registers the catalog and health services. Health reports SERVING
// for both the catalog service and the server as a whole; call Shutdown on the
// returned health server before stopping to flip them to NOT_SERVING.
func NewServer(catalog CatalogServer, logger *logrus.Logger) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor(logger)))
	RegisterCatalogServer(s, catalog)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return s, hs
}

func loggingInterceptor(logger *logrus.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.WithFields(logrus.Fields{
			"method":  info.FullMethod,
			"code":    status.Code(err).String(),
			"latency": time.Since(start).String(),
		}).Info("gRPC call completed")
		return resp, err
	}
}
