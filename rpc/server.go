// Package rpc serves the operator's read-only gRPC API. Cluster tooling
// uses it to inspect managed Elastic IPs and the account quota without
// talking to the Kubernetes API or AWS directly.
package rpc

import (
	"context"
	"net"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	pb "github.com/necaris/k8s-eip-operator/rpc/v1alpha"
)

// ServerSettings holds the gRPC listener settings.
type ServerSettings struct {
	IPAddress string
	Port      uint16
}

// Server hosts the EipOperator gRPC service.
type Server struct {
	Settings ServerSettings
	Service  pb.EipOperatorServer
	Logger   *zap.Logger
}

// NewServer initializes a new gRPC server instance.
func NewServer(settings ServerSettings, service pb.EipOperatorServer, logger *zap.Logger) (*Server, error) {
	if service == nil {
		return nil, errors.New("EipOperator service is not defined")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		Settings: settings,
		Service:  service,
		Logger:   logger,
	}, nil
}

// Start serves until the context is canceled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	address := net.JoinHostPort(s.Settings.IPAddress, strconv.FormatUint(uint64(s.Settings.Port), 10))
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", address)
	}
	s.Logger.Info("gRPC server listening", zap.String("address", address))

	grpcServer := grpc.NewServer()
	pb.RegisterEipOperatorServer(grpcServer, s.Service)
	reflection.Register(grpcServer)

	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()

	if err := grpcServer.Serve(lis); err != nil {
		return errors.Wrap(err, "serving gRPC")
	}
	return nil
}
