package rpc

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/necaris/k8s-eip-operator/cloud"
	eipv1alpha1 "github.com/necaris/k8s-eip-operator/crd/eip/api/v1alpha1"
	pb "github.com/necaris/k8s-eip-operator/rpc/v1alpha"
)

// QuotaReader reports the account's Elastic IP quota. *cloud.Client
// satisfies it.
type QuotaReader interface {
	QuotaStatus(ctx context.Context) (cloud.QuotaStatus, error)
}

// EipOperatorService implements the EipOperator gRPC service on top of the
// cluster's Eip resources and the AWS quota API.
type EipOperatorService struct {
	pb.UnimplementedEipOperatorServer
	Reader ctrlclient.Reader
	Quota  QuotaReader
	Logger *zap.Logger
}

var _ pb.EipOperatorServer = &EipOperatorService{}

func (s *EipOperatorService) ListEips(ctx context.Context, req *pb.ListEipsRequest) (*pb.ListEipsResponse, error) {
	s.Logger.Info("ListEips called", zap.String("namespace", req.GetNamespace()))

	var opts []ctrlclient.ListOption
	if req.GetNamespace() != "" {
		opts = append(opts, ctrlclient.InNamespace(req.GetNamespace()))
	}

	eips := &eipv1alpha1.EipList{}
	if err := s.Reader.List(ctx, eips, opts...); err != nil {
		s.Logger.Error("listing eips", zap.Error(err))
		return nil, status.Errorf(codes.Internal, "listing eips: %v", err)
	}

	resp := &pb.ListEipsResponse{Eips: make([]*pb.EipSummary, 0, len(eips.Items))}
	for i := range eips.Items {
		eip := &eips.Items[i]
		resp.Eips = append(resp.Eips, &pb.EipSummary{
			Namespace:        eip.Namespace,
			Name:             eip.Name,
			Selector:         eip.Spec.Selector.String(),
			AllocationId:     eip.Status.AllocationID,
			PublicIpAddress:  eip.Status.PublicIPAddress,
			PrivateIpAddress: eip.Status.PrivateIPAddress,
			Eni:              eip.Status.ENI,
			Attached:         eip.Attached(),
		})
	}
	return resp, nil
}

func (s *EipOperatorService) GetQuotaStatus(ctx context.Context, _ *pb.GetQuotaStatusRequest) (*pb.GetQuotaStatusResponse, error) {
	quota, err := s.Quota.QuotaStatus(ctx)
	if err != nil {
		s.Logger.Error("fetching quota status", zap.Error(err))
		return nil, status.Errorf(codes.Unavailable, "fetching quota status: %v", err)
	}

	return &pb.GetQuotaStatusResponse{
		Quota:     quota.Quota,
		Allocated: int32(quota.Allocated),
		Exhausted: quota.Exhausted(),
	}, nil
}
