// Package cloud wraps the AWS EC2 and Service Quotas APIs with the
// operations the operator needs: allocating and releasing Elastic IP
// addresses by tag, associating them with network interfaces, resolving
// ENIs from instance descriptions, and reading the EIP service quota.
package cloud

import (
	"context"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/servicequotas"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// eniCacheTTL bounds how stale a cached instance->ENI mapping may be.
	// Branch ENIs can be recreated when pods move, so keep this short.
	eniCacheTTL      = 30 * time.Second
	eniCacheCleanup  = 5 * time.Minute
	defaultAPIRegion = ""
)

// EC2API is the subset of the EC2 client the operator calls.
type EC2API interface {
	AllocateAddress(ctx context.Context, params *ec2.AllocateAddressInput, optFns ...func(*ec2.Options)) (*ec2.AllocateAddressOutput, error)
	DescribeAddresses(ctx context.Context, params *ec2.DescribeAddressesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error)
	AssociateAddress(ctx context.Context, params *ec2.AssociateAddressInput, optFns ...func(*ec2.Options)) (*ec2.AssociateAddressOutput, error)
	DisassociateAddress(ctx context.Context, params *ec2.DisassociateAddressInput, optFns ...func(*ec2.Options)) (*ec2.DisassociateAddressOutput, error)
	ReleaseAddress(ctx context.Context, params *ec2.ReleaseAddressInput, optFns ...func(*ec2.Options)) (*ec2.ReleaseAddressOutput, error)
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
}

// QuotasAPI is the subset of the Service Quotas client the operator calls.
type QuotasAPI interface {
	GetServiceQuota(ctx context.Context, params *servicequotas.GetServiceQuotaInput, optFns ...func(*servicequotas.Options)) (*servicequotas.GetServiceQuotaOutput, error)
}

// Config carries the cluster identity baked into every AWS tag set.
type Config struct {
	ClusterName string
	DefaultTags map[string]string
	Region      string
}

// Client is safe for concurrent use by multiple reconcilers.
type Client struct {
	ec2api      EC2API
	quotas      QuotasAPI
	clusterName string
	defaultTags map[string]string
	eniCache    *gocache.Cache
	logger      *zap.Logger
}

// New builds a Client from the ambient AWS credential chain.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != defaultAPIRegion {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load aws config")
	}
	return NewWithAPIs(ec2.NewFromConfig(awsCfg), servicequotas.NewFromConfig(awsCfg), cfg, logger), nil
}

// NewWithAPIs builds a Client over explicit API implementations. Tests use
// this with mocks.
func NewWithAPIs(ec2api EC2API, quotas QuotasAPI, cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		ec2api:      ec2api,
		quotas:      quotas,
		clusterName: cfg.ClusterName,
		defaultTags: cfg.DefaultTags,
		eniCache:    gocache.New(eniCacheTTL, eniCacheCleanup),
		logger:      logger,
	}
}
