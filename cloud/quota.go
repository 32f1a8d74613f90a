package cloud

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/servicequotas"
	"github.com/pkg/errors"

	"github.com/necaris/k8s-eip-operator/metrics"
)

// EC2 quota for Elastic IP addresses per region. List quotas with:
//
//	aws service-quotas list-service-quotas --service-code=ec2
const (
	quotaServiceCode = "ec2"
	EipQuotaCode     = "L-0263D0A3"
)

// QuotaStatus is one observation of EIP utilization against the quota.
type QuotaStatus struct {
	Quota     float64
	Allocated int
}

// Equal compares two QuotaStatus observations. The refresh fetcher uses
// this to decide whether anything changed.
func (q QuotaStatus) Equal(other QuotaStatus) bool {
	return q.Quota == other.Quota && q.Allocated == other.Allocated
}

// Exhausted reports whether every quota slot is in use.
func (q QuotaStatus) Exhausted() bool {
	return float64(q.Allocated) >= q.Quota
}

// QuotaStatus counts allocated addresses and fetches the EIP quota.
func (c *Client) QuotaStatus(ctx context.Context) (QuotaStatus, error) {
	addresses, err := c.AllAddresses(ctx)
	if err != nil {
		return QuotaStatus{}, err
	}

	start := time.Now()
	out, err := c.quotas.GetServiceQuota(ctx, &servicequotas.GetServiceQuotaInput{
		ServiceCode: aws.String(quotaServiceCode),
		QuotaCode:   aws.String(EipQuotaCode),
	})
	metrics.ObserveAWSRequest("GetServiceQuota", err, start)
	if err != nil {
		return QuotaStatus{}, errors.Wrap(err, "failed to get eip service quota")
	}

	status := QuotaStatus{Allocated: len(addresses)}
	if out.Quota != nil {
		status.Quota = aws.ToFloat64(out.Quota.Value)
	}
	return status, nil
}
