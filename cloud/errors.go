package cloud

import (
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
)

var (
	ErrNoInterfaceWithIP       = errors.New("no network interface found with an IP matching the pod")
	ErrNoPrimaryInterface      = errors.New("instance has no primary network interface")
	ErrMultipleTaggedAddresses = errors.New("multiple addresses are tagged with this Eip's UID")
	ErrMissingAllocationID     = errors.New("address has no allocation ID")
	ErrAddressNotFound         = errors.New("no address found for allocation ID")
	ErrMissingReservations     = errors.New("describe instances returned no reservations")
)

// EC2 error codes the operator treats specially.
const (
	codeAddressLimitExceeded     = "AddressLimitExceeded"
	codeRequestLimitExceeded     = "RequestLimitExceeded"
	codeThrottling               = "Throttling"
	codeThrottlingException      = "ThrottlingException"
	codeAllocationNotFound       = "InvalidAllocationID.NotFound"
	codeAssociationNotFound      = "InvalidAssociationID.NotFound"
	codeAddressAlreadyDisengaged = "InvalidAddress.NotFound"
)

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsThrottle reports whether an AWS error indicates request throttling.
func IsThrottle(err error) bool {
	switch apiErrorCode(err) {
	case codeRequestLimitExceeded, codeThrottling, codeThrottlingException:
		return true
	}
	return false
}

// IsQuotaExceeded reports whether allocation failed against the EIP quota.
func IsQuotaExceeded(err error) bool {
	return apiErrorCode(err) == codeAddressLimitExceeded
}

// IsTemporary reports whether the error is worth retrying: throttling and
// quota exhaustion both clear on their own.
func IsTemporary(err error) bool {
	return IsThrottle(err) || IsQuotaExceeded(err)
}

// IsNotFound reports whether the error means the allocation or association
// no longer exists. Cleanup paths treat this as success.
func IsNotFound(err error) bool {
	switch apiErrorCode(err) {
	case codeAllocationNotFound, codeAssociationNotFound, codeAddressAlreadyDisengaged:
		return true
	}
	return false
}
