package operator

import (
	"time"

	"github.com/necaris/k8s-eip-operator/cloud"
	"github.com/necaris/k8s-eip-operator/retry"
)

// awsRetrier waits out throttled or quota-limited AWS calls a couple of
// times in place before handing the failure to the requeue path. Anything
// that is not throttling fails immediately.
var awsRetrier = retry.Retrier{
	Cooldown: retry.Max(2, retry.Exponential(time.Second, 2, 4*time.Second)),
	Classify: cloud.IsTemporary,
}
