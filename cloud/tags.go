package cloud

import (
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"golang.org/x/exp/maps"
)

// Tag keys applied to every address the operator allocates. The UID tag is
// the identity link between an Eip resource and its EC2 address.
const (
	TagEipUID      = "eip.necaris.dev/eip_uid"
	TagEipName     = "eip.necaris.dev/eip_name"
	TagSelector    = "eip.necaris.dev/selector"
	TagClusterName = "eip.necaris.dev/cluster_name"
	TagNamespace   = "eip.necaris.dev/namespace"
)

// AddressIdentity names the Eip resource an address belongs to.
type AddressIdentity struct {
	UID       string
	Name      string
	Namespace string
	Selector  string
}

// buildTags merges operator default tags with the identity tags. Identity
// tags win on conflict. Output order is stable for testability.
func (c *Client) buildTags(id AddressIdentity) []types.Tag {
	merged := map[string]string{}
	maps.Copy(merged, c.defaultTags)
	merged[TagEipUID] = id.UID
	merged[TagEipName] = id.Name
	merged[TagSelector] = id.Selector
	merged[TagClusterName] = c.clusterName
	merged[TagNamespace] = id.Namespace

	keys := maps.Keys(merged)
	sort.Strings(keys)
	tags := make([]types.Tag, 0, len(keys))
	for _, key := range keys {
		tags = append(tags, types.Tag{Key: aws.String(key), Value: aws.String(merged[key])})
	}
	return tags
}

// GetTag returns the value of the named tag on an address.
func GetTag(address types.Address, key string) (string, bool) {
	for _, tag := range address.Tags {
		if aws.ToString(tag.Key) == key {
			return aws.ToString(tag.Value), true
		}
	}
	return "", false
}
