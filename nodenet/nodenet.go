// Package nodenet answers questions about the node's own network
// interfaces. The operator associates Elastic IPs with branch ENI private
// addresses; the probe here confirms such an address is actually plumbed
// on the local node.
package nodenet

import (
	"net"

	"github.com/pkg/errors"
)

// ErrNoSuchAddress indicates no local interface carries the requested IP.
var ErrNoSuchAddress = errors.New("no interface carries the requested address")

// Interface is a node network interface and its addresses.
type Interface struct {
	Name      string
	MTU       int
	Addresses []net.IPNet
}

// Lister enumerates the node's interfaces. The Linux implementation talks
// rtnetlink; tests substitute a fixed list.
type Lister interface {
	Interfaces() ([]Interface, error)
}

// FindByIP returns the interface carrying ip.
func FindByIP(lister Lister, ip net.IP) (Interface, error) {
	ifaces, err := lister.Interfaces()
	if err != nil {
		return Interface{}, errors.Wrap(err, "listing interfaces")
	}
	for _, iface := range ifaces {
		for _, addr := range iface.Addresses {
			if addr.IP.Equal(ip) {
				return iface, nil
			}
		}
	}
	return Interface{}, errors.Wrapf(ErrNoSuchAddress, "ip %s", ip)
}
