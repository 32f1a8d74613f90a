package nodenet

import (
	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"
)

// NetlinkLister lists interfaces via rtnetlink.
type NetlinkLister struct{}

var _ Lister = NetlinkLister{}

func (NetlinkLister) Interfaces() ([]Interface, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, errors.Wrap(err, "listing links")
	}

	ifaces := make([]Interface, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
		if err != nil {
			return nil, errors.Wrapf(err, "listing addresses on %s", attrs.Name)
		}

		iface := Interface{
			Name: attrs.Name,
			MTU:  attrs.MTU,
		}
		for _, addr := range addrs {
			if addr.IPNet != nil {
				iface.Addresses = append(iface.Addresses, *addr.IPNet)
			}
		}
		ifaces = append(ifaces, iface)
	}
	return ifaces, nil
}
