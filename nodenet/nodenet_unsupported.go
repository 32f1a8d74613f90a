//go:build !linux

package nodenet

import "github.com/pkg/errors"

// NetlinkLister is only functional on Linux; elsewhere it reports an error
// so the probe command degrades cleanly.
type NetlinkLister struct{}

var _ Lister = NetlinkLister{}

func (NetlinkLister) Interfaces() ([]Interface, error) {
	return nil, errors.New("interface listing requires linux")
}
