package main

import (
	"fmt"
	"net"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/necaris/k8s-eip-operator/nodenet"
)

// newProbeCmd builds the diagnostic that checks whether a private IP is
// actually plumbed on one of this node's interfaces. Useful when an
// association looks right in EC2 but traffic is not arriving.
func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <private-ip>",
		Short: "Find the local network interface carrying a private IP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ip := net.ParseIP(args[0])
			if ip == nil {
				return errors.Errorf("%q is not a valid IP address", args[0])
			}

			iface, err := nodenet.FindByIP(nodenet.NetlinkLister{}, ip)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "interface: %s\nmtu: %d\n", iface.Name, iface.MTU)
			for _, addr := range iface.Addresses {
				fmt.Fprintf(cmd.OutOrStdout(), "address: %s\n", addr.String())
			}
			return nil
		},
	}
}
