package artnet

import (
	"fmt"
	"net"
)

// FindArtNetIP finds the matching interface with an IPv4 address inside cidr.
func FindArtNetIP(cidr string) (net.IP, error) {
	_, cidrNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("art-net address range: %w", err)
	}
	address, err := net.InterfaceAddrs()
	if err != nil {
		return nil, fmt.Errorf("error getting ips: %w", err)
	}
	return matchIP(cidrNet, address), nil
}

func matchIP(cidrNet *net.IPNet, address []net.Addr) net.IP {
	for _, addr := range address {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.To4() == nil {
			continue
		}
		if cidrNet.Contains(ipNet.IP) {
			return ipNet.IP
		}
	}
	return nil
}
