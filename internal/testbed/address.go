package testbed

// SelectAddress returns the address the harness should connect to. A global
// IPv6 address on any network wins over every IPv4 address; within a family
// the first network in order wins.
func SelectAddress(state *ContainerState) (string, bool) {
	if state == nil {
		return "", false
	}
	for _, n := range state.Networks {
		if n.GlobalIPv6Address != "" {
			return n.GlobalIPv6Address, true
		}
	}
	for _, n := range state.Networks {
		if n.IPAddress != "" {
			return n.IPAddress, true
		}
	}
	return "", false
}
