package infra

import (
	"fmt"
	"net"
	"net/netip"
	"strings"
)

var (
	reservedIPv4Prefixes = []netip.Prefix{
		mustParsePrefix("0.0.0.0/8"),
		mustParsePrefix("100.64.0.0/10"),
		mustParsePrefix("192.0.0.0/24"),
		mustParsePrefix("192.0.2.0/24"),
		mustParsePrefix("198.18.0.0/15"),
		mustParsePrefix("198.51.100.0/24"),
		mustParsePrefix("203.0.113.0/24"),
		mustParsePrefix("240.0.0.0/4"),
	}

	reservedIPv6Prefixes = []netip.Prefix{
		mustParsePrefix("64:ff9b::/96"),
		mustParsePrefix("64:ff9b:1::/48"),
		mustParsePrefix("100::/64"),
		mustParsePrefix("2001:2::/48"),
		mustParsePrefix("2001:db8::/32"),
		mustParsePrefix("2001:20::/28"),
	}
)

func mustParsePrefix(cidr string) netip.Prefix {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in CIDR %q: %v", cidr, err))
	}
	return prefix
}

// PrivateClassifier implementa domain.AddressClassifier.
//
// Considera privado: RFC1918/ULA, loopback, link-local, não especificado e as
// faixas reservadas/de documentação. Strings que não são IP não são privadas.
type PrivateClassifier struct{}

func (PrivateClassifier) IsPrivate(addr string) bool {
	ip, ok := parseAddr(addr)
	if !ok {
		return false
	}
	if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
		return true
	}

	prefixes := reservedIPv6Prefixes
	if ip.Is4() {
		prefixes = reservedIPv4Prefixes
	}
	for _, p := range prefixes {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

// parseAddr aceita "1.2.3.4", "[::1]" e "::ffff:10.0.0.1" (desmapeado para IPv4).
// Zonas IPv6 ("fe80::1%eth0") são descartadas.
func parseAddr(s string) (netip.Addr, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}, false
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")

	ip, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return ip.Unmap().WithZone(""), true
}
