package anonymize

import (
	"hash/fnv"
	"net"
	"strings"

	"github.com/apparentlymart/go-cidr/cidr"
	"k8s.io/klog/v2"
)

// Address cells get a structure-preserving transform instead of a
// counter label: IPv4 keeps its subnet siblings together and its host
// octets readable, IPv6 keeps its grouping under a fixed synthetic
// prefix, MACs stay MACs. Values that do not parse as the expected
// family pass through unchanged (fail open).

var syntheticV4Net = func() *net.IPNet {
	_, n, _ := net.ParseCIDR("10.0.0.0/8")
	return n
}()

func anonymizeAddressCell(store *MappingStore, kind Kind, cell string) string {
	parts, sep := splitAddressList(cell)
	for i, part := range parts {
		core := strings.TrimSpace(part)
		if core == "" {
			continue
		}
		synthetic, ok := store.LookupAddress(core)
		if !ok {
			synthetic, ok = transformAddress(kind, core)
			if !ok {
				klog.V(2).Infof("Leaving unparseable %s value %q unchanged", kind, core)
				continue
			}
			store.PutAddress(core, synthetic)
		}
		parts[i] = replaceCore(part, core, synthetic)
	}
	return strings.Join(parts, sep)
}

func deanonymizeAddressCell(store *MappingStore, cell string) string {
	parts, sep := splitAddressList(cell)
	for i, part := range parts {
		core := strings.TrimSpace(part)
		if core == "" {
			continue
		}
		raw, ok := store.ResolveAddress(core)
		if !ok {
			continue
		}
		parts[i] = replaceCore(part, core, raw)
	}
	return strings.Join(parts, sep)
}

// splitAddressList splits a multi-valued cell on whichever of comma or
// semicolon appears first. Whitespace stays attached to the parts so
// the rejoined cell keeps the original spacing exactly.
func splitAddressList(cell string) ([]string, string) {
	if i := strings.IndexAny(cell, ",;"); i >= 0 {
		sep := string(cell[i])
		return strings.Split(cell, sep), sep
	}
	return []string{cell}, ""
}

// replaceCore swaps the trimmed body of a part for its replacement,
// preserving leading and trailing whitespace byte for byte.
func replaceCore(part, core, replacement string) string {
	i := strings.Index(part, core)
	return part[:i] + replacement + part[i+len(core):]
}

func transformAddress(kind Kind, value string) (string, bool) {
	switch kind {
	case KindAddressIPv4:
		return transformIPv4(value)
	case KindAddressIPv6:
		return transformIPv6(value)
	case KindMACAddress:
		return transformMAC(value)
	}
	return "", false
}

// transformIPv4 rewrites a.b.c.d to 10.<networkID(a,b,c)>.c.d. Two
// addresses on the same real /24 always land on the same synthetic
// second octet, and the host-side octets stay readable. The first two
// real octets are discarded outright.
func transformIPv4(value string) (string, bool) {
	ip := net.ParseIP(value)
	if ip == nil {
		return "", false
	}
	v4 := ip.To4()
	if v4 == nil {
		return "", false
	}
	id := networkID(v4[0], v4[1], v4[2])
	host, err := cidr.Host(syntheticV4Net, id<<16|int(v4[2])<<8|int(v4[3]))
	if err != nil {
		return "", false
	}
	return host.String(), true
}

// networkID hashes the three prefix octets down to the 1-254 range.
// FNV-1a keeps the derivation stable across runs without any stored
// state.
func networkID(o1, o2, o3 byte) int {
	h := fnv.New32a()
	h.Write([]byte{o1, o2, o3})
	return int(h.Sum32()%254) + 1
}

// transformIPv6 replaces the top 64 bits with fd00:0:0:<hash of the
// real prefix> and keeps the interface identifier, so addresses that
// shared a real prefix still visibly group together.
func transformIPv6(value string) (string, bool) {
	ip := net.ParseIP(value)
	if ip == nil || ip.To4() != nil {
		return "", false
	}
	v6 := ip.To16()
	h := fnv.New32a()
	h.Write(v6[:8])
	prefix := uint16(h.Sum32())

	out := make(net.IP, net.IPv6len)
	out[0] = 0xfd
	out[6] = byte(prefix >> 8)
	out[7] = byte(prefix)
	copy(out[8:], v6[8:])
	return out.String(), true
}

// transformMAC hashes the normalized MAC into a synthetic 6-octet
// address marked locally administered and unicast.
func transformMAC(value string) (string, bool) {
	hw, err := net.ParseMAC(value)
	if err != nil || len(hw) != 6 {
		return "", false
	}
	h := fnv.New64a()
	h.Write([]byte(hw.String()))
	sum := h.Sum64()

	out := make(net.HardwareAddr, 6)
	for i := 5; i >= 0; i-- {
		out[i] = byte(sum)
		sum >>= 8
	}
	out[0] = out[0]&0xfe | 0x02
	return out.String(), true
}
