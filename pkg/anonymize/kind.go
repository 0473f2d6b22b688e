// Package anonymize implements the mapping engine at the heart of
// rvscrub: deciding, for every sensitive value seen across any number
// of rows and sheets, which substitute identifier to emit, recording
// the substitution for later reversal, and applying a per-field
// strategy (counter labels for names and paths, structure-preserving
// hashes for IPv4/IPv6/MAC addresses, a constant mask for free text).
package anonymize

import "fmt"

// Kind identifies which allocation/transform strategy governs a field.
// The set is closed; rvscrub anonymizes exactly one inventory schema.
type Kind string

const (
	KindVM           Kind = "VM"
	KindHost         Kind = "Host"
	KindCluster      Kind = "Cluster"
	KindDatacenter   Kind = "Datacenter"
	KindResourcePool Kind = "ResourcePool"
	KindPath         Kind = "Path"
	KindSnapshot     Kind = "Snapshot"
	KindSwitch       Kind = "Switch"
	KindAddressIPv4  Kind = "AddressIPv4"
	KindAddressIPv6  Kind = "AddressIPv6"
	KindMACAddress   Kind = "MACAddress"
	KindAnnotation   Kind = "AnnotationText"
	KindURL          Kind = "URL"
	KindEVCMode      Kind = "EVCMode"
	KindSortKey      Kind = "SortKey"
)

// AnnotationMask replaces free-text annotation values wholesale.
// Annotations are not re-identified individually, so the mask is a
// constant and deliberately not recorded in the mapping store.
const AnnotationMask = "***ANNOTATION***"

// labelPrefixes covers the counter-labelled kinds. Address kinds and
// AnnotationText never allocate counters and have no prefix.
var labelPrefixes = map[Kind]string{
	KindVM:           "VM",
	KindHost:         "HOST",
	KindCluster:      "CLUSTER",
	KindDatacenter:   "DC",
	KindResourcePool: "POOL",
	KindPath:         "PATH",
	KindSnapshot:     "SNAP",
	KindSwitch:       "SWITCH",
	KindURL:          "URL",
	KindEVCMode:      "EVC",
	KindSortKey:      "SORT",
}

// IsAddress reports whether the kind is transformed by the
// structure-preserving address strategies rather than counter labels.
func (k Kind) IsAddress() bool {
	return k == KindAddressIPv4 || k == KindAddressIPv6 || k == KindMACAddress
}

// formatLabel renders the nth label of a kind, e.g. HOST-0001. The
// counter is zero-padded to four digits and widens naturally beyond
// 9999 rather than truncating.
func formatLabel(kind Kind, n int) string {
	return fmt.Sprintf("%s-%04d", labelPrefixes[kind], n)
}
