package anonymize

import "strings"

// identityColumn carries the export's stable per-VM key. When present
// and non-blank it becomes the VM's anonymized label directly, so the
// same VM keeps one identity across independently anonymized exports.
// The column itself is never rewritten.
const identityColumn = "VM ID"

// vmCommonBindings covers the column block RVTools repeats on every
// VM-scoped sheet.
var vmCommonBindings = map[string]Kind{
	"vm":                   KindVM,
	"host":                 KindHost,
	"cluster":              KindCluster,
	"datacenter":           KindDatacenter,
	"folder":               KindPath,
	"resource pool":        KindResourcePool,
	"annotation":           KindAnnotation,
	"vi sdk server":        KindURL,
	"internal sort column": KindSortKey,
}

// hostCommonBindings covers the block repeated on host-scoped sheets.
var hostCommonBindings = map[string]Kind{
	"host":                 KindHost,
	"cluster":              KindCluster,
	"datacenter":           KindDatacenter,
	"vi sdk server":        KindURL,
	"internal sort column": KindSortKey,
}

// vscVMKBindings serves the management-kernel NIC sheet, whose name
// RVTools has spelled both vSC+VMK and vSC_VMK across releases.
var vscVMKBindings = mergeBindings(hostCommonBindings, map[string]Kind{
	"port group":   KindSwitch,
	"ip address":   KindAddressIPv4,
	"gateway":      KindAddressIPv4,
	"ip 6 address": KindAddressIPv6,
	"mac address":  KindMACAddress,
})

// sheetBindings is the fixed dispatch table: sheet name to column name
// to entity kind, all matched case-insensitively. Columns absent from a
// sheet's map, and sheets absent here, pass through untouched.
var sheetBindings = map[string]map[string]Kind{
	"vinfo": mergeBindings(vmCommonBindings, map[string]Kind{
		"dns name":              KindHost,
		"primary ip address":    KindAddressIPv4,
		"ip address":            KindAddressIPv4,
		"min required evc mode": KindEVCMode,
		"path":                  KindPath,
		"log directory":         KindPath,
		"snapshot directory":    KindPath,
		"suspend directory":     KindPath,
	}),
	"vcpu":    mergeBindings(vmCommonBindings, nil),
	"vmemory": mergeBindings(vmCommonBindings, nil),
	"vtools":  mergeBindings(vmCommonBindings, nil),
	"vfloppy": mergeBindings(vmCommonBindings, nil),
	"vcd": mergeBindings(vmCommonBindings, map[string]Kind{
		"iso path": KindPath,
	}),
	"vpartition": mergeBindings(vmCommonBindings, map[string]Kind{
		"disk": KindPath,
	}),
	"vdisk": mergeBindings(vmCommonBindings, map[string]Kind{
		"path":      KindPath,
		"disk path": KindPath,
	}),
	"vnetwork": mergeBindings(vmCommonBindings, map[string]Kind{
		"switch":       KindSwitch,
		"network":      KindSwitch,
		"mac address":  KindMACAddress,
		"ipv4 address": KindAddressIPv4,
		"ip address":   KindAddressIPv4,
		"ipv6 address": KindAddressIPv6,
	}),
	"vsnapshot": mergeBindings(vmCommonBindings, map[string]Kind{
		"name":          KindSnapshot,
		"snapshot name": KindSnapshot,
		"filename":      KindPath,
		"description":   KindAnnotation,
	}),
	"vrp": {
		"name":                 KindResourcePool,
		"resource pool":        KindResourcePool,
		"path":                 KindPath,
		"cluster":              KindCluster,
		"datacenter":           KindDatacenter,
		"vi sdk server":        KindURL,
		"internal sort column": KindSortKey,
	},
	"vcluster": mergeBindings(hostCommonBindings, map[string]Kind{
		"name": KindCluster,
	}),
	"vhost": mergeBindings(hostCommonBindings, map[string]Kind{
		"dns servers":   KindAddressIPv4,
		"ntp server(s)": KindAddressIPv4,
	}),
	"vhba": mergeBindings(hostCommonBindings, nil),
	"vnic": mergeBindings(hostCommonBindings, map[string]Kind{
		"mac":    KindMACAddress,
		"switch": KindSwitch,
	}),
	"vswitch": mergeBindings(hostCommonBindings, map[string]Kind{
		"switch":  KindSwitch,
		"vswitch": KindSwitch,
	}),
	"vport": mergeBindings(hostCommonBindings, map[string]Kind{
		"switch":     KindSwitch,
		"port group": KindSwitch,
	}),
	"vsc+vmk": vscVMKBindings,
	"vsc_vmk": vscVMKBindings,
	"dvswitch": {
		"switch":               KindSwitch,
		"name":                 KindSwitch,
		"datacenter":           KindDatacenter,
		"vi sdk server":        KindURL,
		"internal sort column": KindSortKey,
	},
	"dvport": {
		"switch":               KindSwitch,
		"port group":           KindSwitch,
		"vi sdk server":        KindURL,
		"internal sort column": KindSortKey,
	},
	"vdatastore": {
		"name":                 KindPath,
		"address":              KindURL,
		"datacenter":           KindDatacenter,
		"vi sdk server":        KindURL,
		"internal sort column": KindSortKey,
	},
	"vmultipath": mergeBindings(hostCommonBindings, nil),
	"vfileinfo": {
		"path":                 KindPath,
		"file name":            KindPath,
		"vi sdk server":        KindURL,
		"internal sort column": KindSortKey,
	},
	"vhealth": {
		"name":                 KindHost,
		"hosts":                KindHost,
		"address":              KindAddressIPv4,
		"url":                  KindURL,
		"message":              KindAnnotation,
		"vi sdk server":        KindURL,
		"internal sort column": KindSortKey,
	},
	"vsource": {
		"name":                 KindURL,
		"vi sdk server":        KindURL,
		"internal sort column": KindSortKey,
	},
	"vlicense": {
		"vi sdk server":        KindURL,
		"internal sort column": KindSortKey,
	},
}

// bindingsFor returns the column bindings for a sheet, or nil for a
// sheet the dispatch table does not know.
func bindingsFor(sheet string) map[string]Kind {
	return sheetBindings[strings.ToLower(strings.TrimSpace(sheet))]
}

// columnKind resolves one column of one sheet.
func columnKind(sheet, column string) (Kind, bool) {
	bindings := bindingsFor(sheet)
	if bindings == nil {
		return "", false
	}
	kind, ok := bindings[strings.ToLower(strings.TrimSpace(column))]
	return kind, ok
}

func mergeBindings(base, extra map[string]Kind) map[string]Kind {
	out := make(map[string]Kind, len(base)+len(extra))
	for column, kind := range base {
		out[column] = kind
	}
	for column, kind := range extra {
		out[column] = kind
	}
	return out
}
