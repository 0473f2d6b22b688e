package anonymize

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

// MappingStore is the durable state of one anonymization run: the
// kind-scoped forward table (raw value -> label), its global inverse
// (label -> raw value), and a separate table for address substitutions,
// which are structure-preserving transforms rather than counters. A
// store is exclusively owned by one Engine for the duration of one
// invocation; it is not safe for concurrent use and is never shared
// between runs.
type MappingStore struct {
	forward    map[Kind]map[string]string
	reverse    map[string]string
	addresses  map[string]string
	addrLookup map[string]string // synthetic -> raw, built for de-anonymization

	allocator   *Allocator
	runID       string
	createdAt   time.Time
	generatedBy string
	identities  int
}

// Artifact is the serialized form of a MappingStore: the reversal file
// written next to every anonymized container and required verbatim to
// de-anonymize it later.
type Artifact struct {
	RunID       string                     `json:"runId"`
	CreatedAt   time.Time                  `json:"createdAt"`
	GeneratedBy string                     `json:"generatedBy,omitempty"`
	Forward     map[Kind]map[string]string `json:"forward"`
	Reverse     map[string]string          `json:"reverse"`
	Addresses   map[string]string          `json:"addresses"`
	Counters    map[Kind]int               `json:"counters"`
	Stats       Stats                      `json:"stats"`
}

// Stats summarizes what one run mapped.
type Stats struct {
	Labels     map[Kind]int `json:"labels"`
	Addresses  int          `json:"addresses"`
	Identities int          `json:"identities"`
}

// NewMappingStore returns an empty store for a fresh anonymization run.
func NewMappingStore() *MappingStore {
	return &MappingStore{
		forward:    make(map[Kind]map[string]string),
		reverse:    make(map[string]string),
		addresses:  make(map[string]string),
		addrLookup: make(map[string]string),
		allocator:  NewAllocator(),
		runID:      ksuid.New().String(),
		createdAt:  time.Now().UTC(),
	}
}

// RunID returns the unique identifier of this run.
func (s *MappingStore) RunID() string {
	return s.runID
}

// SetGeneratedBy records the tool identity embedded in the artifact.
func (s *MappingStore) SetGeneratedBy(generator string) {
	s.generatedBy = generator
}

// LookupOrAllocate returns the label for a raw value of a kind,
// allocating the next counter label on first sighting. Repeated calls
// with the same kind and value always return the identical label.
// Blank values are returned unchanged and never counted.
func (s *MappingStore) LookupOrAllocate(kind Kind, raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	if label, ok := s.lookup(kind, raw); ok {
		return label
	}
	label := s.freeLabel(formatLabel(kind, s.allocator.Allocate(kind)))
	s.insert(kind, raw, label)
	return label
}

// LookupOrAssign binds a raw value to a caller-supplied label, used for
// the VM-identity shortcut where the export's own stable VM ID serves
// as the anonymized label. An existing mapping for the raw value wins
// over the supplied label; a label already owned by a different raw
// value is suffixed until free so the reverse table stays injective.
func (s *MappingStore) LookupOrAssign(kind Kind, raw, label string) string {
	if strings.TrimSpace(raw) == "" || strings.TrimSpace(label) == "" {
		return raw
	}
	if existing, ok := s.lookup(kind, raw); ok {
		return existing
	}
	label = s.freeLabel(label)
	s.insert(kind, raw, label)
	s.identities++
	return label
}

// ResolveLabel is the reverse lookup used during de-anonymization.
// Unknown labels report ok=false rather than failing: content that was
// never mapped is left untouched by the caller.
func (s *MappingStore) ResolveLabel(label string) (string, bool) {
	raw, ok := s.reverse[label]
	return raw, ok
}

// LookupAddress returns the cached synthetic form of a raw address.
func (s *MappingStore) LookupAddress(raw string) (string, bool) {
	synthetic, ok := s.addresses[raw]
	return synthetic, ok
}

// PutAddress records a raw address substitution.
func (s *MappingStore) PutAddress(raw, synthetic string) {
	s.addresses[raw] = synthetic
}

// ResolveAddress maps a synthetic address back to the raw address that
// produced it. Only populated on stores loaded from an artifact.
func (s *MappingStore) ResolveAddress(synthetic string) (string, bool) {
	raw, ok := s.addrLookup[synthetic]
	return raw, ok
}

func (s *MappingStore) lookup(kind Kind, raw string) (string, bool) {
	kindMap, ok := s.forward[kind]
	if !ok {
		return "", false
	}
	label, ok := kindMap[raw]
	return label, ok
}

func (s *MappingStore) insert(kind Kind, raw, label string) {
	kindMap, ok := s.forward[kind]
	if !ok {
		kindMap = make(map[string]string)
		s.forward[kind] = kindMap
	}
	kindMap[raw] = label
	s.reverse[label] = raw
}

// freeLabel resolves label collisions by appending a counter, the same
// way the export's VM IDs are kept distinct when two of them fold onto
// one string.
func (s *MappingStore) freeLabel(label string) string {
	if _, taken := s.reverse[label]; !taken {
		return label
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", label, n)
		if _, taken := s.reverse[candidate]; !taken {
			return candidate
		}
	}
}

// Stats reports per-kind label counts, cached address substitutions and
// identity assignments for the run so far.
func (s *MappingStore) Stats() Stats {
	return Stats{
		Labels:     s.allocator.Counters(),
		Addresses:  len(s.addresses),
		Identities: s.identities,
	}
}

// Artifact snapshots the store for serialization.
func (s *MappingStore) Artifact() *Artifact {
	forward := make(map[Kind]map[string]string, len(s.forward))
	for kind, kindMap := range s.forward {
		cp := make(map[string]string, len(kindMap))
		for raw, label := range kindMap {
			cp[raw] = label
		}
		forward[kind] = cp
	}
	reverse := make(map[string]string, len(s.reverse))
	for label, raw := range s.reverse {
		reverse[label] = raw
	}
	addresses := make(map[string]string, len(s.addresses))
	for raw, synthetic := range s.addresses {
		addresses[raw] = synthetic
	}
	return &Artifact{
		RunID:       s.runID,
		CreatedAt:   s.createdAt,
		GeneratedBy: s.generatedBy,
		Forward:     forward,
		Reverse:     reverse,
		Addresses:   addresses,
		Counters:    s.allocator.Counters(),
		Stats:       s.Stats(),
	}
}

// SaveFile writes the mapping artifact as indented JSON. The artifact
// holds every original value of the run, so it gets 0600.
func (s *MappingStore) SaveFile(path string) error {
	data, err := json.MarshalIndent(s.Artifact(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal mapping artifact")
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(err, "write mapping file")
	}
	return nil
}

// LoadMappingFile reconstructs a store from a previously written
// artifact. The returned store is used only for de-anonymization: no
// further allocation occurs, it is strictly reverse lookups.
func LoadMappingFile(path string) (*MappingStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read mapping file")
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.Wrap(err, "parse mapping file")
	}

	if err := validateArtifact(&artifact); err != nil {
		return nil, errors.Wrapf(err, "invalid mapping file %s", path)
	}

	store := NewMappingStore()
	store.runID = artifact.RunID
	if !artifact.CreatedAt.IsZero() {
		store.createdAt = artifact.CreatedAt
	}
	store.generatedBy = artifact.GeneratedBy
	store.identities = artifact.Stats.Identities
	for kind, kindMap := range artifact.Forward {
		for raw, label := range kindMap {
			store.insert(kind, raw, label)
		}
	}
	for raw, synthetic := range artifact.Addresses {
		store.addresses[raw] = synthetic
	}
	store.addrLookup = invertAddresses(artifact.Addresses)
	store.allocator.counters = artifact.Counters
	if store.allocator.counters == nil {
		store.allocator.counters = make(map[Kind]int)
	}
	return store, nil
}

func validateArtifact(artifact *Artifact) error {
	labels := make(map[string]struct{})
	for kind, kindMap := range artifact.Forward {
		for raw, label := range kindMap {
			if got, ok := artifact.Reverse[label]; !ok || got != raw {
				return errors.Errorf("reverse table does not round-trip %s value %q", kind, label)
			}
			labels[label] = struct{}{}
		}
	}
	for label := range artifact.Reverse {
		if _, ok := labels[label]; !ok {
			return errors.Errorf("reverse table has orphan label %q", label)
		}
	}
	return nil
}

// invertAddresses builds the synthetic->raw view. The IPv4 transform is
// a low-entropy hash, so two raw addresses can in principle share a
// synthetic form; inverting over sorted keys keeps the winner stable.
func invertAddresses(addresses map[string]string) map[string]string {
	raws := make([]string, 0, len(addresses))
	for raw := range addresses {
		raws = append(raws, raw)
	}
	sort.Strings(raws)

	out := make(map[string]string, len(addresses))
	for _, raw := range raws {
		synthetic := addresses[raw]
		if _, ok := out[synthetic]; !ok {
			out[synthetic] = raw
		}
	}
	return out
}
