// Package fixtures loads and generates the sorted-Morton-code inputs the
// integration tests and cmd/buildtree build trees from. JSON decoding goes
// through sonnet rather than encoding/json, grounded on the teacher's own
// choice of sonnet.Unmarshal for its hot JSON paths in
// syncharvester.go — the same "don't touch encoding/json" policy applies
// here even though fixture loading itself is cold path.
package fixtures

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/sugawarayuuta/sonnet"
)

// Set is a named collection of sorted Morton codes plus the bit width
// they were generated against, serialized as one JSON object.
type Set struct {
	Name  string   `json:"name"`
	Bits  int      `json:"bits"`
	Codes []uint32 `json:"codes"`
}

// Load reads a Set from a JSON fixture file on disk.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, errors.Wrapf(err, "fixtures: read %s", path)
	}
	var s Set
	if err := sonnet.Unmarshal(data, &s); err != nil {
		return Set{}, errors.Wrapf(err, "fixtures: decode %s", path)
	}
	return s, nil
}

// Save writes a Set to path as JSON.
func Save(path string, s Set) error {
	data, err := sonnet.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "fixtures: encode")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "fixtures: write %s", path)
	}
	return nil
}

// Generate deterministically derives n sorted, bits-wide codes from seed
// using a linear congruential step, avoiding math/rand's global lock so
// repeated calls with the same arguments always produce the same Set —
// the integration tests call this instead of checking a fixture into the
// tree.
func Generate(name string, n, bits int, seed uint64) Set {
	codes := make([]uint32, n)
	mask := uint32((uint64(1) << uint(bits)) - 1)
	if bits >= 32 {
		mask = ^uint32(0)
	}
	state := seed
	for i := range codes {
		state = state*6364136223846793005 + 1442695040888963407
		codes[i] = uint32(state>>32) & mask
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return Set{Name: name, Bits: bits, Codes: codes}
}
