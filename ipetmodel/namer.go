package ipetmodel

import (
	"fmt"

	"github.com/wcet-tools/ipet-builder/ilp"
)

// namer generates deterministic, reproducible constraint names: one
// monotonically increasing counter per tag, so that two builds over
// identical input emit byte-identical name sequences.
type namer struct {
	counters map[ilp.Tag]int
}

func newNamer() *namer {
	return &namer{counters: make(map[ilp.Tag]int)}
}

func (n *namer) next(tag ilp.Tag) string {
	n.counters[tag]++
	return fmt.Sprintf("%s#%04d", tag, n.counters[tag])
}
