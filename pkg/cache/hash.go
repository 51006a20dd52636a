package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/dagmin/dagmin/pkg/digraph"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GraphHash computes the content hash of a graph's canonical form: every
// edge as "u v" plus every isolated node, one per line, in insertion order.
// Two graphs loaded from the same input hash identically.
func GraphHash(g *digraph.Graph) string {
	var b strings.Builder
	for _, e := range g.Edges() {
		b.WriteString(e.From)
		b.WriteByte(' ')
		b.WriteString(e.To)
		b.WriteByte('\n')
	}
	for _, id := range g.Nodes() {
		if g.OutDegree(id) == 0 && g.InDegree(id) == 0 {
			b.WriteString(id)
			b.WriteByte('\n')
		}
	}
	return Hash([]byte(b.String()))
}
