package watcher

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/tokenwatch/tokenwatch/internal/json"
)

// computePricingHash fingerprints a pricing table so the diff can tell
// whether any rate changed without dumping the whole map into the log.
func computePricingHash(pricing map[string]float64) string {
	if len(pricing) == 0 {
		return ""
	}
	type entry struct {
		Model string  `json:"model"`
		Rate  float64 `json:"rate"`
	}
	entries := make([]entry, 0, len(pricing))
	for model, rate := range pricing {
		entries = append(entries, entry{Model: model, Rate: rate})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Model < entries[j].Model })

	data, err := json.Marshal(entries)
	if err != nil || len(data) == 0 {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
