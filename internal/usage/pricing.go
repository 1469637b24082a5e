package usage

// PriceTable maps model names to USD per 1K total tokens, with a fallback
// rate for models not in the table.
type PriceTable struct {
	rates       map[string]float64
	defaultRate float64
}

// defaultRates is the built-in per-model rate table (USD per 1K tokens).
var defaultRates = map[string]float64{
	"gpt-4":             0.045,
	"gpt-4-turbo":       0.020,
	"gpt-4o":            0.0075,
	"gpt-4o-mini":       0.000375,
	"gpt-3.5-turbo":     0.001,
	"claude-3-opus":     0.0450,
	"claude-3-sonnet":   0.0090,
	"claude-3-haiku":    0.00075,
	"claude-3-5-sonnet": 0.0090,
	"gemini-1.5-pro":    0.00875,
	"gemini-1.5-flash":  0.000375,
}

const defaultFallbackRate = 0.002

// DefaultPricing returns the built-in price table.
func DefaultPricing() PriceTable {
	return NewPriceTable(defaultRates, defaultFallbackRate)
}

// NewPriceTable builds a price table from per-1K-token rates and a
// fallback rate for unlisted models. Non-positive fallbacks use the
// built-in default. The rates map is copied.
func NewPriceTable(rates map[string]float64, fallback float64) PriceTable {
	if fallback <= 0 {
		fallback = defaultFallbackRate
	}
	copied := make(map[string]float64, len(rates))
	for model, rate := range rates {
		if rate >= 0 {
			copied[model] = rate
		}
	}
	return PriceTable{rates: copied, defaultRate: fallback}
}

// Rate returns the USD per 1K tokens for the given model.
func (p PriceTable) Rate(model string) float64 {
	if rate, ok := p.rates[model]; ok {
		return rate
	}
	return p.defaultRate
}

// Cost estimates the USD cost of totalTokens for the given model.
// It is monotonically non-decreasing in totalTokens for a fixed model.
func (p PriceTable) Cost(model string, totalTokens int64) float64 {
	if totalTokens <= 0 {
		return 0
	}
	return float64(totalTokens) / 1000 * p.Rate(model)
}
