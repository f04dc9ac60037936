package types

// Product is a single (schemaless) food product document.
// The upstream dataset carries hundreds of optional fields per product,
// so the document is kept as a generic map and accessed through helpers
// instead of a fixed struct.
type Product map[string]interface{}

// Code returns the product barcode, or the empty string when absent
func (p Product) Code() string {
	if code, ok := p["code"].(string); ok {
		return code
	}

	return ""
}

// EnsureSustainability lazily attaches the zeroed sustainability
// sub-document to products that predate the voting feature.
// The default is never persisted on read; it is only written back
// once a vote lands.
func (p Product) EnsureSustainability() {
	if _, ok := p["sustainability"]; !ok {
		p["sustainability"] = DefaultSustainability()
	}
}

// Sustainability extracts the sustainability tally from the product,
// falling back to the zeroed default when the field is missing or has
// an unexpected shape
func (p Product) Sustainability() Sustainability {
	switch value := p["sustainability"].(type) {
	case Sustainability:
		return value
	case map[string]interface{}:
		tally := Sustainability{}
		for key, raw := range value {
			tally[key] = toFloat(raw)
		}
		return tally
	default:
		return DefaultSustainability()
	}
}

// The BSON decoder produces different numeric widths
// depending on how the value was stored
func toFloat(value interface{}) float64 {
	switch number := value.(type) {
	case float64:
		return number
	case float32:
		return float64(number)
	case int:
		return float64(number)
	case int32:
		return float64(number)
	case int64:
		return float64(number)
	default:
		return 0
	}
}
