package questiongen

// BatchSize is the number of questions requested per call. Small batches
// keep payloads manageable and make progress reporting responsive.
const BatchSize = 5

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order on every parsed item; the first failure
	// drops the item.
	Validators []Validator

	// MaxTokens is the token budget per batch response. Zero leaves it to
	// the provider.
	MaxTokens int

	// Temperature controls LLM output randomness.
	Temperature float64

	// MaxConcurrency bounds in-flight batch requests. Zero means all
	// batches are issued at once.
	MaxConcurrency int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators:  DefaultValidators(),
		Temperature: 0.75,
	}
}

// BatchSizes splits total into batches of BatchSize. Only the last batch
// may be smaller. It returns nil for total <= 0.
func BatchSizes(total int) []int {
	if total <= 0 {
		return nil
	}
	n := (total + BatchSize - 1) / BatchSize
	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = BatchSize
	}
	if rem := total % BatchSize; rem != 0 {
		sizes[n-1] = rem
	}
	return sizes
}
