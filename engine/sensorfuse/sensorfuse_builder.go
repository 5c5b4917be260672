package sensorfuse

// ComplementaryBuilderOption is a functional option for configuring a complementary filter.
type ComplementaryBuilderOption func(*complementaryImpl)

// WithGain sets the fraction of the drift removed per Fuse call. Values are clamped to [0, 1];
// 0 keeps the first correction forever and 1 follows the tracker exactly.
//
// Parameters:
//   - gain: the blend factor
//
// Returns:
//   - ComplementaryBuilderOption: option function to apply
func WithGain(gain float64) ComplementaryBuilderOption {
	return func(c *complementaryImpl) {
		c.gain = min(max(gain, 0), 1)
	}
}
