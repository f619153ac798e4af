package media

// CalculateDownscaleDims scales the given dimensions by factor and floors
// each result to an even integer. Encoders used for previews reject odd
// dimensions, so both values stay even and never drop below 2.
func CalculateDownscaleDims(width, height int, factor float64) (int, int) {
	scaledWidth := int(float64(width) * factor)
	scaledHeight := int(float64(height) * factor)
	scaledWidth -= scaledWidth % 2
	scaledHeight -= scaledHeight % 2
	if scaledWidth < 2 {
		scaledWidth = 2
	}
	if scaledHeight < 2 {
		scaledHeight = 2
	}
	return scaledWidth, scaledHeight
}
