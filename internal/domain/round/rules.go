package round

// TimeLimitFor returns the countdown length in seconds for a board size.
func TimeLimitFor(tokens int) int {
	switch {
	case tokens <= 12:
		return 60
	case tokens <= 16:
		return 90
	case tokens <= 20:
		return 120
	case tokens <= 24:
		return 150
	case tokens <= 28:
		return 180
	default:
		return 210
	}
}

func needsPreview(tokens int) bool {
	return tokens/2 >= MemorizePairs
}
