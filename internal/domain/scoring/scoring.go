// Package scoring holds the pure point and star-rating rules.
package scoring

const (
	// PointsPerMatch is awarded for every pair found.
	PointsPerMatch = 100
	// MaxStars is the best rating a round can earn.
	MaxStars = 3
	// MinStars is the rating of any completed round.
	MinStars = 1

	threeStarMoves = 15
	twoStarMoves   = 25
)

// Points returns the score for a number of matched pairs.
func Points(matches int) int {
	return matches * PointsPerMatch
}

// Stars rates a move count: fewer than 15 moves earns 3, fewer than 25 earns 2, anything else 1.
func Stars(moves int) int {
	switch {
	case moves < threeStarMoves:
		return 3
	case moves < twoStarMoves:
		return 2
	default:
		return 1
	}
}

// ClampStars bounds a rating to [MinStars, MaxStars].
func ClampStars(stars int) int {
	return max(MinStars, min(stars, MaxStars))
}
