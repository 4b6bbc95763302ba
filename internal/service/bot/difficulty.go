package bot

import "github.com/iamasit07/connect4-toototto/internal/domain"

// Connect 4 has a single strength; it branches 7 ways against TOOT-OTTO's 14.
const connect4Depth = 4

var tootOttoDepths = map[domain.Difficulty]int{
	domain.Easy:   1,
	domain.Medium: 2,
	domain.Hard:   3,
}

// Depth is the search bound used for a variant at a difficulty.
func Depth(t domain.GameType, difficulty domain.Difficulty) int {
	if t == domain.TootOtto {
		if depth, ok := tootOttoDepths[difficulty]; ok {
			return depth
		}
		return tootOttoDepths[domain.Medium]
	}
	return connect4Depth
}
