package models

// Point values per difficulty. Harder questions are worth more.
var scoring = map[Difficulty]int{
	DifficultyEasy:   1,
	DifficultyMedium: 2,
	DifficultyHard:   4,
}

// PointsFor returns the point value of a question at the given difficulty.
// Unknown labels score as Easy.
func PointsFor(d Difficulty) int {
	if p, ok := scoring[d]; ok {
		return p
	}
	return 1
}
