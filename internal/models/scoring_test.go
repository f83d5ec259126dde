package models

import "testing"

func TestPointsFor(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		want       int
	}{
		{DifficultyEasy, 1},
		{DifficultyMedium, 2},
		{DifficultyHard, 4},
		{Difficulty("Unknown"), 1},
	}

	for _, tt := range tests {
		if got := PointsFor(tt.difficulty); got != tt.want {
			t.Errorf("PointsFor(%s) = %d, want %d", tt.difficulty, got, tt.want)
		}
	}
}

func TestDistributionCounts(t *testing.T) {
	tests := []struct {
		name  string
		dist  DifficultyDistribution
		total int
		easy  int
		med   int
		hard  int
	}{
		{"even split", DifficultyDistribution{Easy: 20, Medium: 40, Hard: 40}, 10, 2, 4, 4},
		{"hard takes remainder", DifficultyDistribution{Easy: 25, Medium: 35, Hard: 40}, 10, 2, 3, 5},
		{"all easy", DifficultyDistribution{Easy: 100}, 7, 7, 0, 0},
		{"single question", DifficultyDistribution{Easy: 20, Medium: 40, Hard: 40}, 1, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := tt.dist.Counts(tt.total)
			if counts[DifficultyEasy] != tt.easy {
				t.Errorf("easy = %d, want %d", counts[DifficultyEasy], tt.easy)
			}
			if counts[DifficultyMedium] != tt.med {
				t.Errorf("medium = %d, want %d", counts[DifficultyMedium], tt.med)
			}
			if counts[DifficultyHard] != tt.hard {
				t.Errorf("hard = %d, want %d", counts[DifficultyHard], tt.hard)
			}
			if counts.Total() != tt.total {
				t.Errorf("counts sum to %d, want %d", counts.Total(), tt.total)
			}
		})
	}
}
