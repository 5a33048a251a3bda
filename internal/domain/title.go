package domain

// titleLadder maps completed-trip thresholds to title rungs. Thresholds are
// strictly increasing, so TitleForTrips is monotonic non-decreasing.
var titleLadder = []struct {
	threshold int
	title     string
}{
	{0, "New Traveler"},
	{5, "Weekend Wanderer"},
	{10, "City Sampler"},
	{15, "Road Tripper"},
	{20, "Trail Blazer"},
	{35, "Globe Trotter"},
	{45, "Continental Hopper"},
	{50, "Jet Setter"},
	{75, "World Explorer"},
	{85, "Border Breaker"},
	{100, "NomadNova"},
	{150, "NomadNova Elite"},
}

// TitleForTrips returns the highest title whose threshold is <= completed.
// Negative counts are treated as zero.
func TitleForTrips(completed int) string {
	title := titleLadder[0].title
	for _, rung := range titleLadder {
		if completed < rung.threshold {
			break
		}
		title = rung.title
	}
	return title
}

// TitleRank returns the ladder index of the given title, or -1 if the title
// is not a rung. Useful for ordering comparisons.
func TitleRank(title string) int {
	for i, rung := range titleLadder {
		if rung.title == title {
			return i
		}
	}
	return -1
}
