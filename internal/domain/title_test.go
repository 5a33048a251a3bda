package domain_test

import (
	"testing"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

func TestTitleForTrips_Thresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		completed int
		want      string
	}{
		{-3, "New Traveler"},
		{0, "New Traveler"},
		{4, "New Traveler"},
		{5, "Weekend Wanderer"},
		{10, "City Sampler"},
		{14, "City Sampler"},
		{15, "Road Tripper"},
		{20, "Trail Blazer"},
		{35, "Globe Trotter"},
		{45, "Continental Hopper"},
		{50, "Jet Setter"},
		{75, "World Explorer"},
		{85, "Border Breaker"},
		{100, "NomadNova"},
		{149, "NomadNova"},
		{150, "NomadNova Elite"},
		{1000, "NomadNova Elite"},
	}
	for _, tc := range cases {
		if got := domain.TitleForTrips(tc.completed); got != tc.want {
			t.Errorf("TitleForTrips(%d) = %q, want %q", tc.completed, got, tc.want)
		}
	}
}

func TestTitleForTrips_Monotonic(t *testing.T) {
	t.Parallel()

	prev := domain.TitleRank(domain.TitleForTrips(0))
	for n := 1; n <= 200; n++ {
		rank := domain.TitleRank(domain.TitleForTrips(n))
		if rank < prev {
			t.Fatalf("title rank decreased at %d completed trips", n)
		}
		prev = rank
	}
}
