package httpapi

import (
	"net/http"
)

type destinationCountResponse struct {
	Destination string `json:"destination"`
	Trips       int    `json:"trips"`
}

type analyticsResponse struct {
	TotalUsers       int                        `json:"totalUsers"`
	TotalTrips       int                        `json:"totalTrips"`
	OpenTrips        int                        `json:"openTrips"`
	FullTrips        int                        `json:"fullTrips"`
	CancelledTrips   int                        `json:"cancelledTrips"`
	CompletedTrips   int                        `json:"completedTrips"`
	TotalJoins       int                        `json:"totalJoins"`
	TripsPerCategory map[string]int             `json:"tripsPerCategory"`
	TopDestinations  []destinationCountResponse `json:"topDestinations"`
	FillRate         float64                    `json:"fillRate"`
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	sum, err := s.Analytics.Summarize(r.Context(), sub.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	top := make([]destinationCountResponse, 0, len(sum.TopDestinations))
	for _, d := range sum.TopDestinations {
		top = append(top, destinationCountResponse{Destination: d.Destination, Trips: d.Trips})
	}
	writeJSON(w, http.StatusOK, analyticsResponse{
		TotalUsers:       sum.TotalUsers,
		TotalTrips:       sum.TotalTrips,
		OpenTrips:        sum.OpenTrips,
		FullTrips:        sum.FullTrips,
		CancelledTrips:   sum.CancelledTrips,
		CompletedTrips:   sum.CompletedTrips,
		TotalJoins:       sum.TotalJoins,
		TripsPerCategory: sum.TripsPerCategory,
		TopDestinations:  top,
		FillRate:         sum.FillRate,
	})
}
