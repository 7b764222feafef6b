package service

import "github.com/adala/case-intake/internal/models"

type CourtCount struct {
	CourtType models.CourtType `json:"courtType"`
	Count     int              `json:"count"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Dashboard struct {
	models.DashboardStats
	ByCourt    []CourtCount    `json:"byCourt"`
	Categories []CategoryCount `json:"categories"`
}

// BuildDashboard aggregates the repository for the dashboard view. Routed
// counts every case that has left the pending state.
func BuildDashboard(cases []models.CaseRecord) Dashboard {
	d := Dashboard{}
	perCourt := map[models.CourtType]int{}

	for _, c := range cases {
		d.TotalCases++
		if c.Status != models.StatusPending {
			d.RoutedCases++
		}
		if c.Analysis == nil {
			continue
		}
		if c.Analysis.Priority == models.PriorityUrgent {
			d.UrgentCases++
		}
		if c.Analysis.IsLikelyMalicious {
			d.FlaggedCases++
		}
		perCourt[c.Analysis.CourtType]++
	}

	d.ByCourt = make([]CourtCount, 0, len(models.CourtTypes))
	for _, ct := range models.CourtTypes {
		d.ByCourt = append(d.ByCourt, CourtCount{CourtType: ct, Count: perCourt[ct]})
	}

	commercial := perCourt[models.CourtCommercial]
	labor := perCourt[models.CourtLabor]
	personal := perCourt[models.CourtPersonalStatus]
	d.Categories = []CategoryCount{
		{Name: "تجارية", Value: commercial},
		{Name: "عمالية", Value: labor},
		{Name: "أحوال شخصية", Value: personal},
		{Name: "أخرى", Value: d.TotalCases - commercial - labor - personal},
	}
	return d
}
