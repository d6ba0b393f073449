package optimizer

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/DanielD2004/Baseball-Optimizer/internal/types"
)

// FairnessReport summarises how playing time and preferences were shared out.
type FairnessReport struct {
	MeanSits   float64 `json:"mean_sits"`
	StdDevSits float64 `json:"std_dev_sits"`
	MinSits    int     `json:"min_sits"`
	MaxSits    int     `json:"max_sits"`

	// FieldingShare is the fraction of innings each player spent on the field.
	FieldingShare map[string]float64 `json:"fielding_share"`
	// PreferredInnings counts innings each player spent at a WANTS_TO_PLAY position.
	PreferredInnings map[string]int `json:"preferred_innings"`
}

// NewFairnessReport builds diagnostics for a validated schedule.
func NewFairnessReport(players []types.Player, schedule []InningLineup) *FairnessReport {
	report := &FairnessReport{
		FieldingShare:    make(map[string]float64, len(players)),
		PreferredInnings: make(map[string]int, len(players)),
	}
	if len(players) == 0 {
		return report
	}

	byName := make(map[string]types.Player, len(players))
	for _, p := range players {
		byName[p.Name] = p
		report.PreferredInnings[p.Name] = 0
	}
	fielded := make(map[string]int, len(players))
	for _, lineup := range schedule {
		for _, fa := range lineup.Fielded {
			fielded[fa.Player]++
			if byName[fa.Player].Preference(fa.Position) == types.WantsToPlay {
				report.PreferredInnings[fa.Player]++
			}
		}
	}

	sits := make([]float64, len(players))
	for i, p := range players {
		sits[i] = float64(len(schedule) - fielded[p.Name])
		if len(schedule) > 0 {
			report.FieldingShare[p.Name] = float64(fielded[p.Name]) / float64(len(schedule))
		}
	}

	report.MeanSits = stat.Mean(sits, nil)
	if len(sits) > 1 {
		report.StdDevSits = stat.StdDev(sits, nil)
	}
	report.MinSits = int(floats.Min(sits))
	report.MaxSits = int(floats.Max(sits))
	return report
}
