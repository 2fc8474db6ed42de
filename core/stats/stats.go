// Package stats computes occupancy summaries over a timetable snapshot.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/lessonbird/timetable/core/model"
)

// TeacherLoad is the number of scheduled periods for one teacher.
type TeacherLoad struct {
	TeacherID string `json:"teacher_id"`
	Periods   int    `json:"periods"`
	Classes   int    `json:"classes"`
}

// LoadSummary aggregates per-teacher load over one school/term snapshot.
type LoadSummary struct {
	Teachers []TeacherLoad `json:"teachers"`
	// Mean and StdDev describe the distribution of periods per teacher.
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Max    int     `json:"max"`
}

// TeacherLoads computes the per-teacher load summary. Teachers are sorted by
// descending period count, ties by id.
func TeacherLoads(placements []model.Placement) LoadSummary {
	periods := make(map[string]int)
	classes := make(map[string]map[string]struct{})
	for _, p := range placements {
		periods[p.TeacherID]++
		if classes[p.TeacherID] == nil {
			classes[p.TeacherID] = make(map[string]struct{})
		}
		classes[p.TeacherID][p.ClassID] = struct{}{}
	}

	sum := LoadSummary{Teachers: make([]TeacherLoad, 0, len(periods))}
	loads := make([]float64, 0, len(periods))
	for id, n := range periods {
		sum.Teachers = append(sum.Teachers, TeacherLoad{TeacherID: id, Periods: n, Classes: len(classes[id])})
		loads = append(loads, float64(n))
		if n > sum.Max {
			sum.Max = n
		}
	}
	sort.Slice(sum.Teachers, func(i, j int) bool {
		if sum.Teachers[i].Periods != sum.Teachers[j].Periods {
			return sum.Teachers[i].Periods > sum.Teachers[j].Periods
		}
		return sum.Teachers[i].TeacherID < sum.Teachers[j].TeacherID
	})
	if len(loads) > 0 {
		sum.Mean = stat.Mean(loads, nil)
	}
	if len(loads) > 1 {
		sum.StdDev = stat.StdDev(loads, nil)
	}
	return sum
}

// SlotOccupancy counts placements per (day, period) pair for one class.
type SlotOccupancy struct {
	Day      model.Weekday `json:"day"`
	PeriodID string        `json:"period_id"`
	Count    int           `json:"count"`
}

// ClassOccupancy returns the occupancy of every used slot for the given
// class, ordered by day then period.
func ClassOccupancy(placements []model.Placement, classID string) []SlotOccupancy {
	type key struct {
		day    model.Weekday
		period string
	}
	counts := make(map[key]int)
	for _, p := range placements {
		if p.ClassID != classID {
			continue
		}
		counts[key{p.Day, p.PeriodID}]++
	}
	out := make([]SlotOccupancy, 0, len(counts))
	for k, n := range counts {
		out = append(out, SlotOccupancy{Day: k.day, PeriodID: k.period, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].PeriodID < out[j].PeriodID
	})
	return out
}
