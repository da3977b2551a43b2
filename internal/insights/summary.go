package insights

import (
	"sort"
	"time"

	"docugen/domain/roster"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// CompanyCount is one company's share of the batch
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// BatchSummary aggregates one generation batch for the results panel
type BatchSummary struct {
	TotalEmployees   int            `json:"total_employees"`
	Companies        []CompanyCount `json:"companies"`
	DatedEmployees   int            `json:"dated_employees"`
	TenureMeanDays   float64        `json:"tenure_mean_days"`
	TenureMedianDays float64        `json:"tenure_median_days"`
	EarliestJoin     string         `json:"earliest_join,omitempty"`
	LatestJoin       string         `json:"latest_join,omitempty"`
	MonthlyHireTrend float64        `json:"monthly_hire_trend"`
}

// Summarize computes batch statistics over the successfully rendered rows.
// Rows whose joining dates did not parse count toward totals but are left
// out of the tenure and trend figures.
func Summarize(employees []roster.Employee, now time.Time) *BatchSummary {
	summary := &BatchSummary{TotalEmployees: len(employees)}

	companyCounts := make(map[string]int)
	var tenures []float64
	var joins []time.Time

	for _, emp := range employees {
		companyCounts[emp.CompanyName]++

		joined, ok := roster.ParseDate(emp.JoiningDate)
		if !ok {
			continue
		}
		joins = append(joins, joined)
		tenures = append(tenures, now.Sub(joined).Hours()/24)
	}

	summary.Companies = sortedCompanies(companyCounts)
	summary.DatedEmployees = len(joins)

	if len(tenures) > 0 {
		if mean, err := stats.Mean(tenures); err == nil {
			summary.TenureMeanDays = mean
		}
		if median, err := stats.Median(tenures); err == nil {
			summary.TenureMedianDays = median
		}

		earliest, latest := joins[0], joins[0]
		for _, j := range joins[1:] {
			if j.Before(earliest) {
				earliest = j
			}
			if j.After(latest) {
				latest = j
			}
		}
		summary.EarliestJoin = earliest.Format("2006-01-02")
		summary.LatestJoin = latest.Format("2006-01-02")
	}

	summary.MonthlyHireTrend = hireTrend(joins)
	return summary
}

func sortedCompanies(counts map[string]int) []CompanyCount {
	companies := make([]CompanyCount, 0, len(counts))
	for company, count := range counts {
		companies = append(companies, CompanyCount{Company: company, Count: count})
	}
	sort.Slice(companies, func(i, j int) bool {
		if companies[i].Count != companies[j].Count {
			return companies[i].Count > companies[j].Count
		}
		return companies[i].Company < companies[j].Company
	})
	return companies
}

// hireTrend fits hires-per-month against month index and returns the
// slope. Months between the first and last hire with no hires count as
// zero so sparse rosters do not fake a trend.
func hireTrend(joins []time.Time) float64 {
	if len(joins) < 2 {
		return 0
	}

	monthIndex := func(t time.Time) int {
		return t.Year()*12 + int(t.Month()) - 1
	}

	first, last := monthIndex(joins[0]), monthIndex(joins[0])
	perMonth := make(map[int]float64)
	for _, j := range joins {
		idx := monthIndex(j)
		perMonth[idx]++
		if idx < first {
			first = idx
		}
		if idx > last {
			last = idx
		}
	}

	span := last - first + 1
	if span < 2 {
		return 0
	}

	xs := make([]float64, span)
	ys := make([]float64, span)
	for i := 0; i < span; i++ {
		xs[i] = float64(i)
		ys[i] = perMonth[first+i]
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope
}
