package client

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

const unknownValue = "-"

// DerivedStats are presentation metrics computed from a result set.
type DerivedStats struct {
	FilesProcessed   int
	Completed        int
	Failed           int
	AvgTokensPerPage float64
	AvgCostPerPage   float64
}

// Aggregate computes per-page averages over the global stats of rs.
// Averages are zero when no pages were counted.
func Aggregate(rs ResultSet) DerivedStats {
	stats := DerivedStats{FilesProcessed: len(rs.Results)}

	for _, r := range rs.Results {
		switch r.Status {
		case ResultCompleted:
			stats.Completed++
		case ResultError:
			stats.Failed++
		}
	}

	if pages := rs.GlobalStats.TotalPagesAllForms; pages > 0 {
		stats.AvgTokensPerPage = float64(rs.GlobalStats.TotalTokensAllForms) / float64(pages)
		stats.AvgCostPerPage = rs.GlobalStats.TotalCostAllForms / float64(pages)
	}

	return stats
}

// DisplayName is the form code when the service derived one, else the filename.
func (r ConversionResult) DisplayName() string {
	if r.FormCode != "" {
		return r.FormCode
	}
	return r.Filename
}

// DownloadName is the artifact filename for a completed result, or "" otherwise.
func (r ConversionResult) DownloadName() string {
	if r.Status != ResultCompleted || r.PackageName == "" {
		return ""
	}
	return r.PackageName + ".zip"
}

// ResultRow is one rendered line of the results table.
type ResultRow struct {
	Name     string
	Pages    string
	Sections string
	Tokens   string
	Cost     string
	Status   ResultStatus
	Action   string // Download name for completed rows, error text for failed rows
}

// Rows renders every result, whatever its status, without failing on absent values.
func Rows(rs ResultSet) []ResultRow {
	rows := make([]ResultRow, 0, len(rs.Results))
	for _, r := range rs.Results {
		row := ResultRow{
			Name:     r.DisplayName(),
			Pages:    formatOptionalInt(r.PageCount),
			Sections: formatOptionalInt(r.NumSections),
			Tokens:   unknownValue,
			Cost:     unknownValue,
			Status:   r.Status,
		}
		if r.TotalTokens != nil {
			row.Tokens = humanize.Comma(*r.TotalTokens)
		}
		if r.TotalCost != nil {
			row.Cost = FormatCost(*r.TotalCost)
		}
		switch r.Status {
		case ResultCompleted:
			row.Action = r.DownloadName()
		case ResultError:
			row.Action = r.Error
		}
		rows = append(rows, row)
	}
	return rows
}

// SummaryLine is one labelled summary tile.
type SummaryLine struct {
	Label string
	Value string
}

// Summary renders the aggregate tiles shown above the results table.
func Summary(rs ResultSet) []SummaryLine {
	d := Aggregate(rs)
	g := rs.GlobalStats
	return []SummaryLine{
		{"Files Processed", strconv.Itoa(d.FilesProcessed)},
		{"Total Pages", strconv.Itoa(g.TotalPagesAllForms)},
		{"Total Sections", strconv.Itoa(g.TotalSectionsAllForms)},
		{"Total Tokens", humanize.Comma(g.TotalTokensAllForms)},
		{"Total Cost", FormatCost(g.TotalCostAllForms)},
		{"Avg Tokens/Page", fmt.Sprintf("%.2f", d.AvgTokensPerPage)},
		{"Avg Cost/Page", FormatCost(d.AvgCostPerPage)},
	}
}

// FormatCost renders a currency amount with four decimals.
func FormatCost(v float64) string {
	return fmt.Sprintf("$%.4f", v)
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return unknownValue
	}
	return strconv.Itoa(*v)
}
