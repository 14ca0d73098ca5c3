// Package tally turns the server's vote counts into what the results screen shows.
package tally

import "classpick/internal/model"

// Palette is cycled through to colour result bars.
var Palette = []string{"#4287f5", "#2ECC71", "#9B59B6", "#E67E22", "#E74C3C"}

type Row struct {
	Entry model.VoteTallyEntry
	Share float64
	Color string
}

// Percent is the share scaled to 0..100.
func (r Row) Percent() float64 {
	return r.Share * 100
}

type Summary struct {
	Total int
	Rows  []Row
}

// Leader is the first row as listed by the server; ties are not broken here.
func (s Summary) Leader() (Row, bool) {
	if len(s.Rows) == 0 {
		return Row{}, false
	}

	return s.Rows[0], true
}

// Summarize keeps the server order. Shares are count/total, or 0 for every row when nobody voted.
func Summarize(entries []model.VoteTallyEntry) Summary {
	total := 0
	for _, e := range entries {
		if e.Count > 0 {
			total += e.Count
		}
	}

	rows := make([]Row, 0, len(entries))
	for i, e := range entries {
		if e.Count < 0 {
			e.Count = 0
		}
		rows = append(rows, Row{
			Entry: e,
			Share: Share(e.Count, total),
			Color: Palette[i%len(Palette)],
		})
	}

	return Summary{Total: total, Rows: rows}
}

func Share(count int, total int) float64 {
	if total <= 0 {
		return 0
	}

	return float64(count) / float64(total)
}
