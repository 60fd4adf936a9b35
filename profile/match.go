package profile

import (
	"github.com/lomloe-tools/curfill/tabular"
)

// Match returns the registered profile whose mapping columns best cover the
// given mapping-sheet header. Ties go to the profile listed first. It returns
// nil when no profile covers more than half of its columns.
func (r *Registry) Match(header []string) *Profile {
	sheet := &tabular.Sheet{Header: header}

	var best *Profile
	bestScore := 0.0
	for _, name := range r.List() {
		p := r.profiles[name]
		score := scoreMatch(p, sheet)
		if score > bestScore && score > 0.5 {
			bestScore = score
			best = p
		}
	}
	return best
}

func scoreMatch(p *Profile, sheet *tabular.Sheet) float64 {
	expected := []string{
		p.Mapping.Competencies,
		p.Mapping.Descriptors,
		p.Mapping.Criteria,
		p.Mapping.KnowledgeItems,
	}

	matches := 0
	for _, c := range expected {
		if c != "" && sheet.HasColumn(c) {
			matches++
		}
	}
	return float64(matches) / float64(len(expected))
}
