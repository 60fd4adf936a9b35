package fill

import (
	"log/slog"
	"sort"

	"github.com/lomloe-tools/curfill/profile"
)

// DetectProfile reads the mapping workbook header and returns the registered
// profile whose mapping columns it covers. sheetName pins the sheet; otherwise
// profiles that name a mapping sheet are tried before the first sheet. The
// returned profile is a copy whose MappingSheet is the sheet that matched. It
// returns nil when no profile matches.
func DetectProfile(reg *profile.Registry, mappingPath, sheetName string) *profile.Profile {
	names := reg.List()
	sort.SliceStable(names, func(i, j int) bool {
		pi, _ := reg.Get(names[i])
		pj, _ := reg.Get(names[j])
		return pi.MappingSheet != "" && pj.MappingSheet == ""
	})

	tried := make(map[string]bool)
	for _, name := range names {
		p, _ := reg.Get(name)
		sheet := sheetName
		if sheet == "" {
			sheet = p.MappingSheet
		}
		if tried[sheet] {
			continue
		}
		tried[sheet] = true

		s, err := ReadSheet(mappingPath, sheet)
		if err != nil {
			slog.Debug("profile detection skipped sheet", "sheet", sheet, "err", err)
			continue
		}
		if m := reg.Match(s.Header); m != nil {
			slog.Debug("detected profile", "profile", m.Name, "sheet", sheet)
			c := *m
			c.MappingSheet = sheet
			return &c
		}
	}
	return nil
}
