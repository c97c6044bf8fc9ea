// internal/analytics/source.go
package analytics

import (
	"strings"

	"recruit-analytics/internal/common/tabular"
)

// RosterSource is an upload as carried in job variables. Text uploads use
// RosterCSV; byte-exact exports (Shift_JIS, UTF-16) use RosterBase64.
type RosterSource struct {
	RosterCSV    string `json:"rosterCsv,omitempty"`
	RosterBase64 string `json:"rosterBase64,omitempty"`
}

func (s RosterSource) Empty() bool {
	return strings.TrimSpace(s.RosterCSV) == "" && strings.TrimSpace(s.RosterBase64) == ""
}

// Table parses the upload. The base64 form wins when both are set.
func (s RosterSource) Table() (*tabular.Table, error) {
	if strings.TrimSpace(s.RosterBase64) != "" {
		return tabular.ParseBase64(s.RosterBase64)
	}
	return tabular.ParseString(s.RosterCSV)
}
