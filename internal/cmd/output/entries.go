package output

import (
	"io"
	"strconv"

	"github.com/agentstation/dashsync/internal/cmd/emoji"
	"github.com/agentstation/dashsync/pkg/dashboards"
	"github.com/agentstation/dashsync/pkg/sync"
)

// EntriesToData lays out per-entity results as a table.
func EntriesToData(entries []sync.Entry) Data {
	data := Data{
		Headers:         []string{"", "Kind", "UID", "Title", "Action", "Folder ID", "Detail"},
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft},
	}
	for _, e := range entries {
		detail := e.Error
		if detail == "" {
			detail = e.Source
		}
		folder := ""
		if e.Kind == dashboards.KindDashboard {
			folder = strconv.FormatInt(int64(e.FolderID), 10)
		}
		data.Rows = append(data.Rows, []string{
			StatusSymbol(e.Status),
			kindName(e.Kind),
			string(e.UID),
			e.Title,
			e.Action,
			folder,
			detail,
		})
	}
	return data
}

// StatusSymbol returns the marker shown in front of an entry.
func StatusSymbol(s sync.Status) string {
	switch s {
	case sync.StatusApplied:
		return emoji.Success
	case sync.StatusPlanned:
		return emoji.Planned
	case sync.StatusNoop:
		return emoji.Unchanged
	case sync.StatusFailed:
		return emoji.Error
	case sync.StatusInvalid:
		return emoji.Warning
	default:
		return emoji.Unknown
	}
}

// WriteEntries renders entries in format. Table output shows the entry
// table; JSON and YAML output the value as is.
func WriteEntries(w io.Writer, format Format, entries []sync.Entry, value any) error {
	if format == FormatJSON || format == FormatYAML {
		return NewFormatter(format).Format(w, value)
	}
	if len(entries) == 0 {
		return nil
	}
	return NewFormatter(FormatTable).Format(w, EntriesToData(entries))
}

func kindName(k dashboards.Kind) string {
	switch k {
	case dashboards.KindFolder:
		return "folder"
	case dashboards.KindDashboard:
		return "dashboard"
	default:
		return string(k)
	}
}
