package dashboard

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/nobatyar/nobat/internal/models"
)

// row is one list line: the record id plus the rendered columns.
type row struct {
	ID   string
	Line string
}

// categoryRows renders categories into list rows.
func categoryRows(items []models.Category) []row {
	rows := make([]row, 0, len(items))
	for _, c := range items {
		rows = append(rows, row{ID: c.ID, Line: c.Name + "  " + c.Slug})
	}
	return rows
}

// doctorRows renders doctors into list rows, with the embedded category
// name when present.
func doctorRows(items []models.Doctor) []row {
	rows := make([]row, 0, len(items))
	for _, d := range items {
		parts := []string{d.FullName}
		if d.Category != nil && d.Category.Name != "" {
			parts = append(parts, d.Category.Name)
		}
		if d.MedicalCode != "" {
			parts = append(parts, "ن.پ "+d.MedicalCode)
		}
		rows = append(rows, row{ID: d.ID, Line: strings.Join(parts, "  ")})
	}
	return rows
}

// requestRows renders appointment requests into list rows.
func requestRows(items []models.Request) []row {
	rows := make([]row, 0, len(items))
	for _, r := range items {
		line := r.FirstName + " " + r.LastName + "  " + r.Phone + "  " + r.Specialist
		rows = append(rows, row{ID: r.ID, Line: line})
	}
	return rows
}

// filterRows narrows rows to fuzzy matches of pattern, best match first.
// An empty pattern returns rows unchanged.
func filterRows(rows []row, pattern string) []row {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return rows
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.Line
	}

	matches := fuzzy.Find(pattern, lines)
	out := make([]row, 0, len(matches))
	for _, match := range matches {
		out = append(out, rows[match.Index])
	}
	return out
}

// visibleRows returns the current tab's rows after filtering.
func (m Model) visibleRows() []row {
	var rows []row
	switch m.ActiveTab {
	case tabCategories:
		rows = categoryRows(m.Categories)
	case tabDoctors:
		rows = doctorRows(m.Doctors)
	case tabRequests:
		rows = requestRows(m.Requests)
	}
	return filterRows(rows, m.Filter.Value())
}

// selectedRow returns the row under the cursor, if any.
func (m Model) selectedRow() (row, bool) {
	rows := m.visibleRows()
	if m.Cursor < 0 || m.Cursor >= len(rows) {
		return row{}, false
	}
	return rows[m.Cursor], true
}

// selectedDoctor resolves the cursor row back to a doctor record.
func (m Model) selectedDoctor() (models.Doctor, bool) {
	r, ok := m.selectedRow()
	if !ok || m.ActiveTab != tabDoctors {
		return models.Doctor{}, false
	}
	for _, d := range m.Doctors {
		if d.ID == r.ID {
			return d, true
		}
	}
	return models.Doctor{}, false
}
