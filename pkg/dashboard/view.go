package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nobatyar/nobat/internal/editor"
	"github.com/nobatyar/nobat/internal/models"
)

// listHeight is how many rows fit between the chrome lines.
func (m Model) listHeight() int {
	// Header, tabs, filter line, divider, status bar.
	h := m.Height - 5
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the dashboard.
func (m Model) View() string {
	if m.Width == 0 {
		return ""
	}

	if m.DetailOpen {
		return m.renderDetail()
	}
	if machine := m.activeMachine(); machine != nil && machine.State() != editor.StateIdle {
		return m.renderForm(machine)
	}
	return m.renderList()
}

// renderList renders the tab bar and the current tab's rows.
func (m Model) renderList() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" نوبت‌یار "))
	b.WriteString(hintStyle.Render("  a:افزودن  enter:ویرایش  d:حذف  v:نمایش  /:جستجو  r:بازخوانی  q:خروج"))
	b.WriteString("\n")

	var tabs []string
	for _, tab := range tabOrder {
		label := tabLabel(tab)
		if tab == m.ActiveTab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")

	if m.FilterActive || m.Filter.Value() != "" {
		b.WriteString(m.Filter.View())
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(strings.Repeat("─", max(m.Width-1, 1))))
	b.WriteString("\n")

	b.WriteString(m.renderRows())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

// renderRows renders the visible window of the current tab.
func (m Model) renderRows() string {
	if m.Loading[m.ActiveTab] || !m.Loaded[m.ActiveTab] {
		return m.renderSkeleton()
	}

	rows := m.visibleRows()
	if len(rows) == 0 {
		if m.Filter.Value() != "" {
			return emptyStyle.Render("موردی یافت نشد")
		}
		return emptyStyle.Render(emptyLabel(m.ActiveTab))
	}

	visible := m.listHeight()
	end := m.Scroll + visible
	if end > len(rows) {
		end = len(rows)
	}

	var lines []string
	for i := m.Scroll; i < end; i++ {
		line := rows[i].Line
		if lipgloss.Width(line) > m.Width-2 {
			line = ansi.Truncate(line, m.Width-3, "…")
		}
		if i == m.Cursor {
			lines = append(lines, selectedRowStyle.Render("> "+line))
		} else {
			lines = append(lines, rowStyle.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}

// renderSkeleton is the loading placeholder shown while a list fetch is
// in flight.
func (m Model) renderSkeleton() string {
	bar := emptyStyle.Render(strings.Repeat("▒", max(min(m.Width-4, 48), 8)))
	return strings.Join([]string{bar, bar, bar}, "\n")
}

// renderStatusBar renders the toast line.
func (m Model) renderStatusBar() string {
	if m.StatusMessage == "" {
		return ""
	}
	if m.StatusIsError {
		return statusErrorStyle.Render(m.StatusMessage)
	}
	return statusSuccessStyle.Render(m.StatusMessage)
}

// renderForm renders the open add/edit modal.
func (m Model) renderForm(machine *editor.Machine) string {
	var b strings.Builder

	title := formTitle(machine)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	switch machine.State() {
	case editor.StateLoading:
		b.WriteString(emptyStyle.Render("در حال دریافت اطلاعات..."))
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("ctrl+r:تلاش دوباره  esc:بستن"))

	default:
		if m.Form != nil {
			for i := range m.Form.inputs {
				in := &m.Form.inputs[i]
				b.WriteString(fieldLabelStyle.Render(in.spec.label))
				b.WriteString("\n")
				if in.spec.multiline {
					b.WriteString(in.area.View())
				} else {
					b.WriteString(in.text.View())
				}
				b.WriteString("\n")
				if msg := machine.FieldError(in.spec.key); msg != "" {
					b.WriteString(fieldErrorStyle.Render(msg))
					b.WriteString("\n")
				}
				if in.spec.pathInput && machine.Preview() != "" {
					b.WriteString(statusSuccessStyle.Render("تصویر پیوست شد"))
					b.WriteString("\n")
				}
			}
		}
		b.WriteString("\n")
		if machine.Pending() {
			b.WriteString(emptyStyle.Render("در حال ارسال..."))
		} else {
			b.WriteString(hintStyle.Render("tab:فیلد بعدی  ctrl+s:ثبت  esc:انصراف"))
		}
	}

	if status := m.renderStatusBar(); status != "" {
		b.WriteString("\n")
		b.WriteString(status)
	}

	width := m.Width * 80 / 100
	if width > 90 {
		width = 90
	}
	if width < 40 {
		width = max(m.Width-2, 20)
	}
	return modalStyle.Width(width).Render(b.String())
}

// formTitle returns the modal heading for a machine session.
func formTitle(machine *editor.Machine) string {
	kind := machine.Config().Kind
	edit := machine.Mode() == editor.ModeEdit
	switch kind {
	case models.TableCategory:
		if edit {
			return "ویرایش دسته‌بندی"
		}
		return "افزودن دسته‌بندی"
	case models.TableDoctor:
		if edit {
			return "ویرایش پزشک"
		}
		return "افزودن پزشک"
	default:
		return "فرم"
	}
}

// renderDetail renders the read-only doctor profile overlay.
func (m Model) renderDetail() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.DetailTitle))
	b.WriteString("\n")
	b.WriteString(m.DetailBody)
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("esc:بستن"))

	width := m.Width * 80 / 100
	if width < 40 {
		width = max(m.Width-2, 20)
	}
	return modalStyle.Width(width).Render(b.String())
}
