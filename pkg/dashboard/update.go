package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/nobatyar/nobat/internal/editor"
)

// Update is the single event handler for the dashboard.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case ClearStatusMsg:
		m.StatusMessage = ""
		m.StatusIsError = false
		return m, nil

	case categoriesMsg:
		m.Loading[tabCategories] = false
		m.Loaded[tabCategories] = true
		if msg.err != nil {
			return m.toastError("خطا در دریافت دسته‌بندی‌ها: " + msg.err.Error())
		}
		m.Categories = msg.items
		m.clampCursor()
		return m, nil

	case doctorsMsg:
		m.Loading[tabDoctors] = false
		m.Loaded[tabDoctors] = true
		if msg.err != nil {
			return m.toastError("خطا در دریافت پزشکان: " + msg.err.Error())
		}
		m.Doctors = msg.items
		m.clampCursor()
		return m, nil

	case requestsMsg:
		m.Loading[tabRequests] = false
		m.Loaded[tabRequests] = true
		if msg.err != nil {
			return m.toastError("خطا در دریافت درخواست‌ها: " + msg.err.Error())
		}
		m.Requests = msg.items
		m.clampCursor()
		return m, nil

	case detailMsg:
		machine := m.Machines[msg.kind]
		if machine == nil {
			return m, nil
		}
		machine.ResolveFetch(msg.seq, msg.record, msg.err)
		// A stale response for an abandoned session must not touch the
		// form another kind may have opened since.
		if msg.kind != m.ActiveKind {
			return m.drainSink()
		}
		if machine.State() == editor.StateEditing {
			// Rebuild so every input reflects the fetched draft.
			m.Form = newFormState(machine)
		}
		if machine.State() == editor.StateIdle {
			// Not-found closed the session underneath us.
			m.closeForm()
		}
		return m.drainSink()

	case imageMsg:
		machine := m.Machines[msg.kind]
		if machine == nil {
			return m, nil
		}
		machine.ResolveImage(msg.seq, msg.dataURL, msg.err)
		return m.drainSink()

	case submitMsg:
		machine := m.Machines[msg.kind]
		if machine == nil {
			return m, nil
		}
		machine.ResolveSubmit(msg.seq, msg.err)
		model, cmd := m.drainSink()
		if msg.kind != model.ActiveKind {
			// Stale outcome for a session that was closed; the machine
			// already discarded it.
			return model, cmd
		}
		if machine.State() == editor.StateIdle {
			// Success: the machine invalidated the tags, reload the list.
			model.closeForm()
			model.Loading[model.ActiveTab] = true
			return model, tea.Batch(cmd, model.loadTab(model.ActiveTab))
		}
		return model, cmd

	case deleteMsg:
		if msg.err != nil {
			return m.toastError(msg.err.Error())
		}
		m.Loading[msg.tab] = true
		model, cmd := m.toastSuccess(deleteToast(msg.tab))
		return model, tea.Batch(cmd, model.loadTab(msg.tab))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes keys by which surface is on top: detail overlay, then
// modal form, then filter, then the list.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.DetailOpen {
		switch msg.String() {
		case "esc", "q", "enter":
			m.DetailOpen = false
			m.DetailTitle = ""
			m.DetailBody = ""
		}
		return m, nil
	}

	if machine := m.activeMachine(); machine != nil && machine.State() != editor.StateIdle {
		return m.handleFormKey(msg, machine)
	}

	if m.FilterActive {
		switch msg.String() {
		case "esc":
			m.FilterActive = false
			m.Filter.SetValue("")
			m.Filter.Blur()
			m.Cursor = 0
			return m, nil
		case "enter":
			m.FilterActive = false
			m.Filter.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.Filter, cmd = m.Filter.Update(msg)
			m.Cursor = 0
			m.Scroll = 0
			return m, cmd
		}
	}

	return m.handleListKey(msg)
}

// handleListKey handles navigation and actions on the list view.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab", "l", "right":
		return m.switchTab(1)

	case "shift+tab", "h", "left":
		return m.switchTab(-1)

	case "1":
		return m.gotoTab(tabCategories)
	case "2":
		return m.gotoTab(tabDoctors)
	case "3":
		return m.gotoTab(tabRequests)

	case "j", "down":
		if m.Cursor < len(m.visibleRows())-1 {
			m.Cursor++
			m.ensureCursorVisible()
		}
		return m, nil

	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
			m.ensureCursorVisible()
		}
		return m, nil

	case "g", "home":
		m.Cursor = 0
		m.Scroll = 0
		return m, nil

	case "G", "end":
		if n := len(m.visibleRows()); n > 0 {
			m.Cursor = n - 1
			m.ensureCursorVisible()
		}
		return m, nil

	case "/":
		m.FilterActive = true
		return m, m.Filter.Focus()

	case "r":
		tag := listTag(m.ActiveTab)
		if err := m.Cache.Invalidate(tag); err != nil {
			m.Log.WithError(err).WithField("tag", tag).Warn("cache invalidate failed")
		}
		m.Loading[m.ActiveTab] = true
		return m, m.loadTab(m.ActiveTab)

	case "a":
		kind := tabKind(m.ActiveTab)
		if kind == "" {
			return m, nil
		}
		machine := m.Machines[kind]
		machine.OpenCreate()
		m.ActiveKind = kind
		m.Form = newFormState(machine)
		return m, nil

	case "enter", "e":
		kind := tabKind(m.ActiveTab)
		if kind == "" {
			return m, nil
		}
		selected, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		machine := m.Machines[kind]
		req, ok := machine.OpenEdit(selected.ID)
		if !ok {
			return m, nil
		}
		m.ActiveKind = kind
		m.Form = newFormState(machine)
		return m, m.fetchDetailCmd(kind, req)

	case "v":
		return m.openDoctorDetail()

	case "d":
		kind := tabKind(m.ActiveTab)
		if kind == "" {
			return m, nil
		}
		selected, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		return m, m.deleteRowCmd(m.ActiveTab, kind, selected.ID)
	}

	return m, nil
}

// handleFormKey handles keys while an add/edit modal is open.
func (m Model) handleFormKey(msg tea.KeyMsg, machine *editor.Machine) (tea.Model, tea.Cmd) {
	// While submitting only closing is allowed; a second submit is a
	// machine-level no-op anyway.
	if machine.State() == editor.StateSubmitting && msg.String() != "esc" {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		machine.Close()
		m.closeForm()
		return m, nil

	case "ctrl+r":
		if machine.State() == editor.StateLoading {
			if req, ok := machine.RetryFetch(); ok {
				return m, m.fetchDetailCmd(m.ActiveKind, req)
			}
		}
		return m, nil

	case "tab", "down":
		if m.Form == nil {
			return m, nil
		}
		return m, m.Form.next()

	case "shift+tab", "up":
		if m.Form == nil {
			return m, nil
		}
		return m, m.Form.prev()

	case "ctrl+s":
		return m.submitForm(machine)

	case "enter":
		if m.Form == nil {
			return m, nil
		}
		in := m.Form.focused()
		if in == nil {
			return m, nil
		}
		if in.spec.pathInput {
			path := in.value()
			if path == "" {
				return m, nil
			}
			if req, ok := machine.AttachImage(path); ok {
				return m, convertImageCmd(m.ActiveKind, req)
			}
			return m, nil
		}
		if in.spec.multiline {
			// Newline inside a textarea.
			return m, m.Form.handleKey(msg, machine)
		}
		if m.Form.focus == len(m.Form.inputs)-1 {
			return m.submitForm(machine)
		}
		return m, m.Form.next()
	}

	if m.Form == nil || machine.State() == editor.StateLoading {
		return m, nil
	}
	return m, m.Form.handleKey(msg, machine)
}

// submitForm validates and dispatches the machine's mutation.
func (m Model) submitForm(machine *editor.Machine) (tea.Model, tea.Cmd) {
	req, ok := machine.Submit()
	if !ok {
		// Surface the first validation message in field order.
		errs := machine.Errors()
		for _, f := range machine.Config().Fields {
			if msg, found := errs[f.Key]; found {
				return m.toastError(msg)
			}
		}
		return m.drainSink()
	}
	return m, m.runSubmitCmd(m.ActiveKind, req)
}

// openDoctorDetail renders the selected doctor's description markdown in
// a read-only overlay.
func (m Model) openDoctorDetail() (tea.Model, tea.Cmd) {
	doctor, ok := m.selectedDoctor()
	if !ok {
		return m, nil
	}

	body := doctor.Description
	if body == "" {
		body = "_توضیحاتی ثبت نشده است_"
	}
	rendered, err := glamour.Render(body, "dark")
	if err != nil {
		rendered = body
	}
	if len(doctor.Documents) > 0 {
		rendered += "\n" + docsHeaderStyle.Render("مدارک:") + "\n"
		for _, doc := range doctor.Documents {
			rendered += "  • " + doc + "\n"
		}
	}

	m.DetailOpen = true
	m.DetailTitle = doctor.FullName
	m.DetailBody = rendered
	return m, nil
}

// switchTab moves delta tabs over, loading the destination on first
// visit.
func (m Model) switchTab(delta int) (tea.Model, tea.Cmd) {
	idx := int(m.ActiveTab) + delta
	if idx < 0 {
		idx = len(tabOrder) - 1
	}
	if idx >= len(tabOrder) {
		idx = 0
	}
	return m.gotoTab(tabOrder[idx])
}

func (m Model) gotoTab(tab tabID) (tea.Model, tea.Cmd) {
	m.ActiveTab = tab
	m.Cursor = 0
	m.Scroll = 0
	m.Filter.SetValue("")
	if !m.Loaded[tab] && !m.Loading[tab] {
		m.Loading[tab] = true
		return m, m.loadTab(tab)
	}
	return m, nil
}

// closeForm drops the form state after the machine session ended.
func (m *Model) closeForm() {
	m.Form = nil
	m.ActiveKind = ""
}

// clampCursor keeps the cursor inside the refreshed row set.
func (m *Model) clampCursor() {
	n := len(m.visibleRows())
	if n == 0 {
		m.Cursor = 0
		m.Scroll = 0
		return
	}
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	m.ensureCursorVisible()
}

// ensureCursorVisible adjusts the scroll window around the cursor.
func (m *Model) ensureCursorVisible() {
	visible := m.listHeight()
	if visible < 1 {
		visible = 1
	}
	if m.Cursor < m.Scroll {
		m.Scroll = m.Cursor
	} else if m.Cursor >= m.Scroll+visible {
		m.Scroll = m.Cursor - visible + 1
	}
	if m.Scroll < 0 {
		m.Scroll = 0
	}
}

// drainSink moves a machine notification onto the status bar.
func (m Model) drainSink() (Model, tea.Cmd) {
	msg, isErr, ok := m.sink.take()
	if !ok {
		return m, nil
	}
	m.StatusMessage = msg
	m.StatusIsError = isErr
	return m, clearStatusCmd()
}

func (m Model) toastError(msg string) (Model, tea.Cmd) {
	m.StatusMessage = msg
	m.StatusIsError = true
	return m, clearStatusCmd()
}

func (m Model) toastSuccess(msg string) (Model, tea.Cmd) {
	m.StatusMessage = msg
	m.StatusIsError = false
	return m, clearStatusCmd()
}

// deleteToast returns the success toast for a deletion on a tab.
func deleteToast(tab tabID) string {
	switch tab {
	case tabCategories:
		return "دسته‌بندی با موفقیت حذف شد"
	case tabDoctors:
		return "پزشک با موفقیت حذف شد"
	default:
		return "با موفقیت حذف شد"
	}
}
