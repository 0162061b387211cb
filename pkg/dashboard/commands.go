package dashboard

import (
	"context"
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nobatyar/nobat/internal/cache"
	"github.com/nobatyar/nobat/internal/dataurl"
	"github.com/nobatyar/nobat/internal/editor"
	"github.com/nobatyar/nobat/internal/models"
)

// remoteTimeout bounds every command-side remote call; the event loop
// itself never blocks on the network.
const remoteTimeout = 30 * time.Second

// statusClearAfter is how long a toast stays on the status bar.
const statusClearAfter = 3 * time.Second

// categoriesMsg carries a loaded category list.
type categoriesMsg struct {
	items []models.Category
	err   error
}

// doctorsMsg carries a loaded doctor list.
type doctorsMsg struct {
	items []models.Doctor
	err   error
}

// requestsMsg carries a loaded request list.
type requestsMsg struct {
	items []models.Request
	err   error
}

// detailMsg resolves a machine's record fetch.
type detailMsg struct {
	kind   string
	seq    int
	record map[string]any
	err    error
}

// imageMsg resolves a machine's image conversion.
type imageMsg struct {
	kind    string
	seq     int
	dataURL string
	err     error
}

// submitMsg resolves a machine's mutation.
type submitMsg struct {
	kind string
	seq  int
	err  error
}

// deleteMsg resolves a direct row deletion.
type deleteMsg struct {
	tab tabID
	err error
}

// ClearStatusMsg clears the status bar toast.
type ClearStatusMsg struct{}

func clearStatusCmd() tea.Cmd {
	return tea.Tick(statusClearAfter, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// loadTab returns the fetch command for a tab.
func (m Model) loadTab(tab tabID) tea.Cmd {
	switch tab {
	case tabCategories:
		return m.loadCategories()
	case tabDoctors:
		return m.loadDoctors()
	case tabRequests:
		return m.loadRequests()
	default:
		return nil
	}
}

// cachedList reads a list payload from the cache; ok is true only for a
// fresh hit.
func cachedList(c *cache.Cache, tag string, ttl time.Duration, dest any) bool {
	payload, fresh, err := c.Get(tag, ttl)
	if err != nil || !fresh {
		return false
	}
	return json.Unmarshal(payload, dest) == nil
}

// storeList writes a fetched list back to the cache. Failures are
// logged and ignored: the cache is an optimization, not a dependency.
func (m Model) storeList(tag string, items any) {
	payload, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := m.Cache.Put(tag, payload); err != nil && m.Log != nil {
		m.Log.WithError(err).WithField("tag", tag).Warn("cache write failed")
	}
}

func (m Model) loadCategories() tea.Cmd {
	return func() tea.Msg {
		var items []models.Category
		if cachedList(m.Cache, cache.TagCategoryList, m.TTL, &items) {
			return categoriesMsg{items: items}
		}

		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		items, err := m.Client.Categories(ctx)
		if err != nil {
			return categoriesMsg{err: err}
		}
		m.storeList(cache.TagCategoryList, items)
		return categoriesMsg{items: items}
	}
}

func (m Model) loadDoctors() tea.Cmd {
	return func() tea.Msg {
		var items []models.Doctor
		if cachedList(m.Cache, cache.TagDoctorList, m.TTL, &items) {
			return doctorsMsg{items: items}
		}

		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		items, err := m.Client.Doctors(ctx)
		if err != nil {
			return doctorsMsg{err: err}
		}
		m.storeList(cache.TagDoctorList, items)
		return doctorsMsg{items: items}
	}
}

func (m Model) loadRequests() tea.Cmd {
	return func() tea.Msg {
		var items []models.Request
		if cachedList(m.Cache, cache.TagRequestList, m.TTL, &items) {
			return requestsMsg{items: items}
		}

		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		items, err := m.Client.Requests(ctx)
		if err != nil {
			return requestsMsg{err: err}
		}
		m.storeList(cache.TagRequestList, items)
		return requestsMsg{items: items}
	}
}

// fetchDetailCmd runs a machine's record fetch and resolves it with the
// request's sequence token.
func (m Model) fetchDetailCmd(kind string, req editor.FetchRequest) tea.Cmd {
	store := m.storeFor(kind)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		record, err := store.FetchOne(ctx, req.ID)
		return detailMsg{kind: kind, seq: req.Seq, record: record, err: err}
	}
}

// convertImageCmd reads a file into a data URL for a machine's image
// field.
func convertImageCmd(kind string, req editor.ImageRequest) tea.Cmd {
	return func() tea.Msg {
		dataURL, err := dataurl.FromFile(req.Path)
		return imageMsg{kind: kind, seq: req.Seq, dataURL: dataURL, err: err}
	}
}

// runSubmitCmd executes a machine's mutation.
func (m Model) runSubmitCmd(kind string, req editor.SubmitRequest) tea.Cmd {
	store := m.storeFor(kind)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		var err error
		if req.Mode == editor.ModeEdit {
			err = store.Update(ctx, req.ID, req.Payload)
		} else {
			err = store.Create(ctx, req.Payload)
		}
		return submitMsg{kind: kind, seq: req.Seq, err: err}
	}
}

// deleteRowCmd deletes a row directly and invalidates the tab's list tag
// on success.
func (m Model) deleteRowCmd(tab tabID, table, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		if err := m.Client.DeleteRow(ctx, table, id); err != nil {
			return deleteMsg{tab: tab, err: err}
		}
		m.Cache.Invalidate(listTag(tab))
		m.Cache.Invalidate(cache.DetailTag(table, id))
		return deleteMsg{tab: tab}
	}
}

// listTag returns the cache tag behind a tab's list.
func listTag(tab tabID) string {
	switch tab {
	case tabCategories:
		return cache.TagCategoryList
	case tabDoctors:
		return cache.TagDoctorList
	case tabRequests:
		return cache.TagRequestList
	default:
		return ""
	}
}
