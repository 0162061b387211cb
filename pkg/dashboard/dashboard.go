// Package dashboard is the admin TUI: tabbed lists over the directory
// tables with add/edit modals driven by the editor state machines.
//
// The Bubble Tea event loop owns all state. Remote calls run as tea.Cmd
// goroutines and resolve back as messages carrying the machine's sequence
// token, so a stale response is recognized and dropped inside Update.
package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/nobatyar/nobat/internal/cache"
	"github.com/nobatyar/nobat/internal/editor"
	"github.com/nobatyar/nobat/internal/modalstate"
	"github.com/nobatyar/nobat/internal/models"
	"github.com/nobatyar/nobat/internal/navstate"
	"github.com/nobatyar/nobat/internal/remote"
)

// tabID identifies one of the list tabs.
type tabID int

const (
	tabCategories tabID = iota
	tabDoctors
	tabRequests
)

var tabOrder = []tabID{tabCategories, tabDoctors, tabRequests}

// tabLabel returns the display label for a tab.
func tabLabel(tab tabID) string {
	switch tab {
	case tabCategories:
		return "دسته‌بندی‌ها"
	case tabDoctors:
		return "پزشکان"
	case tabRequests:
		return "درخواست‌ها"
	default:
		return ""
	}
}

// emptyLabel returns the empty-state line for a tab.
func emptyLabel(tab tabID) string {
	switch tab {
	case tabCategories:
		return "هیچ دسته‌بندی ثبت نشده است"
	case tabDoctors:
		return "هیچ پزشکی ثبت نشده است"
	case tabRequests:
		return "هیچ درخواستی ثبت نشده است"
	default:
		return ""
	}
}

// tabKind maps a tab to its editor machine kind. Requests are list-only
// in the dashboard; their form lives in the request command.
func tabKind(tab tabID) string {
	switch tab {
	case tabCategories:
		return models.TableCategory
	case tabDoctors:
		return models.TableDoctor
	default:
		return ""
	}
}

// Options configures a dashboard Model.
type Options struct {
	BaseDir string
	Client  *remote.Client
	Cache   *cache.Cache
	Nav     *navstate.Store
	TTL     time.Duration
	Log     *logrus.Logger
}

// Model is the dashboard's Bubble Tea model.
type Model struct {
	BaseDir string
	Client  *remote.Client
	Cache   *cache.Cache
	Nav     *navstate.Store
	Modals  *modalstate.Registry
	TTL     time.Duration
	Log     *logrus.Logger

	Width  int
	Height int

	ActiveTab tabID
	Cursor    int
	Scroll    int

	Categories []models.Category
	Doctors    []models.Doctor
	Requests   []models.Request
	Loading    map[tabID]bool
	Loaded     map[tabID]bool

	FilterActive bool
	Filter       textinput.Model

	// One machine per editable kind, shared across tab switches so an
	// in-flight session survives navigation.
	Machines   map[string]*editor.Machine
	ActiveKind string
	Form       *formState
	sink       *statusSink

	StatusMessage string
	StatusIsError bool

	DetailOpen  bool
	DetailTitle string
	DetailBody  string

	// Commands queued by New (deep-link fetches) and flushed by Init.
	pending []tea.Cmd
}

// New builds the dashboard model and, when the persisted location names
// an edit target, opens that machine immediately.
func New(opts Options) Model {
	filter := textinput.New()
	filter.Placeholder = "جستجو..."
	filter.CharLimit = 64

	m := Model{
		BaseDir:  opts.BaseDir,
		Client:   opts.Client,
		Cache:    opts.Cache,
		Nav:      opts.Nav,
		Modals:   modalstate.New(),
		TTL:      opts.TTL,
		Log:      opts.Log,
		Loading:  make(map[tabID]bool),
		Loaded:   make(map[tabID]bool),
		Filter:   filter,
		Machines: make(map[string]*editor.Machine),
		sink:     &statusSink{},
	}

	for _, cfg := range []editor.Config{editor.CategoryConfig(), editor.DoctorConfig()} {
		m.Machines[cfg.Kind] = editor.New(cfg, editor.Deps{
			Target: navstate.NewParam(opts.Nav, cfg.TargetParam, ""),
			Modals: m.Modals,
			Notify: m.sink,
			Cache:  opts.Cache,
			Log:    opts.Log,
		})
	}

	// Deep link: a persisted edit-target parameter reopens its modal.
	for _, cfg := range []editor.Config{editor.CategoryConfig(), editor.DoctorConfig()} {
		if id := opts.Nav.Get(cfg.TargetParam); id != "" {
			machine := m.Machines[cfg.Kind]
			if req, ok := machine.OpenEdit(id); ok {
				m.ActiveKind = cfg.Kind
				m.Form = newFormState(machine)
				if cfg.Kind == models.TableDoctor {
					m.ActiveTab = tabDoctors
				}
				m.pending = append(m.pending, m.fetchDetailCmd(cfg.Kind, req))
			}
			break
		}
	}

	return m
}

// Init loads the first tab and flushes any deep-link fetch.
func (m Model) Init() tea.Cmd {
	cmds := append([]tea.Cmd{m.loadTab(m.ActiveTab)}, m.pending...)
	return tea.Batch(cmds...)
}

// activeMachine returns the machine behind the open modal, if any.
func (m Model) activeMachine() *editor.Machine {
	if m.ActiveKind == "" {
		return nil
	}
	return m.Machines[m.ActiveKind]
}

// storeFor returns the remote store for a machine kind.
func (m Model) storeFor(kind string) remote.TableStore {
	return remote.TableStore{Client: m.Client, Table: kind}
}
