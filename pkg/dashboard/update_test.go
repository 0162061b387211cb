package dashboard

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/nobatyar/nobat/internal/editor"
	"github.com/nobatyar/nobat/internal/modalstate"
	"github.com/nobatyar/nobat/internal/models"
)

type memParam struct {
	value string
}

func (p *memParam) Get() string        { return p.value }
func (p *memParam) Set(v string) error { p.value = v; return nil }

type memCache struct {
	invalidated []string
}

func (c *memCache) Invalidate(tag string) error {
	c.invalidated = append(c.invalidated, tag)
	return nil
}

// newTestModel builds a dashboard model with in-memory machine
// collaborators, without a remote client or sqlite cache.
func newTestModel() Model {
	log := logrus.New()
	log.SetOutput(io.Discard)

	m := Model{
		Modals:   modalstate.New(),
		Log:      log,
		Loading:  make(map[tabID]bool),
		Loaded:   make(map[tabID]bool),
		Machines: make(map[string]*editor.Machine),
		sink:     &statusSink{},
	}
	for _, cfg := range []editor.Config{editor.CategoryConfig(), editor.DoctorConfig()} {
		m.Machines[cfg.Kind] = editor.New(cfg, editor.Deps{
			Target: &memParam{},
			Modals: m.Modals,
			Notify: m.sink,
			Cache:  &memCache{},
			Log:    log,
		})
	}
	return m
}

// openCategoryAdd opens the category add modal the way the "a" key does.
func openCategoryAdd(m *Model) *editor.Machine {
	machine := m.Machines[models.TableCategory]
	machine.OpenCreate()
	m.ActiveKind = models.TableCategory
	m.Form = newFormState(machine)
	return machine
}

func TestStaleDetailKeepsOtherKindForm(t *testing.T) {
	m := newTestModel()

	// An edit fetch is abandoned, then a different kind's form opens.
	doctor := m.Machines[models.TableDoctor]
	req, ok := doctor.OpenEdit("doc-1")
	if !ok {
		t.Fatal("OpenEdit rejected a valid id")
	}
	doctor.Close()
	category := openCategoryAdd(&m)
	category.SetField("name", "قلب و عروق")

	// The abandoned fetch resolves late.
	next, _ := m.Update(detailMsg{kind: models.TableDoctor, seq: req.Seq, record: map[string]any{
		"full_name": "دکتر آزمایشی", "slug": "dr-test",
	}})
	got := next.(Model)

	if got.Form == nil {
		t.Fatal("stale response tore down the other kind's form")
	}
	if got.ActiveKind != models.TableCategory {
		t.Errorf("ActiveKind = %q, want %q", got.ActiveKind, models.TableCategory)
	}
	if category.State() != editor.StateCreating {
		t.Errorf("category machine state = %v, want creating", category.State())
	}
	if category.Draft("name") != "قلب و عروق" {
		t.Error("typed input was lost")
	}
}

func TestStaleSubmitLeavesOtherKindForm(t *testing.T) {
	m := newTestModel()

	// A doctor mutation is dispatched and the modal closed before the
	// outcome arrives.
	doctor := m.Machines[models.TableDoctor]
	doctor.OpenCreate()
	doctor.SetField("full_name", "دکتر آزمایشی")
	doctor.SetField("slug", "dr-test")
	doctor.SetField("image", "data:image/png;base64,abc")
	doctor.SetField("medical_code", "12345")
	doctor.SetField("category_id", "c0ffee00-0000-0000-0000-000000000000")
	req, ok := doctor.Submit()
	if !ok {
		t.Fatalf("Submit rejected: %v", doctor.Errors())
	}
	doctor.Close()

	openCategoryAdd(&m)

	next, _ := m.Update(submitMsg{kind: models.TableDoctor, seq: req.Seq})
	got := next.(Model)

	if got.Form == nil || got.ActiveKind != models.TableCategory {
		t.Errorf("stale outcome closed the open form: ActiveKind=%q Form=%v", got.ActiveKind, got.Form)
	}
	if got.Loading[got.ActiveTab] {
		t.Error("stale outcome must not trigger a list reload")
	}
}

func TestNotFoundDetailClosesOwnForm(t *testing.T) {
	m := newTestModel()

	category := m.Machines[models.TableCategory]
	req, _ := category.OpenEdit("ghost")
	m.ActiveKind = models.TableCategory
	m.Form = newFormState(category)

	next, _ := m.Update(detailMsg{kind: models.TableCategory, seq: req.Seq})
	got := next.(Model)

	if got.Form != nil || got.ActiveKind != "" {
		t.Error("not-found should close the session's own form")
	}
	if got.StatusMessage == "" || !got.StatusIsError {
		t.Error("not-found should surface an error toast")
	}
}
