package editor

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/nobatyar/nobat/internal/cache"
	"github.com/nobatyar/nobat/internal/modalstate"
)

type fakeParam struct {
	value string
}

func (p *fakeParam) Get() string        { return p.value }
func (p *fakeParam) Set(v string) error { p.value = v; return nil }

type fakeNotify struct {
	successes []string
	errors    []string
}

func (n *fakeNotify) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *fakeNotify) Error(msg string)   { n.errors = append(n.errors, msg) }

type fakeCache struct {
	invalidated []string
}

func (c *fakeCache) Invalidate(tag string) error {
	c.invalidated = append(c.invalidated, tag)
	return nil
}

type harness struct {
	machine *Machine
	param   *fakeParam
	modals  *modalstate.Registry
	notify  *fakeNotify
	cache   *fakeCache
}

func newHarness(cfg Config) *harness {
	h := &harness{
		param:  &fakeParam{},
		modals: modalstate.New(),
		notify: &fakeNotify{},
		cache:  &fakeCache{},
	}
	h.machine = New(cfg, Deps{
		Target: h.param,
		Modals: h.modals,
		Notify: h.notify,
		Cache:  h.cache,
	})
	return h
}

func validCategoryDraft(m *Machine) {
	m.SetField("name", "قلب و عروق")
	m.SetField("slug", "ghalb-o-oroogh")
}

func TestOpenCreate(t *testing.T) {
	h := newHarness(CategoryConfig())
	h.machine.OpenCreate()

	if got := h.machine.State(); got != StateCreating {
		t.Errorf("state = %v, want creating", got)
	}
	if !h.modals.IsShown(ModalAddCategory) {
		t.Error("add modal should be shown")
	}
	if h.machine.Draft("name") != "" || h.machine.Draft("slug") != "" {
		t.Error("create draft should start from defaults")
	}
}

func TestSlugAutoSync(t *testing.T) {
	h := newHarness(CategoryConfig())
	h.machine.OpenCreate()

	h.machine.SetField("name", "دکتر آزمایشی")
	derived := h.machine.Draft("slug")
	if derived == "" {
		t.Fatal("expected a derived slug for Persian name")
	}

	// The slug keeps following the name.
	h.machine.SetField("name", "تست")
	if h.machine.Draft("slug") == derived {
		t.Error("slug did not follow name change")
	}
	if h.machine.SlugDirty() {
		t.Error("auto-derivation must not mark the slug dirty")
	}
}

func TestSlugDirtyLock(t *testing.T) {
	h := newHarness(CategoryConfig())
	h.machine.OpenCreate()

	h.machine.SetField("name", "تست")
	h.machine.SetField("slug", "custom-1")
	if !h.machine.SlugDirty() {
		t.Fatal("direct slug edit should mark it dirty")
	}

	h.machine.SetField("name", "تست دیگر")
	if got := h.machine.Draft("slug"); got != "custom-1" {
		t.Errorf("slug = %q, want user override preserved", got)
	}
	h.machine.SetField("name", "")
	if got := h.machine.Draft("slug"); got != "custom-1" {
		t.Errorf("clearing the name removed a user-entered slug: %q", got)
	}
}

func TestSlugClearedWithName(t *testing.T) {
	h := newHarness(CategoryConfig())
	h.machine.OpenCreate()

	h.machine.SetField("name", "تست")
	if h.machine.Draft("slug") == "" {
		t.Fatal("expected derived slug")
	}
	h.machine.SetField("name", "   ")
	if got := h.machine.Draft("slug"); got != "" {
		t.Errorf("machine-generated slug should clear with the name, got %q", got)
	}
}

func TestSlugSkipsNonPersianName(t *testing.T) {
	h := newHarness(CategoryConfig())
	h.machine.OpenCreate()

	h.machine.SetField("name", "Dr Test")
	if got := h.machine.Draft("slug"); got != "" {
		t.Errorf("non-Persian name must not derive a slug, got %q", got)
	}
}

func TestOpenEditPopulatesDraft(t *testing.T) {
	h := newHarness(DoctorConfig())
	req, ok := h.machine.OpenEdit("doc-1")
	if !ok {
		t.Fatal("OpenEdit rejected a valid id")
	}
	if h.machine.State() != StateLoading {
		t.Errorf("state = %v, want loading", h.machine.State())
	}
	if h.param.value != "doc-1" {
		t.Errorf("target param = %q, want doc-1", h.param.value)
	}
	if !h.modals.IsShown(ModalEditDoctor) {
		t.Error("edit modal should be shown")
	}

	h.machine.ResolveFetch(req.Seq, map[string]any{
		"full_name":    "دکتر آزمایشی",
		"slug":         "dr-test",
		"image":        "data:image/png;base64,xyz",
		"medical_code": "12345",
		"description":  "",
		"documents":    []any{"مدرک ۱", "مدرک ۲"},
		"category_id":  "c0ffee00-0000-0000-0000-000000000000",
	}, nil)

	if h.machine.State() != StateEditing {
		t.Fatalf("state = %v, want editing", h.machine.State())
	}
	if got := h.machine.Draft("documents"); got != "مدرک ۱\nمدرک ۲" {
		t.Errorf("documents textarea = %q", got)
	}
	if h.machine.Preview() != "data:image/png;base64,xyz" {
		t.Error("preview not primed from fetched image")
	}

	// Fetched slug is the new auto baseline: the slug only regenerates
	// once the name actually changes.
	h.machine.SetField("full_name", "دکتر دیگری")
	if got := h.machine.Draft("slug"); got == "dr-test" {
		t.Error("slug should regenerate after a real name change")
	}
}

func TestOpenEditEmptyID(t *testing.T) {
	h := newHarness(CategoryConfig())
	if _, ok := h.machine.OpenEdit(""); ok {
		t.Error("OpenEdit with empty id must be rejected")
	}
}

func TestNotFoundAutoClose(t *testing.T) {
	h := newHarness(CategoryConfig())
	req, _ := h.machine.OpenEdit("ghost")

	h.machine.ResolveFetch(req.Seq, nil, nil)

	if h.machine.State() != StateIdle {
		t.Errorf("state = %v, want idle", h.machine.State())
	}
	if h.modals.IsShown(ModalEditCategory) {
		t.Error("modal should be hidden after not-found")
	}
	if h.param.value != "" {
		t.Error("target should be cleared after not-found")
	}
	if len(h.notify.errors) != 1 || h.notify.errors[0] != "دسته‌بندی یافت نشد" {
		t.Errorf("notifications = %v, want exactly one not-found error", h.notify.errors)
	}
}

func TestFetchErrorKeepsModalOpen(t *testing.T) {
	h := newHarness(CategoryConfig())
	req, _ := h.machine.OpenEdit("cat-1")

	h.machine.ResolveFetch(req.Seq, nil, errors.New("network down"))

	if h.machine.State() != StateLoading {
		t.Errorf("state = %v, want loading (recoverable)", h.machine.State())
	}
	if len(h.notify.errors) != 1 || h.notify.errors[0] != "network down" {
		t.Errorf("notifications = %v", h.notify.errors)
	}

	// Retry issues a fresh token; resolving it succeeds.
	retry, ok := h.machine.RetryFetch()
	if !ok {
		t.Fatal("RetryFetch rejected while loading")
	}
	h.machine.ResolveFetch(retry.Seq, map[string]any{"name": "قلب", "slug": "ghalb"}, nil)
	if h.machine.State() != StateEditing {
		t.Errorf("state after retry = %v, want editing", h.machine.State())
	}
}

func TestStaleFetchDiscarded(t *testing.T) {
	h := newHarness(CategoryConfig())

	reqA, _ := h.machine.OpenEdit("cat-a")
	h.machine.Close()
	reqB, _ := h.machine.OpenEdit("cat-b")

	// A's response arrives late; it must not populate B's draft.
	h.machine.ResolveFetch(reqA.Seq, map[string]any{"name": "الف", "slug": "a-cat"}, nil)
	if h.machine.State() != StateLoading {
		t.Fatalf("stale response advanced state to %v", h.machine.State())
	}
	if h.machine.Draft("slug") == "a-cat" {
		t.Error("stale response leaked into the draft")
	}

	h.machine.ResolveFetch(reqB.Seq, map[string]any{"name": "ب ب", "slug": "b-cat"}, nil)
	if h.machine.Draft("slug") != "b-cat" {
		t.Error("latest target's response should be authoritative")
	}
}

func TestFetchAfterCloseDiscarded(t *testing.T) {
	h := newHarness(CategoryConfig())
	req, _ := h.machine.OpenEdit("cat-1")
	h.machine.Close()

	h.machine.ResolveFetch(req.Seq, map[string]any{"name": "قلب", "slug": "ghalb"}, nil)

	if h.machine.State() != StateIdle {
		t.Error("late response must not reopen a closed editor")
	}
	if h.modals.IsShown(ModalEditCategory) {
		t.Error("late response must not reshow the modal")
	}
}

func TestSubmitCreateSuccess(t *testing.T) {
	h := newHarness(CategoryConfig())
	h.machine.OpenCreate()
	validCategoryDraft(h.machine)

	req, ok := h.machine.Submit()
	if !ok {
		t.Fatalf("Submit rejected: %v", h.machine.Errors())
	}
	if req.Mode != ModeCreate {
		t.Error("expected create mode")
	}
	if req.Payload["slug"] != "ghalb-o-oroogh" {
		t.Errorf("payload slug = %v", req.Payload["slug"])
	}
	if !h.machine.Pending() || h.machine.State() != StateSubmitting {
		t.Error("machine should be submitting")
	}

	h.machine.ResolveSubmit(req.Seq, nil)

	if h.machine.State() != StateIdle {
		t.Errorf("state = %v, want idle after success", h.machine.State())
	}
	if h.modals.IsShown(ModalAddCategory) {
		t.Error("modal should close after success")
	}
	if len(h.notify.successes) != 1 {
		t.Errorf("successes = %v", h.notify.successes)
	}
	if len(h.cache.invalidated) != 1 || h.cache.invalidated[0] != cache.TagCategoryList {
		t.Errorf("invalidated = %v", h.cache.invalidated)
	}
}

func TestSubmitWhilePendingIsNoOp(t *testing.T) {
	h := newHarness(CategoryConfig())
	h.machine.OpenCreate()
	validCategoryDraft(h.machine)

	if _, ok := h.machine.Submit(); !ok {
		t.Fatal("first submit should pass")
	}
	if _, ok := h.machine.Submit(); ok {
		t.Error("second submit while pending must be a no-op")
	}
}

func TestSubmitValidationBlocks(t *testing.T) {
	h := newHarness(CategoryConfig())
	h.machine.OpenCreate()
	h.machine.SetField("name", "ab") // too short, wrong script

	if _, ok := h.machine.Submit(); ok {
		t.Fatal("invalid draft must not submit")
	}
	if h.machine.State() != StateCreating {
		t.Error("failed validation must not change state")
	}
	if h.machine.FieldError("name") == "" || h.machine.FieldError("slug") == "" {
		t.Errorf("expected field errors, got %v", h.machine.Errors())
	}
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	h := newHarness(CategoryConfig())
	h.machine.OpenCreate()
	validCategoryDraft(h.machine)

	req, _ := h.machine.Submit()
	h.machine.ResolveSubmit(req.Seq, errors.New("duplicate key value"))

	if h.machine.State() != StateCreating {
		t.Errorf("state = %v, want creating (form re-enabled)", h.machine.State())
	}
	if h.machine.Pending() {
		t.Error("pending must clear on failure")
	}
	if h.machine.Draft("name") != "قلب و عروق" {
		t.Error("user input must survive a failed submit")
	}
	if len(h.notify.errors) != 1 || h.notify.errors[0] != "duplicate key value" {
		t.Errorf("notifications = %v", h.notify.errors)
	}
	if len(h.cache.invalidated) != 0 {
		t.Error("failed submit must not invalidate caches")
	}
}

func TestSubmitEditInvalidatesDetail(t *testing.T) {
	h := newHarness(CategoryConfig())
	req, _ := h.machine.OpenEdit("cat-9")
	h.machine.ResolveFetch(req.Seq, map[string]any{"name": "قلب و عروق", "slug": "ghalb"}, nil)

	sub, ok := h.machine.Submit()
	if !ok {
		t.Fatalf("Submit rejected: %v", h.machine.Errors())
	}
	if sub.Mode != ModeEdit || sub.ID != "cat-9" {
		t.Errorf("submit request = %+v", sub)
	}
	h.machine.ResolveSubmit(sub.Seq, nil)

	if len(h.cache.invalidated) != 2 {
		t.Fatalf("invalidated = %v", h.cache.invalidated)
	}
	detail := CategoryConfig().DetailTag("cat-9")
	for _, tag := range h.cache.invalidated {
		if tag != cache.TagCategoryList && tag != detail {
			t.Errorf("unexpected invalidation %q", tag)
		}
	}
}

func TestSubmitResponseAfterCloseDiscarded(t *testing.T) {
	h := newHarness(CategoryConfig())
	h.machine.OpenCreate()
	validCategoryDraft(h.machine)
	req, _ := h.machine.Submit()

	h.machine.Close()
	h.machine.ResolveSubmit(req.Seq, nil)

	if len(h.notify.successes) != 0 {
		t.Error("mutation result after close must not notify")
	}
	if h.machine.State() != StateIdle {
		t.Error("machine should stay idle")
	}
}

func TestImageAttachment(t *testing.T) {
	h := newHarness(DoctorConfig())
	h.machine.OpenCreate()

	req, ok := h.machine.AttachImage("/tmp/photo.png")
	if !ok {
		t.Fatal("AttachImage rejected")
	}
	h.machine.ResolveImage(req.Seq, "data:image/png;base64,abc", nil)
	if h.machine.Draft("image") != "data:image/png;base64,abc" {
		t.Error("image not applied to draft")
	}
	if h.machine.Preview() != "data:image/png;base64,abc" {
		t.Error("preview not updated")
	}

	// A failed conversion leaves the prior value alone.
	req2, _ := h.machine.AttachImage("/tmp/broken.png")
	h.machine.ResolveImage(req2.Seq, "", errors.New("read failed"))
	if h.machine.Draft("image") != "data:image/png;base64,abc" {
		t.Error("failed conversion corrupted the draft")
	}
	if len(h.notify.errors) != 1 {
		t.Errorf("notifications = %v", h.notify.errors)
	}

	// A stale conversion (superseded by a newer attach) is discarded.
	old, _ := h.machine.AttachImage("/tmp/one.png")
	_, _ = h.machine.AttachImage("/tmp/two.png")
	h.machine.ResolveImage(old.Seq, "data:image/png;base64,old", nil)
	if h.machine.Draft("image") == "data:image/png;base64,old" {
		t.Error("stale conversion applied")
	}
}

func TestDocumentListRoundTrip(t *testing.T) {
	h := newHarness(DoctorConfig())
	req, _ := h.machine.OpenEdit("doc-1")
	h.machine.ResolveFetch(req.Seq, map[string]any{
		"full_name":    "دکتر آزمایشی",
		"slug":         "dr-test",
		"image":        "img",
		"medical_code": "12345",
		"category_id":  "c0ffee00-0000-0000-0000-000000000000",
		"documents":    []any{"مدرک ۱", "مدرک ۲"},
	}, nil)

	// Trailing blank lines in the textarea are dropped on submit.
	h.machine.SetField("documents", "مدرک ۱\nمدرک ۲\n\n")

	sub, ok := h.machine.Submit()
	if !ok {
		t.Fatalf("Submit rejected: %v", h.machine.Errors())
	}
	docs, ok := sub.Payload["documents"].([]string)
	if !ok {
		t.Fatalf("documents payload = %T", sub.Payload["documents"])
	}
	if len(docs) != 2 || docs[0] != "مدرک ۱" || docs[1] != "مدرک ۲" {
		t.Errorf("documents = %v", docs)
	}
}

type brokenParam struct{}

func (brokenParam) Get() string        { return "" }
func (brokenParam) Set(v string) error { return errors.New("disk full") }

type brokenCache struct{}

func (brokenCache) Invalidate(tag string) error { return errors.New("database is locked") }

func TestCollaboratorWriteFailuresLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	m := New(CategoryConfig(), Deps{
		Target: brokenParam{},
		Modals: modalstate.New(),
		Notify: &fakeNotify{},
		Cache:  brokenCache{},
		Log:    log,
	})

	req, _ := m.OpenEdit("cat-1")
	m.ResolveFetch(req.Seq, map[string]any{"name": "قلب و عروق", "slug": "ghalb"}, nil)
	sub, ok := m.Submit()
	if !ok {
		t.Fatalf("Submit rejected: %v", m.Errors())
	}
	m.ResolveSubmit(sub.Seq, nil)

	// Persist failures never block the lifecycle itself.
	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}

	out := buf.String()
	if !strings.Contains(out, "target write failed") {
		t.Error("failed target persist was not logged")
	}
	if !strings.Contains(out, "cache invalidate failed") {
		t.Error("failed cache invalidation was not logged")
	}
}

func TestCloseResetsEverything(t *testing.T) {
	h := newHarness(DoctorConfig())
	req, _ := h.machine.OpenEdit("doc-1")
	h.machine.ResolveFetch(req.Seq, map[string]any{
		"full_name": "دکتر آزمایشی", "slug": "dr-test",
		"image": "img", "medical_code": "1", "category_id": "x",
	}, nil)
	h.machine.SetField("slug", "override")

	h.machine.Close()

	if h.machine.State() != StateIdle {
		t.Error("Close should idle the machine")
	}
	if h.machine.Draft("full_name") != "" || h.machine.Draft("slug") != "" {
		t.Error("Close should reset the draft")
	}
	if h.machine.SlugDirty() {
		t.Error("Close should re-arm slug derivation")
	}
	if h.param.value != "" {
		t.Error("Close should clear the target param")
	}
	if h.modals.IsShown(ModalEditDoctor) || h.modals.IsShown(ModalAddDoctor) {
		t.Error("Close should hide the modals")
	}
}
