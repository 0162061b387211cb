// Package editor implements the resource-editor state machine behind the
// add/edit modals: one generic machine, instantiated per entity kind.
//
// The machine is synchronous and single-owner; asynchronous work (detail
// fetch, image conversion, mutations) is handed back to the caller as a
// request carrying a sequence token, and the result is delivered through
// the matching Resolve method. A request whose token no longer matches is
// stale — it was superseded or the modal was closed — and is discarded,
// which is what makes "last OpenEdit wins" hold without cancellation.
package editor

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nobatyar/nobat/internal/slug"
)

// State enumerates the editor lifecycle.
type State int

const (
	// StateIdle: modal closed, no target.
	StateIdle State = iota
	// StateCreating: add modal open, draft holds defaults.
	StateCreating
	// StateLoading: edit modal open, detail fetch in flight, inputs disabled.
	StateLoading
	// StateEditing: edit modal open, draft populated from the record.
	StateEditing
	// StateSubmitting: mutation in flight, inputs and submit disabled.
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCreating:
		return "creating"
	case StateLoading:
		return "loading"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Mode distinguishes create from edit sessions.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Param is the navigable edit-target channel (see navstate).
type Param interface {
	Get() string
	Set(value string) error
}

// Modals is the modal visibility registry (see modalstate).
type Modals interface {
	Show(key string)
	Hide(key string)
	IsShown(key string) bool
}

// Notifier is the toast sink.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Invalidator marks cached collections stale.
type Invalidator interface {
	Invalidate(tag string) error
}

// Deps are the machine's collaborators.
type Deps struct {
	Target Param
	Modals Modals
	Notify Notifier
	Cache  Invalidator
	Log    logrus.FieldLogger
}

// FetchRequest asks the caller to fetch the record with ID and deliver
// the result to ResolveFetch with the same Seq.
type FetchRequest struct {
	Seq int
	ID  string
}

// ImageRequest asks the caller to convert the file at Path into a data
// URL and deliver it to ResolveImage.
type ImageRequest struct {
	Seq  int
	Path string
}

// SubmitRequest asks the caller to run the mutation and deliver the
// outcome to ResolveSubmit.
type SubmitRequest struct {
	Seq     int
	Mode    Mode
	ID      string
	Payload map[string]any
}

// Machine coordinates one entity kind's modal, target parameter, draft,
// slug derivation and mutation lifecycle.
type Machine struct {
	cfg  Config
	deps Deps

	state     State
	mode      Mode
	targetID  string
	draft     map[string]string
	fieldErrs map[string]string
	preview   string

	// lastAutoSlug is the baseline for slug auto-derivation: the last
	// value the machine itself wrote (or the slug fetched on edit).
	// Once the user edits the slug directly, slugDirty locks
	// derivation out until the draft is reset.
	lastAutoSlug string
	slugDirty    bool

	fetchSeq  int
	imageSeq  int
	submitSeq int
	pending   bool
}

// New returns an idle machine for the given entity configuration.
func New(cfg Config, deps Deps) *Machine {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	m := &Machine{cfg: cfg, deps: deps}
	m.resetDraft()
	return m
}

// setTarget writes the edit-target param. A failed persist only breaks
// the bookmarkable location, not the session, so it is logged.
func (m *Machine) setTarget(id string) {
	if err := m.deps.Target.Set(id); err != nil {
		m.deps.Log.WithError(err).WithField("param", m.cfg.TargetParam).Warn("target write failed")
	}
}

// invalidate marks a cache tag stale, logging a failed write.
func (m *Machine) invalidate(tag string) {
	if err := m.deps.Cache.Invalidate(tag); err != nil {
		m.deps.Log.WithError(err).WithField("tag", tag).Warn("cache invalidate failed")
	}
}

func (m *Machine) resetDraft() {
	m.draft = make(map[string]string, len(m.cfg.Defaults))
	for k, v := range m.cfg.Defaults {
		m.draft[k] = v
	}
	m.fieldErrs = make(map[string]string)
	m.preview = ""
	m.lastAutoSlug = ""
	m.slugDirty = false
}

// OpenCreate opens the add modal with a default draft. Slug derivation
// is armed.
func (m *Machine) OpenCreate() {
	m.Close()
	m.mode = ModeCreate
	m.state = StateCreating
	m.deps.Modals.Show(m.cfg.AddModal)
}

// OpenEdit sets the edit target, opens the edit modal and requests the
// record's current values. Returns false for an empty id.
func (m *Machine) OpenEdit(id string) (FetchRequest, bool) {
	if id == "" {
		return FetchRequest{}, false
	}
	m.Close()
	m.mode = ModeEdit
	m.state = StateLoading
	m.targetID = id
	m.setTarget(id)
	m.deps.Modals.Show(m.cfg.EditModal)
	m.fetchSeq++
	return FetchRequest{Seq: m.fetchSeq, ID: id}, true
}

// ResolveFetch delivers a detail-fetch result. Stale tokens — a newer
// OpenEdit or an intervening Close — are discarded so a late response
// can never repopulate an abandoned draft.
func (m *Machine) ResolveFetch(seq int, record map[string]any, err error) {
	if m.state != StateLoading || seq != m.fetchSeq {
		return
	}
	if err != nil {
		// Recoverable: the modal stays open in its loading state.
		m.deps.Notify.Error(errMessage(err, m.cfg.Messages.FetchFailed))
		return
	}
	if record == nil {
		// Terminal for this session: never leave a blank form open
		// against an id that no longer exists.
		m.deps.Notify.Error(m.cfg.Messages.NotFound)
		m.Close()
		return
	}

	m.resetDraft()
	for k, v := range m.cfg.FromRecord(record) {
		m.draft[k] = v
	}
	if m.cfg.ImageField != "" {
		m.preview = m.draft[m.cfg.ImageField]
	}
	if m.cfg.SlugField != "" {
		// The fetched slug becomes the new auto baseline: the name must
		// actually change again before derivation overwrites it.
		m.lastAutoSlug = m.draft[m.cfg.SlugField]
	}
	m.state = StateEditing
}

// RetryFetch re-requests the record after a fetch error.
func (m *Machine) RetryFetch() (FetchRequest, bool) {
	if m.state != StateLoading || m.targetID == "" {
		return FetchRequest{}, false
	}
	m.fetchSeq++
	return FetchRequest{Seq: m.fetchSeq, ID: m.targetID}, true
}

// SetField writes a draft field. Writing the slug field directly marks
// it user-dirty; writing the name field triggers slug auto-sync.
func (m *Machine) SetField(key, value string) {
	if m.state != StateCreating && m.state != StateEditing {
		return
	}
	m.draft[key] = value
	delete(m.fieldErrs, key)

	if m.cfg.SlugField != "" && key == m.cfg.SlugField {
		m.slugDirty = true
		return
	}
	if m.cfg.SlugField != "" && key == m.cfg.NameField {
		m.syncSlug(value)
	}
}

// syncSlug keeps the slug following the name while it has not been
// overridden by the user.
func (m *Machine) syncSlug(name string) {
	if m.slugDirty {
		return
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		// Only clear machine-generated values.
		if m.lastAutoSlug != "" {
			m.lastAutoSlug = ""
			m.draft[m.cfg.SlugField] = ""
		}
		return
	}

	// Mixed or unexpected scripts would derive nonsense.
	if !slug.IsPersian(trimmed) {
		return
	}

	generated := slug.Derive(trimmed)
	if generated == "" || generated == m.lastAutoSlug {
		return
	}
	m.lastAutoSlug = generated
	m.draft[m.cfg.SlugField] = generated
	delete(m.fieldErrs, m.cfg.SlugField)
}

// AttachImage requests conversion of the file at path into a data URL.
func (m *Machine) AttachImage(path string) (ImageRequest, bool) {
	if m.cfg.ImageField == "" {
		return ImageRequest{}, false
	}
	if m.state != StateCreating && m.state != StateEditing {
		return ImageRequest{}, false
	}
	m.imageSeq++
	return ImageRequest{Seq: m.imageSeq, Path: path}, true
}

// ResolveImage delivers an image conversion result. Failure leaves the
// draft's previous image untouched.
func (m *Machine) ResolveImage(seq int, dataURL string, err error) {
	if seq != m.imageSeq {
		return
	}
	if m.state != StateCreating && m.state != StateEditing {
		return
	}
	if err != nil {
		m.deps.Notify.Error(m.cfg.Messages.ImageFailed)
		return
	}
	m.draft[m.cfg.ImageField] = dataURL
	m.preview = dataURL
	delete(m.fieldErrs, m.cfg.ImageField)
}

// Submit validates the draft and, if it passes, requests the mutation.
// It is a guarded no-op while loading or while a mutation is pending,
// and in edit mode with an empty target.
func (m *Machine) Submit() (SubmitRequest, bool) {
	if m.state != StateCreating && m.state != StateEditing {
		return SubmitRequest{}, false
	}
	if m.pending {
		return SubmitRequest{}, false
	}
	if m.mode == ModeEdit && m.targetID == "" {
		return SubmitRequest{}, false
	}

	m.fieldErrs = m.cfg.Validate(m.draft)
	if len(m.fieldErrs) > 0 {
		return SubmitRequest{}, false
	}

	m.pending = true
	m.state = StateSubmitting
	m.submitSeq++
	return SubmitRequest{
		Seq:     m.submitSeq,
		Mode:    m.mode,
		ID:      m.targetID,
		Payload: m.cfg.ToPayload(m.draft),
	}, true
}

// ResolveSubmit delivers a mutation outcome. On success the list cache
// (and, for edits, the record's detail cache) is invalidated and the
// machine returns to idle; on failure the form re-enables with the
// user's values preserved.
func (m *Machine) ResolveSubmit(seq int, err error) {
	if !m.pending || seq != m.submitSeq {
		return
	}
	m.pending = false

	if err != nil {
		fallback := m.cfg.Messages.CreateFailed
		if m.mode == ModeEdit {
			fallback = m.cfg.Messages.UpdateFailed
		}
		m.deps.Notify.Error(errMessage(err, fallback))
		if m.mode == ModeEdit {
			m.state = StateEditing
		} else {
			m.state = StateCreating
		}
		return
	}

	if m.mode == ModeEdit {
		m.deps.Notify.Success(m.cfg.Messages.Updated)
		m.invalidate(m.cfg.DetailTag(m.targetID))
	} else {
		m.deps.Notify.Success(m.cfg.Messages.Created)
	}
	m.invalidate(m.cfg.ListTag)
	m.Close()
}

// Close resets the machine from any state: draft back to defaults,
// target cleared, both modals hidden. Sequence tokens advance so any
// in-flight response is abandoned.
func (m *Machine) Close() {
	m.resetDraft()
	m.targetID = ""
	m.setTarget("")
	m.deps.Modals.Hide(m.cfg.AddModal)
	m.deps.Modals.Hide(m.cfg.EditModal)
	m.state = StateIdle
	m.pending = false
	m.fetchSeq++
	m.imageSeq++
	m.submitSeq++
}

// State returns the current lifecycle state.
func (m *Machine) State() State { return m.state }

// Mode returns the current session mode.
func (m *Machine) Mode() Mode { return m.mode }

// TargetID returns the id of the record being edited, if any.
func (m *Machine) TargetID() string { return m.targetID }

// Pending reports whether a mutation is in flight.
func (m *Machine) Pending() bool { return m.pending }

// Draft returns the current value of one draft field.
func (m *Machine) Draft(key string) string { return m.draft[key] }

// FieldError returns the validation message for a field, if any.
func (m *Machine) FieldError(key string) string { return m.fieldErrs[key] }

// Errors returns a copy of all current validation messages.
func (m *Machine) Errors() map[string]string {
	out := make(map[string]string, len(m.fieldErrs))
	for k, v := range m.fieldErrs {
		out[k] = v
	}
	return out
}

// Preview returns the image preview value.
func (m *Machine) Preview() string { return m.preview }

// SlugDirty reports whether the slug has been user-overridden.
func (m *Machine) SlugDirty() bool { return m.slugDirty }

// Config returns the machine's entity configuration.
func (m *Machine) Config() Config { return m.cfg }

func errMessage(err error, fallback string) string {
	if err != nil && strings.TrimSpace(err.Error()) != "" {
		return err.Error()
	}
	return fallback
}
