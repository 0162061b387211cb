package dashboard

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nobatyar/nobat/internal/editor"
	"github.com/nobatyar/nobat/internal/models"
)

// fieldSpec describes one form input.
type fieldSpec struct {
	key       string
	label     string
	multiline bool
	// pathInput marks a file-path input: its text is a local path, not a
	// draft value, and enter triggers the data-URL conversion.
	pathInput bool
}

// formSpecs returns the input layout for an entity kind.
func formSpecs(kind string) []fieldSpec {
	switch kind {
	case models.TableCategory:
		return []fieldSpec{
			{key: "name", label: "نام"},
			{key: "slug", label: "اسلاگ"},
			{key: "image", label: "مسیر تصویر", pathInput: true},
		}
	case models.TableDoctor:
		return []fieldSpec{
			{key: "full_name", label: "نام و نام خانوادگی"},
			{key: "slug", label: "اسلاگ"},
			{key: "image", label: "مسیر تصویر", pathInput: true},
			{key: "medical_code", label: "کد نظام پزشکی"},
			{key: "category_id", label: "شناسه دسته‌بندی"},
			{key: "description", label: "توضیحات", multiline: true},
			{key: "documents", label: "مدارک (هر خط یک مورد)", multiline: true},
		}
	default:
		return nil
	}
}

// formInput is one rendered input, either a textinput or a textarea.
type formInput struct {
	spec fieldSpec
	text textinput.Model
	area textarea.Model
}

func (f *formInput) value() string {
	if f.spec.multiline {
		return f.area.Value()
	}
	return f.text.Value()
}

func (f *formInput) setValue(v string) {
	if f.spec.multiline {
		f.area.SetValue(v)
	} else {
		f.text.SetValue(v)
	}
}

func (f *formInput) focus() tea.Cmd {
	if f.spec.multiline {
		return f.area.Focus()
	}
	return f.text.Focus()
}

func (f *formInput) blur() {
	if f.spec.multiline {
		f.area.Blur()
	} else {
		f.text.Blur()
	}
}

func (f *formInput) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.spec.multiline {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.text, cmd = f.text.Update(msg)
	}
	return cmd
}

// formState holds the inputs of the open add/edit modal. Every keystroke
// flows into the machine via SetField, so slug derivation happens live.
type formState struct {
	kind   string
	inputs []formInput
	focus  int
}

// newFormState builds the form for a machine's current draft and focuses
// the first input.
func newFormState(machine *editor.Machine) *formState {
	specs := formSpecs(machine.Config().Kind)
	fs := &formState{kind: machine.Config().Kind}

	for _, spec := range specs {
		in := formInput{spec: spec}
		if spec.multiline {
			in.area = textarea.New()
			in.area.SetHeight(3)
			in.area.CharLimit = 0
			in.area.SetValue(machine.Draft(spec.key))
		} else {
			in.text = textinput.New()
			in.text.CharLimit = 256
			if !spec.pathInput {
				in.text.SetValue(machine.Draft(spec.key))
			}
		}
		fs.inputs = append(fs.inputs, in)
	}
	if len(fs.inputs) > 0 {
		fs.inputs[0].focus()
	}
	return fs
}

// focused returns the input holding focus.
func (fs *formState) focused() *formInput {
	if fs.focus < 0 || fs.focus >= len(fs.inputs) {
		return nil
	}
	return &fs.inputs[fs.focus]
}

// next moves focus forward, wrapping.
func (fs *formState) next() tea.Cmd {
	return fs.moveFocus(1)
}

// prev moves focus backward, wrapping.
func (fs *formState) prev() tea.Cmd {
	return fs.moveFocus(-1)
}

func (fs *formState) moveFocus(delta int) tea.Cmd {
	if len(fs.inputs) == 0 {
		return nil
	}
	if in := fs.focused(); in != nil {
		in.blur()
	}
	fs.focus = (fs.focus + delta + len(fs.inputs)) % len(fs.inputs)
	return fs.focused().focus()
}

// syncFromDraft copies machine draft values into every input except the
// focused one, so slug derivation shows up while the user is still
// typing the name. Path inputs keep their local path text.
func (fs *formState) syncFromDraft(machine *editor.Machine) {
	for i := range fs.inputs {
		in := &fs.inputs[i]
		if i == fs.focus || in.spec.pathInput {
			continue
		}
		if v := machine.Draft(in.spec.key); v != in.value() {
			in.setValue(v)
		}
	}
}

// handleKey feeds a keystroke to the focused input and pushes the new
// value into the machine.
func (fs *formState) handleKey(msg tea.KeyMsg, machine *editor.Machine) tea.Cmd {
	in := fs.focused()
	if in == nil {
		return nil
	}

	cmd := in.update(msg)
	if !in.spec.pathInput {
		machine.SetField(in.spec.key, in.value())
		fs.syncFromDraft(machine)
	}
	return cmd
}
