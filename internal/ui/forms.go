package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type fieldSpec struct {
	label       string
	placeholder string
	limit       int
	password    bool
	value       string
}

// formFields is the focus ring of text inputs shared by the forms.
type formFields struct {
	labels  []string
	inputs  []textinput.Model
	focused int
}

func newFormFields(specs ...fieldSpec) formFields {
	f := formFields{
		labels: make([]string, len(specs)),
		inputs: make([]textinput.Model, len(specs)),
	}
	for i, s := range specs {
		in := textinput.New()
		in.Placeholder = s.placeholder
		in.CharLimit = s.limit
		if s.password {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		in.SetValue(s.value)
		f.labels[i] = s.label
		f.inputs[i] = in
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f *formFields) focus(i int) {
	f.inputs[f.focused].Blur()
	f.focused = i
	f.inputs[f.focused].Focus()
}

func (f *formFields) next() {
	f.focus((f.focused + 1) % len(f.inputs))
}

func (f *formFields) prev() {
	i := f.focused - 1
	if i < 0 {
		i = len(f.inputs) - 1
	}
	f.focus(i)
}

func (f *formFields) last() bool {
	return f.focused == len(f.inputs)-1
}

func (f *formFields) blur() {
	f.inputs[f.focused].Blur()
}

func (f *formFields) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

func (f *formFields) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *formFields) set(i int, v string) {
	f.inputs[i].SetValue(v)
}

// views renders every field; active marks the focused one.
func (f *formFields) views(active bool) []string {
	out := make([]string, len(f.inputs))
	for i := range f.inputs {
		out[i] = renderFormField(f.labels[i], f.inputs[i], active && i == f.focused)
	}
	return out
}
