package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"clinicbook/internal/ui/input/types"
)

// FormMode handles the booking form while a field is being edited. Keys it
// leaves alone go to the focused field.
type FormMode struct{}

func NewFormMode() *FormMode {
	return &FormMode{}
}

func (m *FormMode) Name() string {
	return "form"
}

func (m *FormMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *FormMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *FormMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true
	case tea.KeyEsc:
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	case tea.KeyTab, tea.KeyDown:
		return []types.Action{types.FocusFieldAction{Delta: 1}}, true
	case tea.KeyShiftTab, tea.KeyUp:
		return []types.Action{types.FocusFieldAction{Delta: -1}}, true
	case tea.KeyLeft:
		if ctx.FocusedFieldIsSelect() {
			return []types.Action{types.CycleOptionAction{Delta: -1}}, true
		}
	case tea.KeyRight:
		if ctx.FocusedFieldIsSelect() {
			return []types.Action{types.CycleOptionAction{Delta: 1}}, true
		}
	case tea.KeyEnter:
		if ctx.Submitting() {
			return nil, true
		}
		return []types.Action{types.SubmitFormAction{}}, true
	case tea.KeyCtrlF:
		return []types.Action{types.FillSampleAction{}}, true
	case tea.KeyCtrlR:
		return []types.Action{types.ClearFormAction{}}, true
	case tea.KeyCtrlV:
		if ctx.HasResource() {
			return []types.Action{types.ViewResourceAction{}}, true
		}
		return nil, true
	}
	return nil, false
}
