package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"clinicbook/internal/domain"
	"clinicbook/internal/ui/input/types"
)

// NormalMode handles tab switching and the list views
type NormalMode struct{}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true
	case tea.KeyTab:
		return []types.Action{types.SwitchTabAction{Delta: 1}}, true
	case tea.KeyShiftTab:
		return []types.Action{types.SwitchTabAction{Delta: -1}}, true
	}

	switch msg.String() {
	case "q":
		return []types.Action{types.QuitAction{}}, true
	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true
	case "1", "2", "3":
		tab := int(msg.String()[0] - '1')
		if tab >= ctx.TabCount() {
			return nil, false
		}
		return []types.Action{types.SwitchTabAction{Tab: tab}}, true
	}

	if ctx.OnListTab() {
		return m.handleListKey(msg, ctx)
	}
	return m.handleFormKey(msg, ctx)
}

func (m *NormalMode) handleListKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "up", "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case "down", "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case "left", "h":
		return []types.Action{types.PageAction{Direction: "prev"}}, true
	case "right", "l":
		return []types.Action{types.PageAction{Direction: "next"}}, true
	case "g", "home":
		return []types.Action{types.PageAction{Direction: "first"}}, true
	case "G", "end":
		return []types.Action{types.PageAction{Direction: "last"}}, true
	case ":":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeJump}}, true
	case "+", "=":
		return []types.Action{types.PageSizeAction{Delta: 1}}, true
	case "-":
		return []types.Action{types.PageSizeAction{Delta: -1}}, true
	case "r":
		return []types.Action{types.RefreshAction{}}, true
	}

	if !ctx.Filterable() {
		return nil, false
	}
	switch msg.String() {
	case "f":
		return []types.Action{types.FilterAction{Filter: domain.FilterAll}}, true
	case "t":
		return []types.Action{types.FilterAction{Filter: domain.FilterToday}}, true
	case "u":
		return []types.Action{types.FilterAction{Filter: domain.FilterUpcoming}}, true
	case "p":
		return []types.Action{types.FilterAction{Filter: domain.FilterPast}}, true
	}
	return nil, false
}

// handleFormKey covers the booking tab while no field is being edited
func (m *NormalMode) handleFormKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "enter", "i":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeForm}}, true
	case "ctrl+f":
		return []types.Action{types.FillSampleAction{}}, true
	case "ctrl+r":
		return []types.Action{types.ClearFormAction{}}, true
	case "ctrl+v":
		if ctx.HasResource() {
			return []types.Action{types.ViewResourceAction{}}, true
		}
	}
	return nil, false
}
