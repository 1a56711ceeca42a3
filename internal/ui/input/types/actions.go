package types

import "clinicbook/internal/domain"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down"
}

func (a NavigateAction) Type() string { return "navigate" }

// PageAction moves between pages of the active list
type PageAction struct {
	Direction string // "first", "prev", "next", "last"
}

func (a PageAction) Type() string { return "page" }

type PageSizeAction struct {
	Delta int
}

func (a PageSizeAction) Type() string { return "page_size" }

type FilterAction struct {
	Filter domain.Filter
}

func (a FilterAction) Type() string { return "filter" }

type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

// SwitchTabAction selects a tab by index, or relative to the active one
// when Delta is non-zero
type SwitchTabAction struct {
	Tab   int
	Delta int
}

func (a SwitchTabAction) Type() string { return "switch_tab" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Form actions
type FocusFieldAction struct {
	Delta int
}

func (a FocusFieldAction) Type() string { return "focus_field" }

type CycleOptionAction struct {
	Delta int
}

func (a CycleOptionAction) Type() string { return "cycle_option" }

type SubmitFormAction struct{}

func (a SubmitFormAction) Type() string { return "submit_form" }

type FillSampleAction struct{}

func (a FillSampleAction) Type() string { return "fill_sample" }

type ClearFormAction struct{}

func (a ClearFormAction) Type() string { return "clear_form" }

type ViewResourceAction struct{}

func (a ViewResourceAction) Type() string { return "view_resource" }

// Other actions
type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
