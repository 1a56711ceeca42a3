package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"clinicbook/internal/ui/input/modes"
	"clinicbook/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // Shared text input for text modes
}

func New() *Handler {
	ti := textinput.New()
	ti.CharLimit = 6

	h := &Handler{
		currentMode: types.ModeNormal,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	h.modes[types.ModeNormal] = modes.NewNormalMode()
	h.modes[types.ModeJump] = modes.NewJumpMode(h.textInput)
	h.modes[types.ModeForm] = modes.NewFormMode()

	return h
}

// HandleKey routes msg to the current mode. handled is false when neither the
// mode nor the shared text input used the key, so the caller may pass it on.
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) (actions []types.Action, cmd tea.Cmd, handled bool) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil, false
	}

	modeActions, consumed := handler.HandleKey(msg, ctx)
	if !consumed && !h.isTextMode(h.currentMode) {
		return nil, nil, false
	}

	for _, action := range modeActions {
		changeMode, ok := action.(types.ChangeModeAction)
		if !ok {
			actions = append(actions, action)
			continue
		}
		if enterCmd := h.switchMode(changeMode.Mode, ctx, &actions); enterCmd != nil {
			cmd = enterCmd
		}
		// keep the transition visible to the model
		actions = append(actions, changeMode)
	}

	if h.isTextMode(h.currentMode) && !consumed {
		var textCmd tea.Cmd
		*h.textInput, textCmd = h.textInput.Update(msg)
		cmd = textCmd
		actions = append(actions, types.UpdateTextAction{Text: h.textInput.Value()})
	}

	return actions, cmd, true
}

func (h *Handler) switchMode(mode types.Mode, ctx types.Context, actions *[]types.Action) tea.Cmd {
	if h.modes[h.currentMode] != nil {
		*actions = append(*actions, h.modes[h.currentMode].Exit(ctx)...)
	}

	oldMode := h.currentMode
	h.currentMode = mode

	if h.modes[h.currentMode] != nil {
		*actions = append(*actions, h.modes[h.currentMode].Enter(ctx)...)
	}

	if h.isTextMode(h.currentMode) {
		h.textInput.Reset()
		h.textInput.Focus()
		return textinput.Blink
	} else if h.isTextMode(oldMode) {
		h.textInput.Blur()
	}
	return nil
}

// ChangeMode switches mode outside of key handling, e.g. on a tab change
func (h *Handler) ChangeMode(mode types.Mode, ctx types.Context) []types.Action {
	if mode == h.currentMode {
		return nil
	}
	var actions []types.Action
	h.switchMode(mode, ctx, &actions)
	return actions
}

func (h *Handler) CurrentMode() types.Mode {
	if h == nil {
		return types.ModeNormal
	}
	return h.currentMode
}

// ModeName returns the display name of the current mode
func (h *Handler) ModeName() string {
	if m := h.modes[h.currentMode]; m != nil {
		return m.Name()
	}
	return ""
}

// Prompt returns the prompt of the current text mode, or ""
func (h *Handler) Prompt() string {
	if p, ok := h.modes[h.currentMode].(interface{ Prompt() string }); ok {
		return p.Prompt()
	}
	return ""
}

// TextInput returns the shared text input while a text mode is active
func (h *Handler) TextInput() *textinput.Model {
	if h.isTextMode(h.currentMode) {
		return h.textInput
	}
	return nil
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	return mode == types.ModeJump
}

func (h *Handler) Reset() {
	h.currentMode = types.ModeNormal
	h.textInput.Reset()
	h.textInput.Blur()
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.isTextMode(h.currentMode) {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}
