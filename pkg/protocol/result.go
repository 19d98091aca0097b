// Package protocol defines the messages exchanged between the launcher host and its plugins.
//
// A plugin receives exactly one PluginAction on stdin and answers with a sequence of
// TUIResult on stdout. The binary representation lives in the wire subpackage.
package protocol

// TUIResult is one selectable entry returned by a plugin or a built-in.
type TUIResult struct {
	IconPath      *string
	Text          string
	SecondaryText *string
	// Action is nil for informational entries.
	Action Action
	// Info is opaque to the host. It is sent back verbatim as RunRequest.CustomAction
	// when an entry without an Action is selected.
	Info string
}

// NewResult creates a result with the given label and correlation info.
func NewResult(text, info string) TUIResult {
	return TUIResult{Text: text, Info: info}
}

// WithIconPath returns a copy of r with the icon path set.
func (r TUIResult) WithIconPath(path string) TUIResult {
	r.IconPath = &path
	return r
}

// WithSecondaryText returns a copy of r with the secondary text set.
func (r TUIResult) WithSecondaryText(text string) TUIResult {
	r.SecondaryText = &text
	return r
}

// WithAction returns a copy of r with the action set.
func (r TUIResult) WithAction(action Action) TUIResult {
	r.Action = action
	return r
}

// Actionable reports whether selecting r performs an action.
func (r TUIResult) Actionable() bool {
	return r.Action != nil
}

// SecondaryTextOr returns the secondary text, or fallback if unset.
func (r TUIResult) SecondaryTextOr(fallback string) string {
	if r.SecondaryText == nil {
		return fallback
	}
	return *r.SecondaryText
}
