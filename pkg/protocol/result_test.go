package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_BuilderReturnsIndependentCopies(t *testing.T) {
	base := NewResult("Firefox", "firefox")
	first := base.WithSecondaryText("web browser")
	second := first.WithSecondaryText("something else")

	require.NotNil(t, first.SecondaryText)
	require.NotNil(t, second.SecondaryText)
	assert.Equal(t, "web browser", *first.SecondaryText)
	assert.Equal(t, "something else", *second.SecondaryText)
	assert.Nil(t, base.SecondaryText)
}

func TestResult_BuilderChain(t *testing.T) {
	r := NewResult("Docs", "docs").
		WithIconPath("/usr/share/icons/docs.png").
		WithSecondaryText("open the docs").
		WithAction(OpenURL{URL: "https://go.dev/doc"})

	assert.Equal(t, "Docs", r.Text)
	assert.Equal(t, "docs", r.Info)
	assert.Equal(t, "/usr/share/icons/docs.png", *r.IconPath)
	assert.Equal(t, "open the docs", r.SecondaryTextOr(""))
	assert.True(t, r.Actionable())
	assert.Equal(t, ActionKindOpenURL, r.Action.Kind())
}

func TestResult_NotActionableByDefault(t *testing.T) {
	r := NewResult("info only", "")

	assert.False(t, r.Actionable())
	assert.Equal(t, "fallback", r.SecondaryTextOr("fallback"))
}

func TestActionKind_String(t *testing.T) {
	assert.Equal(t, "open_app", ActionKindOpenApp.String())
	assert.Equal(t, "bookmark", ActionKindBookmark.String())
	assert.Equal(t, "action(42)", ActionKind(42).String())
}

func TestAction_Kinds(t *testing.T) {
	actions := []Action{
		OpenApp{}, OpenFile{}, OpenURL{}, CopyText{}, CopyImage{},
		ShowResults{}, OpenSettings{}, Session{}, Bookmark{},
	}
	for i, a := range actions {
		assert.Equal(t, ActionKind(i), a.Kind())
	}
}

func TestSessionOp(t *testing.T) {
	assert.Equal(t, "Suspend", SessionSuspend.String())
	assert.True(t, SessionLogout.Valid())
	assert.False(t, SessionOp(9).Valid())
	assert.Len(t, SessionOps, 4)
}

func TestRequestKind(t *testing.T) {
	var req PluginAction = RunRequest{CustomAction: "volume-up"}
	assert.Equal(t, RequestKindRun, req.Kind())
	assert.Equal(t, "results", ResultsRequest{}.Kind().String())
}
