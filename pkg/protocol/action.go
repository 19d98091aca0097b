package protocol

import "fmt"

// ActionKind is the wire discriminant of an Action.
// The numeric values are part of the wire format and must not be reordered.
type ActionKind uint8

const (
	ActionKindOpenApp ActionKind = iota
	ActionKindOpenFile
	ActionKindOpenURL
	ActionKindCopyText
	ActionKindCopyImage
	ActionKindShowResults
	ActionKindOpenSettings
	ActionKindSession
	ActionKindBookmark
)

var actionKindNames = [...]string{
	ActionKindOpenApp:      "open_app",
	ActionKindOpenFile:     "open_file",
	ActionKindOpenURL:      "open_url",
	ActionKindCopyText:     "copy_text",
	ActionKindCopyImage:    "copy_image",
	ActionKindShowResults:  "show_results",
	ActionKindOpenSettings: "open_settings",
	ActionKindSession:      "session",
	ActionKindBookmark:     "bookmark",
}

func (k ActionKind) String() string {
	if int(k) < len(actionKindNames) {
		return actionKindNames[k]
	}
	return fmt.Sprintf("action(%d)", uint8(k))
}

// Action describes the side effect performed when a result is selected.
type Action interface {
	Kind() ActionKind
	isAction()
}

// OpenApp launches the application at Path.
type OpenApp struct {
	Path string
}

// OpenFile opens Path with the default handler.
type OpenFile struct {
	Path string
}

// OpenURL opens URL in the default browser.
type OpenURL struct {
	URL string
}

// CopyText places Text on the clipboard.
type CopyText struct {
	Text string
}

// CopyImage places the image at Path on the clipboard.
type CopyImage struct {
	Path string
}

// ShowResults replaces the visible list with Results, allowing drill-down.
// An empty Results slice is sent as an empty sequence and decodes as nil.
type ShowResults struct {
	Results []TUIResult
}

// OpenSettings opens the launcher configuration.
type OpenSettings struct{}

// Session performs a session-manager operation.
type Session struct {
	Op SessionOp
}

// Bookmark changes the stored bookmark list.
type Bookmark struct {
	Change BookmarkChange
}

func (OpenApp) Kind() ActionKind      { return ActionKindOpenApp }
func (OpenFile) Kind() ActionKind     { return ActionKindOpenFile }
func (OpenURL) Kind() ActionKind      { return ActionKindOpenURL }
func (CopyText) Kind() ActionKind     { return ActionKindCopyText }
func (CopyImage) Kind() ActionKind    { return ActionKindCopyImage }
func (ShowResults) Kind() ActionKind  { return ActionKindShowResults }
func (OpenSettings) Kind() ActionKind { return ActionKindOpenSettings }
func (Session) Kind() ActionKind      { return ActionKindSession }
func (Bookmark) Kind() ActionKind     { return ActionKindBookmark }

func (OpenApp) isAction()      {}
func (OpenFile) isAction()     {}
func (OpenURL) isAction()      {}
func (CopyText) isAction()     {}
func (CopyImage) isAction()    {}
func (ShowResults) isAction()  {}
func (OpenSettings) isAction() {}
func (Session) isAction()      {}
func (Bookmark) isAction()     {}

// SessionOp selects a session-manager operation.
type SessionOp uint8

const (
	SessionShutdown SessionOp = iota
	SessionRestart
	SessionSuspend
	SessionLogout
)

// SessionOps lists every operation in wire order.
var SessionOps = []SessionOp{SessionShutdown, SessionRestart, SessionSuspend, SessionLogout}

func (op SessionOp) String() string {
	switch op {
	case SessionShutdown:
		return "Shutdown"
	case SessionRestart:
		return "Restart"
	case SessionSuspend:
		return "Suspend"
	case SessionLogout:
		return "Logout"
	default:
		return fmt.Sprintf("SessionOp(%d)", uint8(op))
	}
}

// Valid reports whether op is a known operation.
func (op SessionOp) Valid() bool {
	return op <= SessionLogout
}

// BookmarkOp is the wire discriminant of a BookmarkChange.
type BookmarkOp uint8

const (
	BookmarkOpAdd BookmarkOp = iota
	BookmarkOpRemove
)

// BookmarkChange is implemented by AddBookmark and RemoveBookmark.
type BookmarkChange interface {
	Op() BookmarkOp
	isBookmarkChange()
}

// AddBookmark stores a new bookmark.
type AddBookmark struct {
	Name string
	URL  string
}

// RemoveBookmark deletes the bookmark with the given ID.
type RemoveBookmark struct {
	ID uint64
}

func (AddBookmark) Op() BookmarkOp    { return BookmarkOpAdd }
func (RemoveBookmark) Op() BookmarkOp { return BookmarkOpRemove }

func (AddBookmark) isBookmarkChange()    {}
func (RemoveBookmark) isBookmarkChange() {}
