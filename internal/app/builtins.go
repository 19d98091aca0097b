package app

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yuin/goldmark-emoji/definition"

	"github.com/ayusman/tuicher/internal/config"
	"github.com/ayusman/tuicher/pkg/protocol"
	"github.com/ayusman/tuicher/pkg/query"
)

var emojis = definition.Github()

var sessionDescriptions = map[protocol.SessionOp]string{
	protocol.SessionShutdown: "Power off the machine",
	protocol.SessionRestart:  "Reboot the machine",
	protocol.SessionSuspend:  "Suspend to RAM",
	protocol.SessionLogout:   "End the current session",
}

// builtin answers keywords owned by the launcher itself.
func builtin(settings *config.Config, keyword string, q query.Query) ([]protocol.TUIResult, bool) {
	switch {
	case settings.EnableBookmarks && keyword == settings.BookmarksKeyword:
		return bookmarkResults(settings, q.Tokens()), true
	case settings.EnableSessionManager && keyword == settings.SessionManagerKeyword:
		return sessionResults(q.GetQuery()), true
	case settings.EnableEmojis && keyword == settings.EmojisKeyword:
		return emojiResults(q.Tokens()), true
	}
	return nil, false
}

func bookmarkResults(settings *config.Config, tokens []string) []protocol.TUIResult {
	if len(tokens) > 0 {
		switch tokens[0] {
		case "add":
			return addBookmarkResults(tokens[1:])
		case "remove":
			return removeBookmarkResults(settings, strings.Join(tokens[1:], " "))
		}
	}

	filter := strings.Join(tokens, " ")
	var results []protocol.TUIResult
	for _, b := range settings.Bookmarks {
		if !matches(filter, b.Name, b.URL) {
			continue
		}
		r := protocol.NewResult(b.Name, fmt.Sprint(b.ID)).
			WithSecondaryText(b.URL).
			WithAction(protocol.OpenURL{URL: b.URL})
		if settings.ShowBookmarksFavicon {
			if icon := faviconURL(b.URL); icon != "" {
				r = r.WithIconPath(icon)
			}
		}
		results = append(results, r)
	}

	if len(results) == 0 {
		return []protocol.TUIResult{protocol.NewResult("No bookmarks found", "").
			WithSecondaryText(fmt.Sprintf("Add one with: %s add <name> <url>", settings.BookmarksKeyword))}
	}
	return results
}

func addBookmarkResults(args []string) []protocol.TUIResult {
	if len(args) < 2 {
		return []protocol.TUIResult{protocol.NewResult("Add bookmark", "").
			WithSecondaryText("Usage: add <name> <url>")}
	}

	name := strings.Join(args[:len(args)-1], " ")
	link := args[len(args)-1]
	return []protocol.TUIResult{
		protocol.NewResult("Add bookmark "+name, "add").
			WithSecondaryText(link).
			WithAction(protocol.Bookmark{Change: protocol.AddBookmark{Name: name, URL: link}}),
	}
}

func removeBookmarkResults(settings *config.Config, filter string) []protocol.TUIResult {
	var results []protocol.TUIResult
	for _, b := range settings.Bookmarks {
		if !matches(filter, b.Name, b.URL) {
			continue
		}
		results = append(results, protocol.NewResult("Remove "+b.Name, fmt.Sprint(b.ID)).
			WithSecondaryText(b.URL).
			WithAction(protocol.Bookmark{Change: protocol.RemoveBookmark{ID: b.ID}}))
	}

	if len(results) == 0 {
		return []protocol.TUIResult{protocol.NewResult("No bookmarks to remove", "")}
	}
	return results
}

func sessionResults(filter string) []protocol.TUIResult {
	var results []protocol.TUIResult
	for _, op := range protocol.SessionOps {
		if !matches(filter, op.String()) {
			continue
		}
		results = append(results, protocol.NewResult(op.String(), strings.ToLower(op.String())).
			WithSecondaryText(sessionDescriptions[op]).
			WithAction(protocol.Session{Op: op}))
	}
	return results
}

func emojiResults(names []string) []protocol.TUIResult {
	var results []protocol.TUIResult
	for _, name := range names {
		short := strings.Trim(strings.ToLower(name), ":")
		e, ok := emojis.Get(short)
		if !ok {
			continue
		}
		glyph := string(e.Unicode)
		results = append(results, protocol.NewResult(glyph, short).
			WithSecondaryText(":"+short+":").
			WithAction(protocol.CopyText{Text: glyph}))
	}

	if len(results) == 0 {
		return []protocol.TUIResult{protocol.NewResult("No matching emoji", "").
			WithSecondaryText("Type a shortname such as rocket or +1")}
	}
	return results
}

// matches reports whether any field contains filter, ignoring case. An empty filter matches everything.
func matches(filter string, fields ...string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), filter) {
			return true
		}
	}
	return false
}

func faviconURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/favicon.ico"
}
