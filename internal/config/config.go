// Package config holds the persisted launcher settings and the providers that load and save them.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrBookmarkNotFound is returned when a bookmark ID does not exist.
var ErrBookmarkNotFound = errors.New("bookmark not found")

// Config is the launcher configuration stored as JSON.
type Config struct {
	Plugins               []PluginConfig   `json:"plugins"`
	SearchEngines         []SearchEngine   `json:"search_engines"`
	Theme                 Theme            `json:"theme"`
	Height                int              `json:"height"`
	Width                 int              `json:"width"`
	DefaultSearchEngine   int              `json:"default_search_engine"`
	Bookmarks             []BookmarkConfig `json:"bookmarks"`
	EmojisKeyword         string           `json:"emojis_keyword"`
	EnableEmojis          bool             `json:"enable_emojis"`
	BookmarksKeyword      string           `json:"bookmarks_keyword"`
	EnableBookmarks       bool             `json:"enable_bookmarks"`
	SessionManagerKeyword string           `json:"session_manager_keyword"`
	EnableSessionManager  bool             `json:"enable_session_manager"`
	ShowBookmarksFavicon  bool             `json:"show_bookmarks_favicon"`
}

// PluginConfig registers an external plugin under a keyword.
type PluginConfig struct {
	ID      string `json:"id"`
	Keyword string `json:"keyword"`
}

// SearchEngine is a web search reachable by keyword. URL contains a %s placeholder.
type SearchEngine struct {
	ID      int    `json:"id"`
	Keyword string `json:"keyword"`
	Name    string `json:"name"`
	URL     string `json:"url"`
}

// Theme is the color palette used by the renderer.
type Theme struct {
	Background    string `json:"background"`
	Secondary     string `json:"secondary"`
	Tertiary      string `json:"tertiary"`
	Disabled      string `json:"disabled"`
	Text          string `json:"text"`
	TextSecondary string `json:"text_secondary"`
	TextTertiary  string `json:"text_tertiary"`
	OnText        string `json:"on_text"`
	Warning       string `json:"warning"`
}

// BookmarkConfig is a saved URL.
type BookmarkConfig struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		Plugins: []PluginConfig{},
		SearchEngines: []SearchEngine{
			{ID: 0, Keyword: "ec", Name: "Ecosia", URL: "https://www.ecosia.org/search?method=index&q=%s"},
			{ID: 1, Keyword: "gs", Name: "Google", URL: "https://www.google.com/search?q=%s"},
			{ID: 2, Keyword: "ds", Name: "DuckDuckGo", URL: "https://duckduckgo.com/?q=%s"},
		},
		Theme:                 DefaultTheme(),
		Height:                800,
		Width:                 900,
		DefaultSearchEngine:   0,
		Bookmarks:             []BookmarkConfig{},
		EmojisKeyword:         "em",
		EnableEmojis:          true,
		BookmarksKeyword:      "bm",
		EnableBookmarks:       true,
		SessionManagerKeyword: "sm",
		EnableSessionManager:  true,
		ShowBookmarksFavicon:  true,
	}
}

// DefaultTheme returns the built-in dark palette.
func DefaultTheme() Theme {
	return Theme{
		Background:    "#141414",
		Secondary:     "#1F1F1F",
		Tertiary:      "#383838",
		Disabled:      "#1F1F1F",
		Text:          "#F2F2F2",
		TextSecondary: "#E5E5E5",
		TextTertiary:  "#C2C2C2",
		OnText:        "#000000",
		Warning:       "#FFAD72",
	}
}

// Validate checks constraints the JSON schema cannot express.
func (c *Config) Validate() error {
	if len(c.SearchEngines) > 0 && (c.DefaultSearchEngine < 0 || c.DefaultSearchEngine >= len(c.SearchEngines)) {
		return fmt.Errorf("default_search_engine %d out of range for %d search engines", c.DefaultSearchEngine, len(c.SearchEngines))
	}

	seen := make(map[string]string)
	for _, p := range c.Plugins {
		if owner, ok := seen[p.Keyword]; ok {
			return fmt.Errorf("plugin %q keyword %q already used by %q", p.ID, p.Keyword, owner)
		}
		seen[p.Keyword] = p.ID
	}

	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Plugins = append([]PluginConfig(nil), c.Plugins...)
	out.SearchEngines = append([]SearchEngine(nil), c.SearchEngines...)
	out.Bookmarks = append([]BookmarkConfig(nil), c.Bookmarks...)
	return &out
}

// DefaultEngine returns the configured fallback search engine.
func (c *Config) DefaultEngine() (SearchEngine, bool) {
	if c.DefaultSearchEngine < 0 || c.DefaultSearchEngine >= len(c.SearchEngines) {
		return SearchEngine{}, false
	}
	return c.SearchEngines[c.DefaultSearchEngine], true
}

// EngineByKeyword finds a search engine by its keyword.
func (c *Config) EngineByKeyword(keyword string) (SearchEngine, bool) {
	for _, e := range c.SearchEngines {
		if e.Keyword == keyword {
			return e, true
		}
	}
	return SearchEngine{}, false
}

// AddBookmark appends a bookmark with the next free ID and returns it.
func (c *Config) AddBookmark(name, rawURL string) BookmarkConfig {
	var next uint64
	for _, b := range c.Bookmarks {
		if b.ID >= next {
			next = b.ID + 1
		}
	}

	b := BookmarkConfig{ID: next, Name: name, URL: rawURL}
	c.Bookmarks = append(c.Bookmarks, b)
	return b
}

// RemoveBookmark deletes the bookmark with the given ID.
func (c *Config) RemoveBookmark(id uint64) (BookmarkConfig, error) {
	for i, b := range c.Bookmarks {
		if b.ID == id {
			c.Bookmarks = append(c.Bookmarks[:i:i], c.Bookmarks[i+1:]...)
			return b, nil
		}
	}
	return BookmarkConfig{}, fmt.Errorf("%w: %d", ErrBookmarkNotFound, id)
}

// SearchURL fills the engine's placeholder with the escaped query.
func (e SearchEngine) SearchURL(query string) string {
	return strings.ReplaceAll(e.URL, "%s", url.QueryEscape(query))
}
