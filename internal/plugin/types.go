// Package plugin routes keywords to plugin executables and runs one request/response exchange per invocation.
package plugin

// Plugin is a registered plugin executable.
type Plugin struct {
	ID         string
	Keyword    string
	Dir        string // working directory for the process
	Executable string
}
