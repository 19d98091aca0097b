// Command echo is a minimal plugin: it shows the query as a copyable result
// and answers a run request with its info words.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ayusman/tuicher/pkg/pluginsdk"
	"github.com/ayusman/tuicher/pkg/protocol"
)

func main() {
	pluginsdk.Main(handle)
}

func handle(_ context.Context, req protocol.PluginAction) ([]protocol.TUIResult, error) {
	switch r := req.(type) {
	case protocol.ResultsRequest:
		if strings.TrimSpace(r.Text) == "" {
			return nil, nil
		}
		return []protocol.TUIResult{
			protocol.NewResult(r.Text, "copy").
				WithSecondaryText("Copy to clipboard").
				WithAction(protocol.CopyText{Text: r.Text}),
			protocol.NewResult("Echo back", "echo").
				WithSecondaryText("Ask the plugin to repeat the words"),
		}, nil
	case protocol.RunRequest:
		return []protocol.TUIResult{
			protocol.NewResult(strings.Join(r.Info, " "), r.CustomAction),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported request %T", req)
	}
}
