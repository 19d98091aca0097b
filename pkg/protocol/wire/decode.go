package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/ayusman/tuicher/pkg/protocol"
)

// DecodeRequest decodes the request a plugin receives.
func DecodeRequest(data []byte) (protocol.PluginAction, error) {
	body, err := open(data, kindRequest)
	if err != nil {
		return nil, err
	}
	return decodeRequest(body)
}

// DecodeResults decodes the result sequence a host receives.
// An empty sequence decodes as nil.
func DecodeResults(data []byte) ([]protocol.TUIResult, error) {
	body, err := open(data, kindResults)
	if err != nil {
		return nil, err
	}
	return decodeResults(body, "results")
}

// DecodeAction decodes a single action written by EncodeAction.
func DecodeAction(data []byte) (protocol.Action, error) {
	body, err := open(data, kindAction)
	if err != nil {
		return nil, err
	}
	return decodeAction(body, "action")
}

// DecodeResult decodes a single result written by EncodeResult.
func DecodeResult(data []byte) (protocol.TUIResult, error) {
	body, err := open(data, kindResult)
	if err != nil {
		return protocol.TUIResult{}, err
	}
	return decodeResult(body, "result")
}

// open validates the envelope and returns its body. Truncated input and
// trailing bytes after the envelope are rejected by the CBOR decoder.
func open(data []byte, want messageKind) (any, error) {
	what := want.String()

	if len(data) == 0 {
		return nil, decodeErr(what, "empty message")
	}
	if len(data) > MaxMessageSize {
		return nil, decodeErr(what, "message size %d exceeds limit %d", len(data), MaxMessageSize)
	}

	var v any
	if err := decMode.Unmarshal(data, &v); err != nil {
		return nil, &DecodeError{What: what, Err: err}
	}

	tag, ok := v.(cbor.Tag)
	if !ok {
		return nil, decodeErr(what, "missing envelope, got %s", typeName(v))
	}
	if tag.Number != EnvelopeTag {
		return nil, decodeErr(what, "unexpected envelope tag %d", tag.Number)
	}

	fields, err := asArray(tag.Content, what+" envelope")
	if err != nil {
		return nil, err
	}
	if len(fields) != 3 {
		return nil, decodeErr(what, "envelope has %d fields, want 3", len(fields))
	}

	version, err := asUint(fields[0], what+" version")
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, decodeErr(what, "unsupported protocol version %d", version)
	}

	kind, err := asUint(fields[1], what+" kind")
	if err != nil {
		return nil, err
	}
	if messageKind(kind) != want {
		return nil, decodeErr(what, "expected %s message, got %s", want, messageKind(kind))
	}

	return fields[2], nil
}

func decodeRequest(v any) (protocol.PluginAction, error) {
	tag, fields, err := union(v, "request")
	if err != nil {
		return nil, err
	}

	switch protocol.RequestKind(tag) {
	case protocol.RequestKindResults:
		if err := arity(fields, 1, "request.results"); err != nil {
			return nil, err
		}
		text, err := asString(fields[0], "request.results.text")
		if err != nil {
			return nil, err
		}
		return protocol.ResultsRequest{Text: text}, nil

	case protocol.RequestKindRun:
		if err := arity(fields, 2, "request.run"); err != nil {
			return nil, err
		}
		custom, err := asString(fields[0], "request.run.custom_action")
		if err != nil {
			return nil, err
		}
		info, err := optStringSeq(fields[1], "request.run.info")
		if err != nil {
			return nil, err
		}
		return protocol.RunRequest{CustomAction: custom, Info: info}, nil

	default:
		return nil, decodeErr("request", "unknown request tag %d", tag)
	}
}

func decodeResults(v any, what string) ([]protocol.TUIResult, error) {
	items, err := asArray(v, what)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	results := make([]protocol.TUIResult, 0, len(items))
	for i, item := range items {
		r, err := decodeResult(item, fmt.Sprintf("%s[%d]", what, i))
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func decodeResult(v any, what string) (protocol.TUIResult, error) {
	fields, err := asArray(v, what)
	if err != nil {
		return protocol.TUIResult{}, err
	}
	if err := arity(fields, 5, what); err != nil {
		return protocol.TUIResult{}, err
	}

	var r protocol.TUIResult
	if r.IconPath, err = optString(fields[0], what+".icon_path"); err != nil {
		return protocol.TUIResult{}, err
	}
	if r.Text, err = asString(fields[1], what+".text"); err != nil {
		return protocol.TUIResult{}, err
	}
	if r.SecondaryText, err = optString(fields[2], what+".secondary_text"); err != nil {
		return protocol.TUIResult{}, err
	}
	if fields[3] != nil {
		if r.Action, err = decodeAction(fields[3], what+".action"); err != nil {
			return protocol.TUIResult{}, err
		}
	}
	if r.Info, err = asString(fields[4], what+".info"); err != nil {
		return protocol.TUIResult{}, err
	}
	return r, nil
}

func decodeAction(v any, what string) (protocol.Action, error) {
	tag, fields, err := union(v, what)
	if err != nil {
		return nil, err
	}

	switch kind := protocol.ActionKind(tag); kind {
	case protocol.ActionKindOpenApp, protocol.ActionKindOpenFile, protocol.ActionKindOpenURL,
		protocol.ActionKindCopyText, protocol.ActionKindCopyImage:
		if err := arity(fields, 1, what); err != nil {
			return nil, err
		}
		s, err := asString(fields[0], what+"."+kind.String())
		if err != nil {
			return nil, err
		}
		return stringAction(kind, s), nil

	case protocol.ActionKindShowResults:
		if err := arity(fields, 1, what); err != nil {
			return nil, err
		}
		results, err := decodeResults(fields[0], what+".results")
		if err != nil {
			return nil, err
		}
		return protocol.ShowResults{Results: results}, nil

	case protocol.ActionKindOpenSettings:
		if err := arity(fields, 0, what); err != nil {
			return nil, err
		}
		return protocol.OpenSettings{}, nil

	case protocol.ActionKindSession:
		if err := arity(fields, 1, what); err != nil {
			return nil, err
		}
		op, err := asUint(fields[0], what+".session")
		if err != nil {
			return nil, err
		}
		if op > uint64(protocol.SessionLogout) {
			return nil, decodeErr(what, "unknown session tag %d", op)
		}
		return protocol.Session{Op: protocol.SessionOp(op)}, nil

	case protocol.ActionKindBookmark:
		if err := arity(fields, 1, what); err != nil {
			return nil, err
		}
		change, err := decodeBookmarkChange(fields[0], what+".bookmark")
		if err != nil {
			return nil, err
		}
		return protocol.Bookmark{Change: change}, nil

	default:
		return nil, decodeErr(what, "unknown action tag %d", tag)
	}
}

func stringAction(kind protocol.ActionKind, s string) protocol.Action {
	switch kind {
	case protocol.ActionKindOpenApp:
		return protocol.OpenApp{Path: s}
	case protocol.ActionKindOpenFile:
		return protocol.OpenFile{Path: s}
	case protocol.ActionKindOpenURL:
		return protocol.OpenURL{URL: s}
	case protocol.ActionKindCopyText:
		return protocol.CopyText{Text: s}
	default:
		return protocol.CopyImage{Path: s}
	}
}

func decodeBookmarkChange(v any, what string) (protocol.BookmarkChange, error) {
	tag, fields, err := union(v, what)
	if err != nil {
		return nil, err
	}

	switch protocol.BookmarkOp(tag) {
	case protocol.BookmarkOpAdd:
		if err := arity(fields, 2, what+".add"); err != nil {
			return nil, err
		}
		name, err := asString(fields[0], what+".add.name")
		if err != nil {
			return nil, err
		}
		url, err := asString(fields[1], what+".add.url")
		if err != nil {
			return nil, err
		}
		return protocol.AddBookmark{Name: name, URL: url}, nil

	case protocol.BookmarkOpRemove:
		if err := arity(fields, 1, what+".remove"); err != nil {
			return nil, err
		}
		id, err := asUint(fields[0], what+".remove.id")
		if err != nil {
			return nil, err
		}
		return protocol.RemoveBookmark{ID: id}, nil

	default:
		return nil, decodeErr(what, "unknown bookmark tag %d", tag)
	}
}

// union splits a tagged-union array into its discriminant and fields.
func union(v any, what string) (uint64, []any, error) {
	items, err := asArray(v, what)
	if err != nil {
		return 0, nil, err
	}
	if len(items) == 0 {
		return 0, nil, decodeErr(what, "missing discriminant")
	}
	tag, err := asUint(items[0], what+" tag")
	if err != nil {
		return 0, nil, err
	}
	return tag, items[1:], nil
}

func arity(fields []any, want int, what string) error {
	if len(fields) != want {
		return decodeErr(what, "got %d fields, want %d", len(fields), want)
	}
	return nil
}

func asArray(v any, what string) ([]any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, decodeErr(what, "expected array, got %s", typeName(v))
	}
	return items, nil
}

func asString(v any, what string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", decodeErr(what, "expected text string, got %s", typeName(v))
	}
	return s, nil
}

func asUint(v any, what string) (uint64, error) {
	n, ok := v.(uint64)
	if !ok {
		return 0, decodeErr(what, "expected unsigned integer, got %s", typeName(v))
	}
	return n, nil
}

func optString(v any, what string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, err := asString(v, what)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func optStringSeq(v any, what string) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	items, err := asArray(v, what)
	if err != nil {
		return nil, err
	}
	ss := make([]string, len(items))
	for i, item := range items {
		if ss[i], err = asString(item, fmt.Sprintf("%s[%d]", what, i)); err != nil {
			return nil, err
		}
	}
	return ss, nil
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
