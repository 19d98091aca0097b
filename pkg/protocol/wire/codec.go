// Package wire implements the binary encoding of plugin requests and results.
//
// Every top-level message is a CBOR tag EnvelopeTag wrapping [version, kind, body].
// Inside the body, tagged unions are arrays of [discriminant, fields...] in declaration
// order, structs are arrays of their fields, optional values are null when absent,
// and sequences are arrays. Encoding is deterministic.
package wire

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"

	"github.com/ayusman/tuicher/pkg/protocol"
)

const (
	// EnvelopeTag is the CBOR tag number that marks a tuicher message ("tuic").
	EnvelopeTag uint64 = 0x74756963

	// Version is the wire format revision written into every envelope.
	Version uint64 = 1
)

// messageKind distinguishes the top-level payload so a response can never be
// decoded as a request.
type messageKind uint64

const (
	kindRequest messageKind = iota
	kindResults
	kindAction
	kindResult
)

func (k messageKind) String() string {
	switch k {
	case kindRequest:
		return "request"
	case kindResults:
		return "results"
	case kindAction:
		return "action"
	case kindResult:
		return "result"
	default:
		return fmt.Sprintf("kind(%d)", uint64(k))
	}
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to build encode mode: %v", err))
	}

	decMode, err = cbor.DecOptions{
		MaxNestedLevels: maxNestedLevels,
		IndefLength:     cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to build decode mode: %v", err))
	}
}

// EncodeRequest encodes the request a host sends to a plugin.
func EncodeRequest(req protocol.PluginAction) ([]byte, error) {
	body, err := encodeRequest(req)
	if err != nil {
		return nil, err
	}
	return seal(kindRequest, body)
}

// EncodeResults encodes the result sequence a plugin sends back.
// An empty sequence decodes as nil.
func EncodeResults(results []protocol.TUIResult) ([]byte, error) {
	body, err := encodeResults(results, "results")
	if err != nil {
		return nil, err
	}
	return seal(kindResults, body)
}

// EncodeAction encodes a single action.
func EncodeAction(action protocol.Action) ([]byte, error) {
	if action == nil {
		return nil, encodeErr("action", "nil action")
	}
	body, err := encodeAction(action, "action")
	if err != nil {
		return nil, err
	}
	return seal(kindAction, body)
}

// EncodeResult encodes a single result.
func EncodeResult(result protocol.TUIResult) ([]byte, error) {
	body, err := encodeResult(result, "result")
	if err != nil {
		return nil, err
	}
	return seal(kindResult, body)
}

func seal(kind messageKind, body any) ([]byte, error) {
	data, err := encMode.Marshal(cbor.Tag{
		Number:  EnvelopeTag,
		Content: []any{Version, uint64(kind), body},
	})
	if err != nil {
		return nil, &EncodeError{What: kind.String(), Err: err}
	}

	if len(data) > MaxMessageSize {
		return nil, encodeErr(kind.String(), "message size %d exceeds limit %d", len(data), MaxMessageSize)
	}

	return data, nil
}

func encodeRequest(req protocol.PluginAction) (any, error) {
	switch r := req.(type) {
	case protocol.ResultsRequest:
		if err := checkText("request.results.text", r.Text); err != nil {
			return nil, err
		}
		return []any{uint64(protocol.RequestKindResults), r.Text}, nil

	case protocol.RunRequest:
		if err := checkText("request.run.custom_action", r.CustomAction); err != nil {
			return nil, err
		}
		if err := checkTextSeq("request.run.info", r.Info); err != nil {
			return nil, err
		}
		var info any
		if r.Info != nil {
			info = stringSeq(r.Info)
		}
		return []any{uint64(protocol.RequestKindRun), r.CustomAction, info}, nil

	case nil:
		return nil, encodeErr("request", "nil request")

	default:
		return nil, encodeErr("request", "unsupported request type %T", req)
	}
}

func encodeResults(results []protocol.TUIResult, what string) (any, error) {
	seq := make([]any, 0, len(results))
	for i, r := range results {
		v, err := encodeResult(r, fmt.Sprintf("%s[%d]", what, i))
		if err != nil {
			return nil, err
		}
		seq = append(seq, v)
	}
	return seq, nil
}

func encodeResult(r protocol.TUIResult, what string) (any, error) {
	if err := checkText(what+".text", r.Text); err != nil {
		return nil, err
	}
	if err := checkOptText(what+".icon_path", r.IconPath); err != nil {
		return nil, err
	}
	if err := checkOptText(what+".secondary_text", r.SecondaryText); err != nil {
		return nil, err
	}
	if err := checkText(what+".info", r.Info); err != nil {
		return nil, err
	}

	var action any
	if r.Action != nil {
		a, err := encodeAction(r.Action, what+".action")
		if err != nil {
			return nil, err
		}
		action = a
	}

	return []any{
		nullable(r.IconPath),
		r.Text,
		nullable(r.SecondaryText),
		action,
		r.Info,
	}, nil
}

func encodeAction(action protocol.Action, what string) (any, error) {
	tag := uint64(action.Kind())

	switch a := action.(type) {
	case protocol.OpenApp:
		return textAction(tag, what+".path", a.Path)
	case protocol.OpenFile:
		return textAction(tag, what+".path", a.Path)
	case protocol.OpenURL:
		return textAction(tag, what+".url", a.URL)
	case protocol.CopyText:
		return textAction(tag, what+".text", a.Text)
	case protocol.CopyImage:
		return textAction(tag, what+".path", a.Path)

	case protocol.ShowResults:
		results, err := encodeResults(a.Results, what+".results")
		if err != nil {
			return nil, err
		}
		return []any{tag, results}, nil

	case protocol.OpenSettings:
		return []any{tag}, nil

	case protocol.Session:
		if !a.Op.Valid() {
			return nil, encodeErr(what, "unknown session op %d", uint8(a.Op))
		}
		return []any{tag, uint64(a.Op)}, nil

	case protocol.Bookmark:
		change, err := encodeBookmarkChange(a.Change, what+".change")
		if err != nil {
			return nil, err
		}
		return []any{tag, change}, nil

	default:
		return nil, encodeErr(what, "unsupported action type %T", action)
	}
}

func encodeBookmarkChange(change protocol.BookmarkChange, what string) (any, error) {
	switch c := change.(type) {
	case protocol.AddBookmark:
		if err := checkText(what+".name", c.Name); err != nil {
			return nil, err
		}
		if err := checkText(what+".url", c.URL); err != nil {
			return nil, err
		}
		return []any{uint64(protocol.BookmarkOpAdd), c.Name, c.URL}, nil
	case protocol.RemoveBookmark:
		return []any{uint64(protocol.BookmarkOpRemove), c.ID}, nil
	case nil:
		return nil, encodeErr(what, "nil bookmark change")
	default:
		return nil, encodeErr(what, "unsupported bookmark change type %T", change)
	}
}

func textAction(tag uint64, what, s string) (any, error) {
	if err := checkText(what, s); err != nil {
		return nil, err
	}
	return []any{tag, s}, nil
}

// checkText rejects strings the decoder would refuse. CBOR text strings must be valid UTF-8.
func checkText(what, s string) error {
	if !utf8.ValidString(s) {
		return encodeErr(what, "invalid UTF-8 %q", s)
	}
	return nil
}

func checkTextSeq(what string, ss []string) error {
	for i, s := range ss {
		if err := checkText(fmt.Sprintf("%s[%d]", what, i), s); err != nil {
			return err
		}
	}
	return nil
}

func checkOptText(what string, s *string) error {
	if s == nil {
		return nil
	}
	return checkText(what, *s)
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringSeq(ss []string) []any {
	seq := make([]any, len(ss))
	for i, s := range ss {
		seq[i] = s
	}
	return seq
}

// IsDecodeError reports whether err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
