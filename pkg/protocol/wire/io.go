package wire

import (
	"fmt"
	"io"

	"github.com/ayusman/tuicher/pkg/protocol"
)

// ReadAll reads r to exhaustion, refusing to buffer more than MaxMessageSize bytes.
func ReadAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxMessageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxMessageSize {
		return nil, fmt.Errorf("message exceeds limit %d", MaxMessageSize)
	}
	return data, nil
}

// ReadRequest reads a whole stream and decodes it as a request.
func ReadRequest(r io.Reader) (protocol.PluginAction, error) {
	data, err := ReadAll(r)
	if err != nil {
		return nil, &DecodeError{What: kindRequest.String(), Reason: "read failed", Err: err}
	}
	return DecodeRequest(data)
}

// ReadResults reads a whole stream and decodes it as a result sequence.
func ReadResults(r io.Reader) ([]protocol.TUIResult, error) {
	data, err := ReadAll(r)
	if err != nil {
		return nil, &DecodeError{What: kindResults.String(), Reason: "read failed", Err: err}
	}
	return DecodeResults(data)
}

// WriteRequest encodes req and writes it to w in full.
func WriteRequest(w io.Writer, req protocol.PluginAction) error {
	data, err := EncodeRequest(req)
	if err != nil {
		return err
	}
	return writeFull(w, data)
}

// WriteResults encodes results and writes them to w in full.
func WriteResults(w io.Writer, results []protocol.TUIResult) error {
	data, err := EncodeResults(results)
	if err != nil {
		return err
	}
	return writeFull(w, data)
}

func writeFull(w io.Writer, data []byte) error {
	n, err := w.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("failed to write message: %w", io.ErrShortWrite)
	}
	return nil
}
