package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// CodecName is registered in place of Connect's protobuf JSON codec, so
// requests use Content-Type application/json.
const CodecName = "json"

// Codec marshals messages with encoding/json. Unknown request fields are
// rejected.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	return nil
}
