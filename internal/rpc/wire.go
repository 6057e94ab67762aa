package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/decide-lab/launch-interceptor/internal/input"
)

// #region messages
// evaluateReply is the Evaluate response document.
type evaluateReply struct {
	input.ResultDocument
	RunID string `json:"run_id,omitempty"`
}

type batchRequest struct {
	Inputs []input.Document `json:"inputs"`
}

type batchReply struct {
	Outcomes []batchOutcome `json:"outcomes"`
}

// batchOutcome carries either a result or the reason the entry was rejected.
// Field is set when a parameter bound was violated.
type batchOutcome struct {
	Result *input.ResultDocument `json:"result,omitempty"`
	RunID  string                `json:"run_id,omitempty"`
	Error  string                `json:"error,omitempty"`
	Field  string                `json:"field,omitempty"`
}

// #endregion messages

// #region struct-codec
// fromStruct decodes a Struct into v, rejecting unknown fields.
func fromStruct(s *structpb.Struct, v any) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal struct: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// toStruct encodes v as a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("unmarshal struct: %w", err)
	}
	return out, nil
}

// #endregion struct-codec
