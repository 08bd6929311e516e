// Package rpcfront is a gRPC front door over a UNIX domain socket that
// exposes the Stronghold facade's operations as typed RPCs, hand-written
// against [structpb.Struct] envelopes rather than protoc-generated message
// types (no .proto toolchain runs in this build).
package rpcfront

import (
	"encoding/base64"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// newStruct builds a [structpb.Struct] from a plain map, panicking only on
// a programmer error (an unsupported Go value reaching [structpb.NewStruct]
// from code in this package, never from caller input).
func newStruct(fields map[string]any) *structpb.Struct {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		panic(fmt.Sprintf("rpcfront: build response struct: %v", err))
	}

	return s
}

// getString reads a required string field.
func getString(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", fmt.Errorf("rpcfront: missing field %q", key)
	}

	return v.GetStringValue(), nil
}

// getOptionalString reads key, returning "" if absent.
func getOptionalString(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}

	return v.GetStringValue()
}

// getBool reads a boolean field, defaulting to false if absent.
func getBool(s *structpb.Struct, key string) bool {
	v, ok := s.GetFields()[key]
	if !ok {
		return false
	}

	return v.GetBoolValue()
}

// getBytes reads a field encoded as base64 (structpb has no native bytes
// kind: every []byte value crossing the wire is base64-encoded on the way
// in and decoded on the way out).
func getBytes(s *structpb.Struct, key string) ([]byte, error) {
	str, err := getString(s, key)
	if err != nil {
		return nil, err
	}

	b, err := base64.StdEncoding.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("rpcfront: field %q: invalid base64: %w", key, err)
	}

	return b, nil
}

func bytesField(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
