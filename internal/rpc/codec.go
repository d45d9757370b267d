package rpc

import (
	"fmt"

	"google.golang.org/grpc"
)

// CodecName is the content subtype used on the wire.
const CodecName = "proto"

// Codec marshals Message values for grpc.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotMessage, v)
	}
	return m.AppendWire(nil), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotMessage, v)
	}
	return m.UnmarshalWire(data)
}

func (Codec) Name() string { return CodecName }

// DialOption forces the codec on every call of a client connection.
func DialOption() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{}))
}

// ServerOption forces the codec on a server.
func ServerOption() grpc.ServerOption {
	return grpc.ForceServerCodec(Codec{})
}
