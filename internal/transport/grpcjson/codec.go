// Package grpcjson carries gRPC messages as JSON so services can be declared
// with plain Go structs instead of generated protobuf types.
package grpcjson

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// Name is the content-subtype clients select with grpc.CallContentSubtype.
const Name = "json"

type codec struct{}

func (codec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

func (codec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

func (codec) Name() string { return Name }

func init() {
	encoding.RegisterCodec(codec{})
}

// Codec returns the registered JSON codec, for clients that force it.
func Codec() encoding.Codec {
	return codec{}
}

// UnaryMethod adapts a typed handler to a grpc.MethodDesc, running it through
// the server's interceptor chain.
func UnaryMethod[Req any, Resp any](service, method string, call func(ctx context.Context, req *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes a unary-only service whose methods are built with UnaryMethod.
func ServiceDesc(service string, methods ...grpc.MethodDesc) *grpc.ServiceDesc {
	return &grpc.ServiceDesc{
		ServiceName: service,
		HandlerType: (*interface{})(nil),
		Methods:     methods,
		Streams:     []grpc.StreamDesc{},
	}
}

// Invoke calls a unary method on conn using the JSON codec.
func Invoke[Resp any](ctx context.Context, conn grpc.ClientConnInterface, service, method string, req interface{}, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append(opts, grpc.CallContentSubtype(Name))
	if err := conn.Invoke(ctx, "/"+service+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
