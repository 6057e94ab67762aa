package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region descriptor
// Service and method names on the wire. Requests and responses are
// google.protobuf.Struct documents shaped like the JSON input and result.
const (
	ServiceName         = "decide.v1.DecideService"
	EvaluateMethod      = "/" + ServiceName + "/Evaluate"
	EvaluateBatchMethod = "/" + ServiceName + "/EvaluateBatch"
)

// DecideServer is the server side of DecideService.
type DecideServer interface {
	Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	EvaluateBatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes DecideService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DecideServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: unaryHandler(EvaluateMethod, DecideServer.Evaluate)},
		{MethodName: "EvaluateBatch", Handler: unaryHandler(EvaluateBatchMethod, DecideServer.EvaluateBatch)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "decide/v1/decide.proto",
}

type structMethod func(DecideServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DecideServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DecideServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// #endregion descriptor
