package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// Sender is the sending half of a server stream.
type Sender[T any] interface {
	Send(*T) error
	Context() context.Context
}

// CalibrationServerStream is the device side of the calibration stream.
type CalibrationServerStream interface {
	Send(*CalibMessages) error
	Recv() (*CalibControlMessages, error)
	Context() context.Context
}

// SkyleServer is the device API of the Skyle service.
type SkyleServer interface {
	Calibrate(CalibrationServerStream) error
	Positioning(*Empty, Sender[PositioningMessage]) error
	Gaze(*Empty, Sender[Point]) error
	Trigger(*Empty, Sender[TriggerMessage]) error
	GetProfiles(*Empty, Sender[Profile]) error
	Configure(context.Context, *OptionMessage) (*Options, error)
	GetButton(context.Context, *Empty) (*Button, error)
	SetButton(context.Context, *ButtonActions) (*ButtonActions, error)
	Reset(context.Context, *ResetMessage) (*StatusMessage, error)
	GetVersions(context.Context, *Empty) (*DeviceVersions, error)
	CurrentProfile(context.Context, *Empty) (*Profile, error)
	SetProfile(context.Context, *Profile) (*StatusMessage, error)
	DeleteProfile(context.Context, *Profile) (*StatusMessage, error)
}

// RegisterSkyleServer registers srv on s.
func RegisterSkyleServer(s grpc.ServiceRegistrar, srv SkyleServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type serverSend[T any] struct {
	grpc.ServerStream
}

func (s *serverSend[T]) Send(m *T) error {
	return s.ServerStream.SendMsg(m)
}

type calibrationServer struct {
	grpc.ServerStream
}

func (s *calibrationServer) Send(m *CalibMessages) error {
	return s.ServerStream.SendMsg(m)
}

func (s *calibrationServer) Recv() (*CalibControlMessages, error) {
	m := new(CalibControlMessages)
	if err := s.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func calibrateHandler(srv any, stream grpc.ServerStream) error {
	return srv.(SkyleServer).Calibrate(&calibrationServer{ServerStream: stream})
}

// streamHandler adapts a server streaming method that takes an Empty request.
func streamHandler[T any](call func(SkyleServer, *Empty, Sender[T]) error) grpc.StreamHandler {
	return func(srv any, stream grpc.ServerStream) error {
		in := new(Empty)
		if err := stream.RecvMsg(in); err != nil {
			return err
		}
		return call(srv.(SkyleServer), in, &serverSend[T]{ServerStream: stream})
	}
}

// unaryHandler adapts a unary method to the grpc method handler shape.
func unaryHandler[Req any, Res any](method string, call func(SkyleServer, context.Context, *Req) (*Res, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SkyleServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SkyleServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the Skyle service. Stream indexes are referenced by
// the client bindings and must not be reordered.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SkyleServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Configure", Handler: unaryHandler(MethodConfigure, SkyleServer.Configure)},
		{MethodName: "GetButton", Handler: unaryHandler(MethodGetButton, SkyleServer.GetButton)},
		{MethodName: "SetButton", Handler: unaryHandler(MethodSetButton, SkyleServer.SetButton)},
		{MethodName: "Reset", Handler: unaryHandler(MethodReset, SkyleServer.Reset)},
		{MethodName: "GetVersions", Handler: unaryHandler(MethodGetVersions, SkyleServer.GetVersions)},
		{MethodName: "CurrentProfile", Handler: unaryHandler(MethodCurrentProfile, SkyleServer.CurrentProfile)},
		{MethodName: "SetProfile", Handler: unaryHandler(MethodSetProfile, SkyleServer.SetProfile)},
		{MethodName: "DeleteProfile", Handler: unaryHandler(MethodDeleteProfile, SkyleServer.DeleteProfile)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Calibrate", Handler: calibrateHandler, ServerStreams: true, ClientStreams: true},
		{StreamName: "Positioning", Handler: streamHandler(SkyleServer.Positioning), ServerStreams: true},
		{StreamName: "Gaze", Handler: streamHandler(SkyleServer.Gaze), ServerStreams: true},
		{StreamName: "Trigger", Handler: streamHandler(SkyleServer.Trigger), ServerStreams: true},
		{StreamName: "GetProfiles", Handler: streamHandler(SkyleServer.GetProfiles), ServerStreams: true},
	},
	Metadata: "skyle.proto",
}
