package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "Skyle.Skyle"

// Full method names.
const (
	MethodCalibrate      = "/" + serviceName + "/Calibrate"
	MethodPositioning    = "/" + serviceName + "/Positioning"
	MethodGaze           = "/" + serviceName + "/Gaze"
	MethodTrigger        = "/" + serviceName + "/Trigger"
	MethodConfigure      = "/" + serviceName + "/Configure"
	MethodGetButton      = "/" + serviceName + "/GetButton"
	MethodSetButton      = "/" + serviceName + "/SetButton"
	MethodReset          = "/" + serviceName + "/Reset"
	MethodGetVersions    = "/" + serviceName + "/GetVersions"
	MethodGetProfiles    = "/" + serviceName + "/GetProfiles"
	MethodCurrentProfile = "/" + serviceName + "/CurrentProfile"
	MethodSetProfile     = "/" + serviceName + "/SetProfile"
	MethodDeleteProfile  = "/" + serviceName + "/DeleteProfile"
)

// Receiver is the receiving half of a server stream.
type Receiver[T any] interface {
	Recv() (*T, error)
}

// CalibrationStream is the client side of the calibration stream.
type CalibrationStream interface {
	Send(*CalibControlMessages) error
	Recv() (*CalibMessages, error)
	CloseSend() error
}

// SkyleClient is the client API of the Skyle service.
type SkyleClient interface {
	Calibrate(ctx context.Context, opts ...grpc.CallOption) (CalibrationStream, error)
	Positioning(ctx context.Context, in *Empty, opts ...grpc.CallOption) (Receiver[PositioningMessage], error)
	Gaze(ctx context.Context, in *Empty, opts ...grpc.CallOption) (Receiver[Point], error)
	Trigger(ctx context.Context, in *Empty, opts ...grpc.CallOption) (Receiver[TriggerMessage], error)
	Configure(ctx context.Context, in *OptionMessage, opts ...grpc.CallOption) (*Options, error)
	GetButton(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Button, error)
	SetButton(ctx context.Context, in *ButtonActions, opts ...grpc.CallOption) (*ButtonActions, error)
	Reset(ctx context.Context, in *ResetMessage, opts ...grpc.CallOption) (*StatusMessage, error)
	GetVersions(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*DeviceVersions, error)
	GetProfiles(ctx context.Context, in *Empty, opts ...grpc.CallOption) (Receiver[Profile], error)
	CurrentProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Profile, error)
	SetProfile(ctx context.Context, in *Profile, opts ...grpc.CallOption) (*StatusMessage, error)
	DeleteProfile(ctx context.Context, in *Profile, opts ...grpc.CallOption) (*StatusMessage, error)
}

type skyleClient struct {
	cc grpc.ClientConnInterface
}

// NewSkyleClient binds the Skyle service to a client connection.
func NewSkyleClient(cc grpc.ClientConnInterface) SkyleClient {
	return &skyleClient{cc: cc}
}

type clientRecv[T any] struct {
	grpc.ClientStream
}

func (s *clientRecv[T]) Recv() (*T, error) {
	m := new(T)
	if err := s.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type calibrationClient struct {
	grpc.ClientStream
}

func (s *calibrationClient) Send(m *CalibControlMessages) error {
	return s.ClientStream.SendMsg(m)
}

func (s *calibrationClient) Recv() (*CalibMessages, error) {
	m := new(CalibMessages)
	if err := s.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// openServerStream sends the single request of a server streaming call.
func openServerStream[T any](ctx context.Context, cc grpc.ClientConnInterface, desc *grpc.StreamDesc, method string, in any, opts ...grpc.CallOption) (Receiver[T], error) {
	stream, err := cc.NewStream(ctx, desc, method, opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &clientRecv[T]{ClientStream: stream}, nil
}

func (c *skyleClient) Calibrate(ctx context.Context, opts ...grpc.CallOption) (CalibrationStream, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], MethodCalibrate, opts...)
	if err != nil {
		return nil, err
	}
	return &calibrationClient{ClientStream: stream}, nil
}

func (c *skyleClient) Positioning(ctx context.Context, in *Empty, opts ...grpc.CallOption) (Receiver[PositioningMessage], error) {
	return openServerStream[PositioningMessage](ctx, c.cc, &ServiceDesc.Streams[1], MethodPositioning, in, opts...)
}

func (c *skyleClient) Gaze(ctx context.Context, in *Empty, opts ...grpc.CallOption) (Receiver[Point], error) {
	return openServerStream[Point](ctx, c.cc, &ServiceDesc.Streams[2], MethodGaze, in, opts...)
}

func (c *skyleClient) Trigger(ctx context.Context, in *Empty, opts ...grpc.CallOption) (Receiver[TriggerMessage], error) {
	return openServerStream[TriggerMessage](ctx, c.cc, &ServiceDesc.Streams[3], MethodTrigger, in, opts...)
}

func (c *skyleClient) GetProfiles(ctx context.Context, in *Empty, opts ...grpc.CallOption) (Receiver[Profile], error) {
	return openServerStream[Profile](ctx, c.cc, &ServiceDesc.Streams[4], MethodGetProfiles, in, opts...)
}

func (c *skyleClient) Configure(ctx context.Context, in *OptionMessage, opts ...grpc.CallOption) (*Options, error) {
	out := new(Options)
	if err := c.cc.Invoke(ctx, MethodConfigure, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *skyleClient) GetButton(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Button, error) {
	out := new(Button)
	if err := c.cc.Invoke(ctx, MethodGetButton, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *skyleClient) SetButton(ctx context.Context, in *ButtonActions, opts ...grpc.CallOption) (*ButtonActions, error) {
	out := new(ButtonActions)
	if err := c.cc.Invoke(ctx, MethodSetButton, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *skyleClient) Reset(ctx context.Context, in *ResetMessage, opts ...grpc.CallOption) (*StatusMessage, error) {
	out := new(StatusMessage)
	if err := c.cc.Invoke(ctx, MethodReset, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *skyleClient) GetVersions(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*DeviceVersions, error) {
	out := new(DeviceVersions)
	if err := c.cc.Invoke(ctx, MethodGetVersions, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *skyleClient) CurrentProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Profile, error) {
	out := new(Profile)
	if err := c.cc.Invoke(ctx, MethodCurrentProfile, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *skyleClient) SetProfile(ctx context.Context, in *Profile, opts ...grpc.CallOption) (*StatusMessage, error) {
	out := new(StatusMessage)
	if err := c.cc.Invoke(ctx, MethodSetProfile, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *skyleClient) DeleteProfile(ctx context.Context, in *Profile, opts ...grpc.CallOption) (*StatusMessage, error) {
	out := new(StatusMessage)
	if err := c.cc.Invoke(ctx, MethodDeleteProfile, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
