package bridge

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/oshokin/speaker-autogroup/internal/logger"
	pb "github.com/oshokin/speaker-autogroup/internal/pb/v1"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = pb.Package + ".SpeakerBridge"

const (
	discoverMethod       = "/" + ServiceName + "/Discover"
	findMethod           = "/" + ServiceName + "/Find"
	describeMethod       = "/" + ServiceName + "/Describe"
	zoneGroupStateMethod = "/" + ServiceName + "/ZoneGroupState"
	joinMethod           = "/" + ServiceName + "/Join"
)

// BridgeServer is the server API of the speaker bridge.
//
//nolint:revive // Name mirrors the generated-code convention of the other gRPC services.
type BridgeServer interface {
	Discover(ctx context.Context, req *DiscoverRequest) (*DiscoverResponse, error)
	Find(ctx context.Context, req *FindRequest) (*FindResponse, error)
	Describe(ctx context.Context, req *DescribeRequest) (*DescribeResponse, error)
	ZoneGroupState(ctx context.Context, req *ZoneGroupStateRequest) (*ZoneGroupStateResponse, error)
	Join(ctx context.Context, req *JoinRequest) (*JoinResponse, error)
}

// BridgeClient is the client API of the speaker bridge.
//
//nolint:revive // Name mirrors the generated-code convention of the other gRPC services.
type BridgeClient interface {
	Discover(ctx context.Context, req *DiscoverRequest, opts ...grpc.CallOption) (*DiscoverResponse, error)
	Find(ctx context.Context, req *FindRequest, opts ...grpc.CallOption) (*FindResponse, error)
	Describe(ctx context.Context, req *DescribeRequest, opts ...grpc.CallOption) (*DescribeResponse, error)
	ZoneGroupState(
		ctx context.Context,
		req *ZoneGroupStateRequest,
		opts ...grpc.CallOption,
	) (*ZoneGroupStateResponse, error)
	Join(ctx context.Context, req *JoinRequest, opts ...grpc.CallOption) (*JoinResponse, error)
}

// bridgeClient implements BridgeClient over a client connection.
type bridgeClient struct {
	cc grpc.ClientConnInterface
}

// NewBridgeClient returns a client stub bound to the connection.
//
//nolint:ireturn // Returning the interface keeps the stub swappable in tests.
func NewBridgeClient(cc grpc.ClientConnInterface) BridgeClient {
	return &bridgeClient{cc: cc}
}

func (c *bridgeClient) Discover(
	ctx context.Context,
	req *DiscoverRequest,
	opts ...grpc.CallOption,
) (*DiscoverResponse, error) {
	return invoke[DiscoverResponse](ctx, c.cc, discoverMethod, req, opts)
}

func (c *bridgeClient) Find(ctx context.Context, req *FindRequest, opts ...grpc.CallOption) (*FindResponse, error) {
	return invoke[FindResponse](ctx, c.cc, findMethod, req, opts)
}

func (c *bridgeClient) Describe(
	ctx context.Context,
	req *DescribeRequest,
	opts ...grpc.CallOption,
) (*DescribeResponse, error) {
	return invoke[DescribeResponse](ctx, c.cc, describeMethod, req, opts)
}

func (c *bridgeClient) ZoneGroupState(
	ctx context.Context,
	req *ZoneGroupStateRequest,
	opts ...grpc.CallOption,
) (*ZoneGroupStateResponse, error) {
	return invoke[ZoneGroupStateResponse](ctx, c.cc, zoneGroupStateMethod, req, opts)
}

func (c *bridgeClient) Join(ctx context.Context, req *JoinRequest, opts ...grpc.CallOption) (*JoinResponse, error) {
	return invoke[JoinResponse](ctx, c.cc, joinMethod, req, opts)
}

// invoke performs a unary call with protobuf messages built from the bridge schema.
func invoke[Resp any, P interface {
	*Resp
	wireMessage
}](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	req wireMessage,
	opts []grpc.CallOption,
) (*Resp, error) {
	resp := P(new(Resp))

	out := resp.toProto()
	if err := cc.Invoke(ctx, method, req.toProto(), out, opts...); err != nil {
		return nil, err
	}

	resp.fromProto(out)

	return (*Resp)(resp), nil
}

// RegisterBridgeServer registers the bridge implementation on a gRPC server.
func RegisterBridgeServer(registrar grpc.ServiceRegistrar, srv BridgeServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

//nolint:gochecknoglobals // Service descriptors are package-level by gRPC convention.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BridgeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Discover", Handler: unary(discoverMethod, BridgeServer.Discover)},
		{MethodName: "Find", Handler: unary(findMethod, BridgeServer.Find)},
		{MethodName: "Describe", Handler: unary(describeMethod, BridgeServer.Describe)},
		{MethodName: "ZoneGroupState", Handler: unary(zoneGroupStateMethod, BridgeServer.ZoneGroupState)},
		{MethodName: "Join", Handler: unary(joinMethod, BridgeServer.Join)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: pb.Path,
}

// unary adapts a typed server method to a gRPC method handler.
// Interceptors see the protobuf request and response messages.
func unary[Req, Resp any, PReq interface {
	*Req
	wireMessage
}, PResp interface {
	*Resp
	wireMessage
}](
	fullMethod string,
	call func(BridgeServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req)).toProto()
		if err := dec(in); err != nil {
			return nil, err
		}

		logger.DebugKV(ctx, "Bridge call", "method", fullMethod, "request", protojson.Format(in))

		server, _ := srv.(BridgeServer)

		handler := func(ctx context.Context, r any) (any, error) {
			msg, ok := r.(proto.Message)
			if !ok {
				return nil, status.Errorf(codes.Internal, "unexpected request type %T", r)
			}

			req := PReq(new(Req))
			req.fromProto(msg.ProtoReflect())

			resp, err := call(server, ctx, (*Req)(req))
			if err != nil {
				return nil, err
			}

			return PResp(resp).toProto(), nil
		}

		if interceptor == nil {
			return handler(ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		return interceptor(ctx, in, info, handler)
	}
}
