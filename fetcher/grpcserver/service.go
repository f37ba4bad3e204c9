package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the full name of the fetcher service.
const ServiceName = "nexusiq.Fetcher"

// Full method names.
const (
	GetSummonerMethod         = "/" + ServiceName + "/GetSummoner"
	RefreshMatchHistoryMethod = "/" + ServiceName + "/RefreshMatchHistory"
	GetMatchesMethod          = "/" + ServiceName + "/GetMatches"
)

// FetcherServer is the server side of the fetcher service.
// Requests and responses are free form structs, the fields are documented on each handler.
type FetcherServer interface {
	GetSummoner(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshMatchHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMatches(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterFetcherServer registers the service on the grpc server.
func RegisterFetcherServer(s grpc.ServiceRegistrar, srv FetcherServer) {
	s.RegisterService(&FetcherServiceDesc, srv)
}

func getSummonerHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FetcherServer).GetSummoner(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetSummonerMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FetcherServer).GetSummoner(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func refreshMatchHistoryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FetcherServer).RefreshMatchHistory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RefreshMatchHistoryMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FetcherServer).RefreshMatchHistory(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getMatchesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FetcherServer).GetMatches(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetMatchesMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FetcherServer).GetMatches(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// FetcherServiceDesc is the grpc.ServiceDesc for the fetcher service.
var FetcherServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FetcherServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetSummoner",
			Handler:    getSummonerHandler,
		},
		{
			MethodName: "RefreshMatchHistory",
			Handler:    refreshMatchHistoryHandler,
		},
		{
			MethodName: "GetMatches",
			Handler:    getMatchesHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "nexusiq/fetcher.proto",
}

// FetcherClient calls the fetcher service.
type FetcherClient struct {
	cc grpc.ClientConnInterface
}

// NewFetcherClient creates a client over the connection.
func NewFetcherClient(cc grpc.ClientConnInterface) *FetcherClient {
	return &FetcherClient{cc: cc}
}

// GetSummoner calls the GetSummoner method.
func (c *FetcherClient) GetSummoner(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetSummonerMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RefreshMatchHistory calls the RefreshMatchHistory method.
func (c *FetcherClient) RefreshMatchHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RefreshMatchHistoryMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMatches calls the GetMatches method.
func (c *FetcherClient) GetMatches(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetMatchesMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
