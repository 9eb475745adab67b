package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is also the key the health service reports under.
const ServiceName = "catalog.v1.CatalogService"

// CatalogServer is the server API for catalog.v1.CatalogService. Messages are
// well-known protobuf types so no generated code is needed.
type CatalogServer interface {
	GetSummary(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	PlaceOrderItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var CatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSummary", Handler: getSummaryHandler},
		{MethodName: "PlaceOrderItem", Handler: placeOrderItemHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/catalog.proto",
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&CatalogServiceDesc, srv)
}

func getSummaryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).GetSummary(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/GetSummary",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).GetSummary(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func placeOrderItemHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).PlaceOrderItem(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/PlaceOrderItem",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).PlaceOrderItem(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// CatalogClient calls catalog.v1.CatalogService over an existing connection.
type CatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogClient(cc grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{cc: cc}
}

func (c *CatalogClient) GetSummary(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/GetSummary", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) PlaceOrderItem(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/PlaceOrderItem", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
