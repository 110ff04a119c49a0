package grpc

// proto.go defines the gRPC server interface for
// beancounter.position.v1.PositionService. Messages are plain structs carried
// by the JSON codec in codec.go; clients call with content-subtype "json".

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/monowai/beancounter-sub001/internal/application/dto"
)

const serviceName = "beancounter.position.v1.PositionService"

// Full method names, as seen by interceptors.
const (
	MethodGetPositions   = "/" + serviceName + "/GetPositions"
	MethodValuePositions = "/" + serviceName + "/ValuePositions"
	MethodGetFxRates     = "/" + serviceName + "/GetFxRates"
)

// PositionsRequest selects a portfolio and an optional ISO as-at date.
type PositionsRequest struct {
	PortfolioCode string `json:"portfolioCode"`
	AsAt          string `json:"asAt,omitempty"`
}

// PositionsResponse is the positions payload.
type PositionsResponse = dto.PositionsResponse

// FxRatesRequest lists "FROM/TO" pairs and an optional ISO as-of date.
type FxRatesRequest struct {
	Pairs []string `json:"pairs"`
	AsOf  string   `json:"asOf,omitempty"`
}

// FxRatesResponse is the rates payload.
type FxRatesResponse = dto.FxRatesResponse

// PositionServiceServer is the server API for PositionService.
type PositionServiceServer interface {
	GetPositions(context.Context, *PositionsRequest) (*PositionsResponse, error)
	ValuePositions(context.Context, *PositionsRequest) (*PositionsResponse, error)
	GetFxRates(context.Context, *FxRatesRequest) (*FxRatesResponse, error)
	mustEmbedUnimplementedPositionServiceServer()
}

// UnimplementedPositionServiceServer provides forward-compatible default implementations.
type UnimplementedPositionServiceServer struct{}

func (UnimplementedPositionServiceServer) GetPositions(context.Context, *PositionsRequest) (*PositionsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPositions not implemented")
}
func (UnimplementedPositionServiceServer) ValuePositions(context.Context, *PositionsRequest) (*PositionsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ValuePositions not implemented")
}
func (UnimplementedPositionServiceServer) GetFxRates(context.Context, *FxRatesRequest) (*FxRatesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetFxRates not implemented")
}
func (UnimplementedPositionServiceServer) mustEmbedUnimplementedPositionServiceServer() {}

// RegisterPositionServiceServer registers the PositionServiceServer with the gRPC server.
func RegisterPositionServiceServer(s grpclib.ServiceRegistrar, srv PositionServiceServer) {
	s.RegisterService(&_PositionService_serviceDesc, srv)
}

var _PositionService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PositionServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "GetPositions", Handler: _PositionService_GetPositions_Handler},
		{MethodName: "ValuePositions", Handler: _PositionService_ValuePositions_Handler},
		{MethodName: "GetFxRates", Handler: _PositionService_GetFxRates_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _PositionService_GetPositions_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(PositionsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PositionServiceServer).GetPositions(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodGetPositions}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PositionServiceServer).GetPositions(ctx, req.(*PositionsRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _PositionService_ValuePositions_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(PositionsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PositionServiceServer).ValuePositions(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodValuePositions}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PositionServiceServer).ValuePositions(ctx, req.(*PositionsRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _PositionService_GetFxRates_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(FxRatesRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PositionServiceServer).GetFxRates(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodGetFxRates}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PositionServiceServer).GetFxRates(ctx, req.(*FxRatesRequest))
	}
	return interceptor(ctx, req, info, handler)
}
