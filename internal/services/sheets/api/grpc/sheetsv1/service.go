// Package sheetsv1 defines the sheets.v1.SheetService gRPC contract.
//
// Every method takes and returns a google.protobuf.Struct. Request fields:
//
//	CreateCharacter     {character?: record}
//	GetCharacter        {character_id}
//	ListCharacters      {page_size?, page_token?, filter?}
//	UpdateCharacter     {character_id, edits: {field: value}}
//	DeleteCharacter     {character_id}
//	DuplicateCharacter  {character_id}
//	ApplyVitalAction    {character_id, pool, action, amount?}
//	ModifyProgression   {character_id, action, list?, index?, level?, delta?, purchased?, specialization?, entry?}
//	GetBenefits         {character_id, index}
//	ImportCharacter     {format?, content? | content_base64?}
//	ExportCharacter     {character_id, format?}
//	GetProfile          {}
//
// Character responses carry {character: {id, owner_id, created_at,
// updated_at, sheet: record}}.
package sheetsv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified service name.
const ServiceName = "sheets.v1.SheetService"

// Method names.
const (
	MethodCreateCharacter    = "CreateCharacter"
	MethodGetCharacter       = "GetCharacter"
	MethodListCharacters     = "ListCharacters"
	MethodUpdateCharacter    = "UpdateCharacter"
	MethodDeleteCharacter    = "DeleteCharacter"
	MethodDuplicateCharacter = "DuplicateCharacter"
	MethodApplyVitalAction   = "ApplyVitalAction"
	MethodModifyProgression  = "ModifyProgression"
	MethodGetBenefits        = "GetBenefits"
	MethodImportCharacter    = "ImportCharacter"
	MethodExportCharacter    = "ExportCharacter"
	MethodGetProfile         = "GetProfile"
)

// FullMethod returns the /service/method path of a method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// SheetServiceServer is the server API for SheetService.
type SheetServiceServer interface {
	CreateCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCharacters(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DuplicateCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ApplyVitalAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ModifyProgression(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBenefits(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ImportCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedSheetServiceServer can be embedded to satisfy the interface.
type UnimplementedSheetServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedSheetServiceServer) CreateCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCreateCharacter)
}
func (UnimplementedSheetServiceServer) GetCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetCharacter)
}
func (UnimplementedSheetServiceServer) ListCharacters(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListCharacters)
}
func (UnimplementedSheetServiceServer) UpdateCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpdateCharacter)
}
func (UnimplementedSheetServiceServer) DeleteCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDeleteCharacter)
}
func (UnimplementedSheetServiceServer) DuplicateCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDuplicateCharacter)
}
func (UnimplementedSheetServiceServer) ApplyVitalAction(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodApplyVitalAction)
}
func (UnimplementedSheetServiceServer) ModifyProgression(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodModifyProgression)
}
func (UnimplementedSheetServiceServer) GetBenefits(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetBenefits)
}
func (UnimplementedSheetServiceServer) ImportCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodImportCharacter)
}
func (UnimplementedSheetServiceServer) ExportCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodExportCharacter)
}
func (UnimplementedSheetServiceServer) GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetProfile)
}

type serverCall func(SheetServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call serverCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(SheetServiceServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// SheetService_ServiceDesc is the grpc.ServiceDesc for SheetService.
var SheetService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SheetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodCreateCharacter, SheetServiceServer.CreateCharacter),
		unaryMethod(MethodGetCharacter, SheetServiceServer.GetCharacter),
		unaryMethod(MethodListCharacters, SheetServiceServer.ListCharacters),
		unaryMethod(MethodUpdateCharacter, SheetServiceServer.UpdateCharacter),
		unaryMethod(MethodDeleteCharacter, SheetServiceServer.DeleteCharacter),
		unaryMethod(MethodDuplicateCharacter, SheetServiceServer.DuplicateCharacter),
		unaryMethod(MethodApplyVitalAction, SheetServiceServer.ApplyVitalAction),
		unaryMethod(MethodModifyProgression, SheetServiceServer.ModifyProgression),
		unaryMethod(MethodGetBenefits, SheetServiceServer.GetBenefits),
		unaryMethod(MethodImportCharacter, SheetServiceServer.ImportCharacter),
		unaryMethod(MethodExportCharacter, SheetServiceServer.ExportCharacter),
		unaryMethod(MethodGetProfile, SheetServiceServer.GetProfile),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sheets/v1/sheets.proto",
}

// RegisterSheetServiceServer registers srv on s.
func RegisterSheetServiceServer(s grpc.ServiceRegistrar, srv SheetServiceServer) {
	s.RegisterService(&SheetService_ServiceDesc, srv)
}

// SheetServiceClient is the client API for SheetService.
type SheetServiceClient interface {
	CreateCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListCharacters(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DuplicateCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ApplyVitalAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ModifyProgression(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetBenefits(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ImportCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ExportCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type sheetServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSheetServiceClient returns a client bound to cc.
func NewSheetServiceClient(cc grpc.ClientConnInterface) SheetServiceClient {
	return &sheetServiceClient{cc: cc}
}

func (c *sheetServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sheetServiceClient) CreateCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodCreateCharacter, in, opts)
}
func (c *sheetServiceClient) GetCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetCharacter, in, opts)
}
func (c *sheetServiceClient) ListCharacters(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListCharacters, in, opts)
}
func (c *sheetServiceClient) UpdateCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodUpdateCharacter, in, opts)
}
func (c *sheetServiceClient) DeleteCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodDeleteCharacter, in, opts)
}
func (c *sheetServiceClient) DuplicateCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodDuplicateCharacter, in, opts)
}
func (c *sheetServiceClient) ApplyVitalAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodApplyVitalAction, in, opts)
}
func (c *sheetServiceClient) ModifyProgression(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodModifyProgression, in, opts)
}
func (c *sheetServiceClient) GetBenefits(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetBenefits, in, opts)
}
func (c *sheetServiceClient) ImportCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodImportCharacter, in, opts)
}
func (c *sheetServiceClient) ExportCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodExportCharacter, in, opts)
}
func (c *sheetServiceClient) GetProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetProfile, in, opts)
}
