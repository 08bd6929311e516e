package rpcfront

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Handler is implemented by the rpcfront-side adapter over a
// [stronghold.Stronghold]. It covers client creation, lookup and purge,
// Commit, LoadSnapshot, the vault handle operations, record and vault
// existence checks and procedure execution. The facade's LoadClient,
// LoadClientFromSnapshot, WriteClient, Clear and Store, client.Client's
// SyncWith and the test-only ReadSecret are reachable only through the Go API.
type Handler interface {
	CreateClient(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetClient(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	PurgeClient(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Commit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	LoadSnapshot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	WriteSecret(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RevokeSecret(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteSecret(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RecordExists(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	VaultExists(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ExecuteProcedure(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// serviceName is the fully-qualified gRPC service name used on the wire.
const serviceName = "stronghold.v1.Stronghold"

func unaryHandler(name string, call func(Handler, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}

			h := srv.(Handler) //nolint:forcetypeassert

			if interceptor == nil {
				return call(h, ctx, in)
			}

			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + name}

			wrapped := func(ctx context.Context, req any) (any, error) {
				return call(h, ctx, req.(*structpb.Struct)) //nolint:forcetypeassert
			}

			return interceptor(ctx, in, info, wrapped)
		},
	}
}

// ServiceDesc is the hand-written [grpc.ServiceDesc] for the Stronghold
// front door: one method per facade operation, every request and response a
// [structpb.Struct] envelope.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Handler)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("CreateClient", Handler.CreateClient),
		unaryHandler("GetClient", Handler.GetClient),
		unaryHandler("PurgeClient", Handler.PurgeClient),
		unaryHandler("Commit", Handler.Commit),
		unaryHandler("LoadSnapshot", Handler.LoadSnapshot),
		unaryHandler("WriteSecret", Handler.WriteSecret),
		unaryHandler("RevokeSecret", Handler.RevokeSecret),
		unaryHandler("DeleteSecret", Handler.DeleteSecret),
		unaryHandler("RecordExists", Handler.RecordExists),
		unaryHandler("VaultExists", Handler.VaultExists),
		unaryHandler("ExecuteProcedure", Handler.ExecuteProcedure),
	},
	Metadata: "rpcfront/stronghold.proto",
}
