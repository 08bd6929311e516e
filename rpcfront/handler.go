package rpcfront

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/stronghold-go/stronghold/client"
	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/stronghold"
)

// handler adapts a [stronghold.Stronghold] to [Handler], decoding each
// request envelope and encoding each result back into one.
type handler struct {
	s *stronghold.Stronghold
}

// NewHandler wraps s for registration against [ServiceDesc].
func NewHandler(s *stronghold.Stronghold) Handler { return &handler{s: s} }

func facadeErr(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, client.ErrClientDataNotPresent) {
		return status.Error(codes.NotFound, err.Error())
	}

	if errors.Is(err, stronghold.ErrSnapshotFileMissing) {
		return status.Error(codes.NotFound, err.Error())
	}

	return status.Errorf(codes.Internal, "%s: %v", op, err)
}

func (h *handler) CreateClient(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path, err := getBytes(req, "path")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	c, err := h.s.CreateClient(path)
	if err != nil {
		return nil, facadeErr("create_client", err)
	}

	return newStruct(map[string]any{"client_id": c.ID.String()}), nil
}

func (h *handler) GetClient(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path, err := getBytes(req, "path")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	c, err := h.s.GetClient(path)
	if err != nil {
		return nil, facadeErr("get_client", err)
	}

	return newStruct(map[string]any{"client_id": c.ID.String()}), nil
}

func (h *handler) PurgeClient(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path, err := getBytes(req, "path")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	c, err := h.s.GetClient(path)
	if err != nil {
		return nil, facadeErr("purge_client", err)
	}

	if err := h.s.PurgeClient(c); err != nil {
		return nil, facadeErr("purge_client", err)
	}

	return newStruct(nil), nil
}

func (h *handler) Commit(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path, err := getString(req, "snapshot_path")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	key, err := getBytes(req, "key")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := h.s.Commit(path, key); err != nil {
		return nil, facadeErr("commit", err)
	}

	return newStruct(nil), nil
}

func (h *handler) LoadSnapshot(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path, err := getString(req, "snapshot_path")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	key, err := getBytes(req, "key")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := h.s.LoadSnapshot(path, key); err != nil {
		return nil, facadeErr("load_snapshot", err)
	}

	return newStruct(nil), nil
}

func (h *handler) vaultHandle(req *structpb.Struct) (*client.VaultHandle, error) {
	path, err := getBytes(req, "path")
	if err != nil {
		return nil, err
	}

	vaultPath, err := getBytes(req, "vault_path")
	if err != nil {
		return nil, err
	}

	c, err := h.s.GetClient(path)
	if err != nil {
		return nil, err
	}

	return c.Vault(vaultPath), nil
}

func (h *handler) WriteSecret(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	v, err := h.vaultHandle(req)
	if err != nil {
		return nil, facadeErr("write_secret", err)
	}

	recordPath, err := getBytes(req, "record_path")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	data, err := getBytes(req, "data")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := v.WriteSecret(recordPath, data); err != nil {
		return nil, facadeErr("write_secret", err)
	}

	return newStruct(nil), nil
}

func (h *handler) RevokeSecret(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	v, err := h.vaultHandle(req)
	if err != nil {
		return nil, facadeErr("revoke_secret", err)
	}

	recordPath, err := getBytes(req, "record_path")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := v.RevokeSecret(recordPath); err != nil {
		return nil, facadeErr("revoke_secret", err)
	}

	return newStruct(nil), nil
}

func (h *handler) DeleteSecret(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	v, err := h.vaultHandle(req)
	if err != nil {
		return nil, facadeErr("delete_secret", err)
	}

	recordPath, err := getBytes(req, "record_path")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	deleted, err := v.DeleteSecret(recordPath)
	if err != nil {
		return nil, facadeErr("delete_secret", err)
	}

	return newStruct(map[string]any{"deleted": deleted}), nil
}

func (h *handler) RecordExists(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path, err := getBytes(req, "path")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	vaultPath, err := getBytes(req, "vault_path")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	recordPath, err := getBytes(req, "record_path")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	c, err := h.s.GetClient(path)
	if err != nil {
		return nil, facadeErr("record_exists", err)
	}

	exists := c.RecordExists(ids.Generic(vaultPath, recordPath))

	return newStruct(map[string]any{"exists": exists}), nil
}

func (h *handler) VaultExists(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path, err := getBytes(req, "path")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	vaultPath, err := getBytes(req, "vault_path")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	c, err := h.s.GetClient(path)
	if err != nil {
		return nil, facadeErr("vault_exists", err)
	}

	return newStruct(map[string]any{"exists": c.VaultExists(vaultPath)}), nil
}

func (h *handler) ExecuteProcedure(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path, err := getBytes(req, "path")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	c, err := h.s.GetClient(path)
	if err != nil {
		return nil, facadeErr("execute_procedure", err)
	}

	p, err := decodeProcedure(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	out, err := c.ExecuteProcedure(p)
	if err != nil {
		return nil, facadeErr("execute_procedure", err)
	}

	return newStruct(map[string]any{"output": bytesField(out)}), nil
}
