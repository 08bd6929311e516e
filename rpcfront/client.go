package rpcfront

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is a thin wrapper over a [grpc.ClientConn] bound to [ServiceDesc],
// issuing each RPC by fully-qualified method name rather than through
// protoc-generated stubs.
type Client struct {
	cc *grpc.ClientConn
}

// Dial connects to the daemon's UNIX domain socket at socketPath, first
// verifying it is owned by the caller, not a symlink, and mode 0600.
func Dial(socketPath string) (*Client, error) {
	if err := verifySocketSecure(socketPath, os.Getuid()); err != nil {
		return nil, err
	}

	cc, err := grpc.NewClient("unix://"+socketPath, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("rpcfront: dial: %w", err)
	}

	return &Client{cc: cc}, nil
}

func verifySocketSecure(path string, uid int) error {
	fi, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("rpcfront: stat socket: %w", err)
	}

	stat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return fmt.Errorf("rpcfront: unexpected file stat type")
	}

	if int(stat.Uid) != uid {
		return fmt.Errorf("rpcfront: unexpected socket owner uid: got %d, want %d", stat.Uid, uid)
	}

	if fi.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("rpcfront: refusing to follow symlink: %s", path)
	}

	if fi.Mode().Perm() != socketPerm {
		return fmt.Errorf("rpcfront: socket file has insecure permissions: %v", fi.Mode().Perm())
	}

	if fi.Mode()&os.ModeSocket == 0 {
		return fmt.Errorf("rpcfront: not a socket: %s", path)
	}

	return nil
}

func (c *Client) call(ctx context.Context, method string, req *structpb.Struct) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/"+method, req, out); err != nil {
		return nil, err
	}

	return out, nil
}

// CreateClient registers a fresh client for path, returning its client id.
func (c *Client) CreateClient(ctx context.Context, path []byte) (string, error) {
	resp, err := c.call(ctx, "CreateClient", newStruct(map[string]any{"path": bytesField(path)}))
	if err != nil {
		return "", err
	}

	return getOptionalString(resp, "client_id"), nil
}

// GetClient resolves an already-registered client's id by path.
func (c *Client) GetClient(ctx context.Context, path []byte) (string, error) {
	resp, err := c.call(ctx, "GetClient", newStruct(map[string]any{"path": bytesField(path)}))
	if err != nil {
		return "", err
	}

	return getOptionalString(resp, "client_id"), nil
}

// PurgeClient removes the client addressed by path from the registry.
func (c *Client) PurgeClient(ctx context.Context, path []byte) error {
	_, err := c.call(ctx, "PurgeClient", newStruct(map[string]any{"path": bytesField(path)}))
	return err
}

// Commit writes the current registry to snapshotPath under key.
func (c *Client) Commit(ctx context.Context, snapshotPath string, key []byte) error {
	_, err := c.call(ctx, "Commit", newStruct(map[string]any{
		"snapshot_path": snapshotPath,
		"key":           bytesField(key),
	}))

	return err
}

// LoadSnapshot replaces the registry with the contents of snapshotPath.
func (c *Client) LoadSnapshot(ctx context.Context, snapshotPath string, key []byte) error {
	_, err := c.call(ctx, "LoadSnapshot", newStruct(map[string]any{
		"snapshot_path": snapshotPath,
		"key":           bytesField(key),
	}))

	return err
}

// WriteSecret seals data under the client's vault keyed by vaultPath and
// writes it at recordPath.
func (c *Client) WriteSecret(ctx context.Context, path, vaultPath, recordPath, data []byte) error {
	_, err := c.call(ctx, "WriteSecret", newStruct(map[string]any{
		"path":        bytesField(path),
		"vault_path":  bytesField(vaultPath),
		"record_path": bytesField(recordPath),
		"data":        bytesField(data),
	}))

	return err
}

// RevokeSecret logically deletes recordPath.
func (c *Client) RevokeSecret(ctx context.Context, path, vaultPath, recordPath []byte) error {
	_, err := c.call(ctx, "RevokeSecret", newStruct(map[string]any{
		"path":        bytesField(path),
		"vault_path":  bytesField(vaultPath),
		"record_path": bytesField(recordPath),
	}))

	return err
}

// DeleteSecret revokes recordPath and immediately garbage-collects the
// vault, reporting whether the record was live beforehand.
func (c *Client) DeleteSecret(ctx context.Context, path, vaultPath, recordPath []byte) (bool, error) {
	resp, err := c.call(ctx, "DeleteSecret", newStruct(map[string]any{
		"path":        bytesField(path),
		"vault_path":  bytesField(vaultPath),
		"record_path": bytesField(recordPath),
	}))
	if err != nil {
		return false, err
	}

	return getBool(resp, "deleted"), nil
}

// RecordExists reports whether recordPath resolves to a live record.
func (c *Client) RecordExists(ctx context.Context, path, vaultPath, recordPath []byte) (bool, error) {
	resp, err := c.call(ctx, "RecordExists", newStruct(map[string]any{
		"path":        bytesField(path),
		"vault_path":  bytesField(vaultPath),
		"record_path": bytesField(recordPath),
	}))
	if err != nil {
		return false, err
	}

	return getBool(resp, "exists"), nil
}

// VaultExists reports whether vaultPath has been initialized.
func (c *Client) VaultExists(ctx context.Context, path, vaultPath []byte) (bool, error) {
	resp, err := c.call(ctx, "VaultExists", newStruct(map[string]any{
		"path":       bytesField(path),
		"vault_path": bytesField(vaultPath),
	}))
	if err != nil {
		return false, err
	}

	return getBool(resp, "exists"), nil
}

// ExecuteProcedure runs the procedure described by kind and its
// kind-specific fields (see decodeProcedure) against the client addressed
// by path, returning the procedure's public result.
func (c *Client) ExecuteProcedure(ctx context.Context, path []byte, kind string, fields map[string]any) ([]byte, error) {
	req := map[string]any{"path": bytesField(path), "kind": kind}
	for k, v := range fields {
		req[k] = v
	}

	resp, err := c.call(ctx, "ExecuteProcedure", newStruct(req))
	if err != nil {
		return nil, err
	}

	return getBytes(resp, "output")
}

// Close tears down the underlying connection.
func (c *Client) Close() error { return c.cc.Close() }
