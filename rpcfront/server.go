package rpcfront

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"

	"golang.org/x/sys/unix"
	"google.golang.org/grpc"

	"github.com/stronghold-go/stronghold/stronghold"
)

// socketPerm is the file permission mode for the UNIX domain socket.
const socketPerm = 0o600

// getCred returns the credentials of the remote end of a UNIX socket
// connection, read via SO_PEERCRED.
func getCred(conn net.Conn) (*unix.Ucred, error) {
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return nil, fmt.Errorf("rpcfront: connection is not a *net.UnixConn: got %T", conn)
	}

	rawConn, err := unixConn.SyscallConn()
	if err != nil {
		return nil, err
	}

	var (
		ucred    *unix.Ucred
		ucredErr error
	)

	err = rawConn.Control(func(fd uintptr) {
		ucred, ucredErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	})
	if err != nil {
		return nil, err
	}

	if ucredErr != nil {
		return nil, ucredErr
	}

	return ucred, nil
}

// uidCheckingListener only accepts connections from a single allowed UID,
// closing and skipping any other connection.
type uidCheckingListener struct {
	net.Listener
	allowedUID int
}

func (l *uidCheckingListener) Accept() (net.Conn, error) {
	for {
		conn, err := l.Listener.Accept()
		if err != nil {
			return nil, err
		}

		ucred, err := getCred(conn)
		if err != nil {
			log.Printf("rpcfront: uid check failed: %v", err)
			_ = conn.Close()

			continue
		}

		if int(ucred.Uid) != l.allowedUID {
			log.Printf("rpcfront: connection from disallowed uid: %d", ucred.Uid)
			_ = conn.Close()

			continue
		}

		return conn, nil
	}
}

// Server serves the Stronghold facade's operations over gRPC on a
// UID-restricted UNIX domain socket.
type Server struct {
	socketPath string
	grpc       *grpc.Server
}

// NewServer builds a [Server] bound to s, listening on socketPath once
// [Server.Serve] is called.
func NewServer(s *stronghold.Stronghold, socketPath string) *Server {
	srv := grpc.NewServer()
	srv.RegisterService(&ServiceDesc, NewHandler(s))

	return &Server{socketPath: socketPath, grpc: srv}
}

// Serve creates the socket with 0600 permissions, accepts only connections
// from the current user, and blocks serving RPCs until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	_ = os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("rpcfront: listen: %w", err)
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(s.socketPath)
	}()

	if err := os.Chmod(s.socketPath, socketPerm); err != nil {
		return fmt.Errorf("rpcfront: chmod socket: %w", err)
	}

	lis := &uidCheckingListener{Listener: listener, allowedUID: os.Getuid()}

	done := make(chan error, 1)
	go func() {
		log.Printf("rpcfront: listening at %v", listener.Addr())
		done <- s.grpc.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		log.Printf("rpcfront: shutdown requested")
		s.grpc.GracefulStop()
		<-done

		return nil
	case err := <-done:
		return err
	}
}

// Stop immediately halts the server, aborting in-flight RPCs.
func (s *Server) Stop() { s.grpc.Stop() }
