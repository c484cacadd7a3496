//go:build ceph

package aol

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/ceph/go-ceph/rados"
)

// CephConfig configures the opt-in BackendCeph file backend.
type CephConfig struct {
	UserName    string
	ClusterName string
	ConfFile    string
	Pool        string
	Prefix      string
}

// cephFileBackend models one log file shard as a RADOS object appended at
// a tracked write offset (RADOS has no native append).
type cephFileBackend struct {
	cfg   CephConfig
	obj   string
	conn  *rados.Conn
	ioctx *rados.IOContext

	mu     sync.Mutex
	offset uint64
}

func openCephFileBackend(_ context.Context, cfg CephConfig, shardIndex int) (*cephFileBackend, error) {
	conn, err := rados.NewConnWithClusterAndUser(cfg.ClusterName, cfg.UserName)
	if err != nil {
		return nil, err
	}
	if cfg.ConfFile != "" {
		if err := conn.ReadConfigFile(cfg.ConfFile); err != nil {
			return nil, err
		}
	} else {
		_ = conn.ReadDefaultConfigFile()
	}
	if err := conn.Connect(); err != nil {
		return nil, err
	}
	ioctx, err := conn.OpenIOContext(cfg.Pool)
	if err != nil {
		conn.Shutdown()
		return nil, err
	}

	obj := path.Join(cfg.Prefix, fmt.Sprintf("%d.log", shardIndex))
	b := &cephFileBackend{cfg: cfg, obj: obj, conn: conn, ioctx: ioctx}
	if stat, err := ioctx.Stat(obj); err == nil {
		b.offset = stat.Size
	}
	return b, nil
}

func (b *cephFileBackend) Append(frame []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ioctx.Write(b.obj, frame, b.offset); err != nil {
		return err
	}
	b.offset += uint64(len(frame))
	return nil
}

func (b *cephFileBackend) ReadAll() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	stat, err := b.ioctx.Stat(b.obj)
	if err != nil {
		return nil, nil // object not created yet: empty log
	}
	data := make([]byte, stat.Size)
	n, err := b.ioctx.Read(b.obj, data, 0)
	if err != nil {
		return nil, err
	}
	return data[:n], nil
}

func (b *cephFileBackend) Close() error {
	b.ioctx.Destroy()
	b.conn.Shutdown()
	return nil
}
