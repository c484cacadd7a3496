//go:build !ceph

package aol

import "context"

// CephConfig configures the opt-in BackendCeph file backend. This stub
// variant (no ceph build tag) keeps the type available for callers to
// reference while panicking on actual use.
type CephConfig struct {
	UserName    string
	ClusterName string
	ConfFile    string
	Pool        string
	Prefix      string
}

type cephFileBackend struct{}

func openCephFileBackend(_ context.Context, _ CephConfig, _ int) (*cephFileBackend, error) {
	panic("aol: Ceph support not compiled in. Build with: go build -tags=ceph")
}

func (b *cephFileBackend) Append(frame []byte) error { panic("unreachable") }
func (b *cephFileBackend) ReadAll() ([]byte, error)  { panic("unreachable") }
func (b *cephFileBackend) Close() error              { panic("unreachable") }
