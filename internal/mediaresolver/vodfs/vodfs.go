// Package vodfs (mediaresolver/vodfs) adapts the existing FUSE VOD mount
// (internal/vodfs) into a MediaResolver: Programs are served from their
// location under a mounted library tree rather than an arbitrary file path,
// and probe stats are delegated to mediaresolver/local once the mounted
// path is known.
package vodfs

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/airwaves/channelcast/internal/encoderplan"
	"github.com/airwaves/channelcast/internal/mediaresolver/local"
	"github.com/airwaves/channelcast/internal/model"
)

// Resolver resolves Programs against files exposed under a vodfs mount
// point instead of their raw FilePath.
type Resolver struct {
	MountPoint string
	probe      *local.Resolver
}

func New(mountPoint string) *Resolver {
	return &Resolver{MountPoint: mountPoint, probe: local.New()}
}

// Resolve rewrites program.FilePath (expected relative to the library
// root) onto the mount point, then probes it exactly as the local resolver
// would a direct file.
func (r *Resolver) Resolve(ctx context.Context, program model.Program) (string, encoderplan.ProbeStats, error) {
	if program.FilePath == "" {
		return "", encoderplan.ProbeStats{}, fmt.Errorf("vodfs resolver: program %s has no file path", program.Key())
	}
	mounted := program
	mounted.FilePath = filepath.Join(r.MountPoint, program.FilePath)
	return r.probe.Resolve(ctx, mounted)
}
