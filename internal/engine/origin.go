package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/roach88/aisync/internal/model"
	"github.com/roach88/aisync/internal/platform"
)

// PathOrigin classifies what currently occupies a destination path, from the
// engine's point of view. It is computed once per write and is the only
// input to the replacement decision.
type PathOrigin int

const (
	// OriginAbsent: nothing is there.
	OriginAbsent PathOrigin = iota
	// OriginSynced: a previous successful run produced this path, or it is a
	// symlink pointing at the artifact's source.
	OriginSynced
	// OriginForeignLink: a symlink the engine does not recognize.
	OriginForeignLink
	// OriginNativeFile: a regular file the engine did not produce.
	OriginNativeFile
	// OriginNativeDir: a real directory the engine did not produce.
	OriginNativeDir
)

func (o PathOrigin) String() string {
	switch o {
	case OriginAbsent:
		return "absent"
	case OriginSynced:
		return "synced"
	case OriginForeignLink:
		return "foreign-link"
	case OriginNativeFile:
		return "native-file"
	case OriginNativeDir:
		return "native-dir"
	default:
		return fmt.Sprintf("PathOrigin(%d)", int(o))
	}
}

// Replaceable reports whether a destination with this origin may be removed
// and rewritten. Only native directories need force.
func (o PathOrigin) Replaceable(force bool) bool {
	return o != OriginNativeDir || force
}

// classifyDestination inspects dest for an artifact of type t on target.
// sourcePath is the artifact's source location, used to recognize links this
// tool created.
//
// MCP server destinations name an entry inside a shared config file; the
// file itself is merged, never replaced, so they are only ever absent or synced.
// The type decides this, never the shape of dest.
func (e *Engine) classifyDestination(
	ctx context.Context,
	target model.SystemID,
	t model.ArtifactType,
	dest, sourcePath string,
) (PathOrigin, error) {
	tracked, err := e.store.IsTrackedPath(ctx, target, dest)
	if err != nil {
		return OriginAbsent, err
	}

	if t == model.TypeMCPServer {
		if tracked {
			return OriginSynced, nil
		}
		return OriginAbsent, nil
	}

	kind, err := platform.Inspect(dest)
	if err != nil {
		return OriginAbsent, err
	}

	switch kind {
	case platform.KindAbsent:
		return OriginAbsent, nil
	case platform.KindSymlink:
		if tracked || linksTo(dest, sourcePath) {
			return OriginSynced, nil
		}
		return OriginForeignLink, nil
	case platform.KindDir:
		if tracked {
			return OriginSynced, nil
		}
		return OriginNativeDir, nil
	default:
		if tracked {
			return OriginSynced, nil
		}
		return OriginNativeFile, nil
	}
}

func linksTo(link, sourcePath string) bool {
	if sourcePath == "" {
		return false
	}
	target, err := platform.ResolveSymlinkTarget(link)
	if err != nil {
		return false
	}
	return target == filepath.Clean(sourcePath)
}
