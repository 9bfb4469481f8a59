package platform

import (
	"fmt"
	"os"
)

// PathKind is what currently occupies a filesystem path, without following symlinks.
type PathKind int

const (
	KindAbsent PathKind = iota
	KindFile
	KindDir
	KindSymlink
)

func (k PathKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return fmt.Sprintf("PathKind(%d)", int(k))
	}
}

// Inspect lstats path and reports its kind. Special files count as KindFile.
func Inspect(path string) (PathKind, error) {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return KindAbsent, nil
	}
	if err != nil {
		return KindAbsent, fmt.Errorf("inspect %s: %w", path, err)
	}

	switch mode := info.Mode(); {
	case mode&os.ModeSymlink != 0:
		return KindSymlink, nil
	case mode.IsDir():
		return KindDir, nil
	default:
		return KindFile, nil
	}
}
