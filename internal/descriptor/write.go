package descriptor

import (
	"os"
	"path/filepath"

	"cmakegen/internal/config"
	"cmakegen/internal/diag"
)

// Write replaces root/CMakeLists.txt with data. The file is written to a
// temporary sibling and renamed, so readers never see a partial descriptor.
func Write(root string, data []byte) (string, error) {
	target := filepath.Join(root, config.DescriptorName)
	f, err := os.CreateTemp(root, ".cmakegen-*.tmp")
	if err != nil {
		return "", diag.Fail(diag.FsWriteFailed, target, "cannot create temporary descriptor", err)
	}
	tmp := f.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", diag.Fail(diag.FsWriteFailed, target, "", err)
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		return "", diag.Fail(diag.FsWriteFailed, target, "", err)
	}
	if err := f.Close(); err != nil {
		return "", diag.Fail(diag.FsWriteFailed, target, "", err)
	}
	// Атомарная замена
	if err := os.Rename(tmp, target); err != nil {
		return "", diag.Fail(diag.FsWriteFailed, target, "", err)
	}
	committed = true
	return target, nil
}
