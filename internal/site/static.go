package site

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	serrors "git.home.luguber.info/inful/mdsite/internal/errors"
)

// ErrNoStaticDir is returned by CopyStatic when the source directory is absent.
var ErrNoStaticDir = errors.New("static directory does not exist")

// ResetPublic removes dir and recreates it empty. It refuses to touch dir when
// any of the keep paths lies inside it.
func ResetPublic(dir string, keep ...string) error {
	for _, k := range keep {
		if k != "" && pathWithin(dir, k) {
			return serrors.ValidationFailed("public_dir",
				fmt.Sprintf("%q contains source path %q and cannot be cleaned", dir, k))
		}
	}
	if err := os.RemoveAll(dir); err != nil {
		return serrors.FileSystemError("remove", dir, err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return serrors.FileSystemError("mkdir", dir, err)
	}
	return nil
}

// pathWithin reports whether p is root or lies below it.
func pathWithin(root, p string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absP, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absP)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// CopyStatic recursively copies src into dst preserving file modes and
// returns the number of bytes copied.
func CopyStatic(src, dst string) (int64, error) {
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, ErrNoStaticDir
	}
	if err != nil {
		return 0, serrors.FileSystemError("stat", src, err)
	}
	if !info.IsDir() {
		return 0, serrors.FileSystemError("stat", src, errors.New("not a directory"))
	}
	return copyDir(src, dst)
}

func copyDir(src, dst string) (int64, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, serrors.FileSystemError("stat", src, err)
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return 0, serrors.FileSystemError("mkdir", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, serrors.FileSystemError("readdir", src, err)
	}

	var total int64
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		var n int64
		if entry.IsDir() {
			n, err = copyDir(srcPath, dstPath)
		} else {
			n, err = copyFile(srcPath, dstPath)
		}
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func copyFile(src, dst string) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, serrors.FileSystemError("open", src, err)
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return 0, serrors.FileSystemError("stat", src, err)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return 0, serrors.FileSystemError("create", dst, err)
	}
	defer func() {
		_ = dstFile.Close()
	}()

	n, err := io.Copy(dstFile, srcFile)
	if err != nil {
		return n, serrors.FileSystemError("copy", dst, err)
	}
	// OpenFile honours umask; set the mode explicitly.
	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return n, serrors.FileSystemError("chmod", dst, err)
	}
	return n, nil
}
