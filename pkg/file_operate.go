package pkg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TGMExt is the extension rFactor2 uses for tire files.
const TGMExt = ".tgm"

// CheckFileExist 检查文件是否存在. Symlinks are followed and a directory is
// reported as an error, since only regular files can be parsed.
func CheckFileExist(filePath string) (bool, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", filePath)
	}
	return true, nil
}

// HasTGMExt reports whether filePath ends in .tgm, ignoring case.
func HasTGMExt(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), TGMExt)
}
