// Package walker performs the filtered, depth-first traversal of an export root.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/sanity/internal/exclusion"
	"github.com/temirov/sanity/internal/types"
	"github.com/temirov/sanity/internal/utils"
)

const errorAbsolutePathFormat = "getting absolute path for %s: %w"

// Visitor receives one TreeNode per visited directory. A non-nil error stops the walk.
type Visitor func(node types.TreeNode) error

// Walker yields directories top-down in the order the filesystem lists them.
type Walker struct {
	matcher exclusion.Matcher
	logger  *zap.Logger
}

// New returns a Walker applying matcher to every directory listing.
func New(matcher exclusion.Matcher, logger *zap.Logger) *Walker {
	return &Walker{matcher: matcher, logger: utils.LoggerOrNop(logger)}
}

// Walk visits root and every non-excluded directory beneath it. Excluded directories are
// dropped from their parent's listing before descent, so nothing below them is visited.
// Unreadable directories are logged and skipped.
func (walker *Walker) Walk(root string, visit Visitor) error {
	absoluteRoot, absoluteErr := filepath.Abs(root)
	if absoluteErr != nil {
		return fmt.Errorf(errorAbsolutePathFormat, root, absoluteErr)
	}
	return walker.walkDirectory(absoluteRoot, absoluteRoot, visit)
}

// CountEligibleFiles counts the non-excluded files under root accepted by isEligible.
// The count is an estimate: the tree may change before a later walk.
func (walker *Walker) CountEligibleFiles(root string, isEligible func(path string) bool) (int, error) {
	total := 0
	walkErr := walker.Walk(root, func(node types.TreeNode) error {
		for _, fileName := range node.Files {
			if isEligible(filepath.Join(node.Path, fileName)) {
				total++
			}
		}
		return nil
	})
	return total, walkErr
}

func (walker *Walker) walkDirectory(directoryPath string, rootPath string, visit Visitor) error {
	entries, readErr := readDirectoryUnsorted(directoryPath)
	if readErr != nil {
		walker.logger.Warn("skipping unreadable directory", zap.String("path", directoryPath), zap.Error(readErr))
		return nil
	}

	node := types.TreeNode{
		Path:         directoryPath,
		RelativePath: utils.RelativePathOrEmpty(directoryPath, rootPath),
		Directories:  []string{},
		Files:        []string{},
	}
	var descendInto []string
	for _, entry := range entries {
		entryName := entry.Name()
		isDirectory, canDescend := classifyEntry(directoryPath, entry)
		if isDirectory {
			if walker.matcher.IsExcludedDir(entryName) {
				continue
			}
			node.Directories = append(node.Directories, entryName)
			if canDescend {
				descendInto = append(descendInto, entryName)
			}
			continue
		}
		if walker.matcher.IsExcludedFile(entryName) {
			continue
		}
		node.Files = append(node.Files, entryName)
	}

	if visitErr := visit(node); visitErr != nil {
		return visitErr
	}

	for _, directoryName := range descendInto {
		if walkErr := walker.walkDirectory(filepath.Join(directoryPath, directoryName), rootPath, visit); walkErr != nil {
			return walkErr
		}
	}
	return nil
}

// readDirectoryUnsorted lists a directory in native order; os.ReadDir would sort by name.
func readDirectoryUnsorted(directoryPath string) ([]fs.DirEntry, error) {
	directoryHandle, openErr := os.Open(directoryPath)
	if openErr != nil {
		return nil, openErr
	}
	defer directoryHandle.Close()
	return directoryHandle.ReadDir(-1)
}

// classifyEntry reports whether entry is listed as a directory and whether the walk may
// descend into it. Symbolic links to directories are listed but never followed.
func classifyEntry(parentPath string, entry fs.DirEntry) (bool, bool) {
	if entry.IsDir() {
		return true, true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false, false
	}
	targetInfo, statErr := os.Stat(filepath.Join(parentPath, entry.Name()))
	if statErr != nil || !targetInfo.IsDir() {
		return false, false
	}
	return true, false
}
