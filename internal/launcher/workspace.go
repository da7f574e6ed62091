package launcher

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// WorkspaceRoot returns the top of the git work tree containing dir, or ""
// when dir is not inside a repository.
func WorkspaceRoot(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	wt, err := repo.Worktree()
	if err != nil {
		return ""
	}
	return wt.Filesystem.Root()
}

// ProjectDir picks the project an IDE should open for a file in dir: the
// configured root project path, else the enclosing work tree, else dir.
func ProjectDir(rootPath, dir string) string {
	if rootPath != "" {
		return rootPath
	}
	if root := WorkspaceRoot(dir); root != "" {
		return root
	}
	return dir
}

// HasIdeaDir reports whether dir holds a JetBrains project (.idea directory).
func HasIdeaDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".idea"))
	return err == nil && info.IsDir()
}
