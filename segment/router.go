package segment

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Router maps speaker labels to output folders under a root directory.
// Distinct labels always get distinct folders: when two labels sanitise to
// the same name, the later one gets a numeric suffix ("a_b_2").
type Router struct {
	root  string
	dirs  map[string]string
	names map[string]string
	taken map[string]bool
}

// NewRouter creates a Router rooted at root.
func NewRouter(root string) *Router {
	return &Router{
		root:  root,
		dirs:  make(map[string]string),
		names: make(map[string]string),
		taken: make(map[string]bool),
	}
}

// Root returns the output root.
func (r *Router) Root() string { return r.root }

// Dir returns the folder for speaker, creating it on first use.
func (r *Router) Dir(speaker string) (string, error) {
	if dir, ok := r.dirs[speaker]; ok {
		return dir, nil
	}
	name := r.assign(speaker)
	dir := filepath.Join(r.root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	r.dirs[speaker] = dir
	r.names[speaker] = name
	r.taken[name] = true
	return dir, nil
}

// Folder returns the folder name assigned to speaker, or "" when Dir has
// not been called for it yet.
func (r *Router) Folder(speaker string) string { return r.names[speaker] }

func (r *Router) assign(speaker string) string {
	base := FolderName(speaker)
	name := base
	for n := 2; r.taken[name]; n++ {
		name = base + "_" + strconv.Itoa(n)
	}
	return name
}

// FolderName returns the directory name used for a speaker label. Path
// separators are replaced so every folder sits directly under the root.
func FolderName(speaker string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, speaker)
	switch name {
	case "", ".", "..":
		return strings.Repeat("_", max(len(name), 1))
	}
	return name
}

// FileName returns the clip file name for a time range.
func FileName(start, end float64, ext string) string {
	return "segment_" + formatTime(start) + "_" + formatTime(end) + ext
}
