package main

import (
	"os"
	"path/filepath"

	"github.com/vvk-ee/bdoc-verify/digest"
)

// dirContainer implements xades.ContainerInfo over a directory of loose
// files, standing in for the BDOC container manifest this engine treats as
// an external collaborator (container parsing is out of scope for the core).
type dirContainer struct {
	root  string
	files []string
	seen  map[string]bool
}

func newDirContainer(root string) (*dirContainer, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	return &dirContainer{root: root, files: files}, nil
}

func (c *dirContainer) DocumentCount() int { return len(c.files) }

func (c *dirContainer) CheckDocumentsBegin() { c.seen = make(map[string]bool) }

func (c *dirContainer) CheckDocument(uri, digestAlgURI string, digestValue []byte) {
	data, err := os.ReadFile(filepath.Join(c.root, filepath.Clean(uri)))
	if err != nil {
		return
	}
	got, err := digest.Sum(digestAlgURI, data)
	if err != nil {
		return
	}
	if string(got) == string(digestValue) {
		c.seen[uri] = true
	}
}

func (c *dirContainer) CheckDocumentsResult() bool {
	return len(c.seen) == len(c.files)
}
