package lsp

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.lsp.dev/uri"
)

// logWatcher watches rootURI's directory tree for .log file writes and
// invokes cb with the sibling .tex document's file:// URI,
// per spec.md §4.7's "initialized" behavior.
type logWatcher struct {
	fsw *fsnotify.Watcher
	cb  func(texURI string)
}

func newLogWatcher(rootURI string, cb func(texURI string)) (*logWatcher, error) {
	root := uri.URI(rootURI).Filename()
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addRecursive(fsw, root); err != nil {
		fsw.Close()
		return nil, err
	}
	return &logWatcher{fsw: fsw, cb: cb}, nil
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
}

func (w *logWatcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Ext(event.Name) != ".log" {
				continue
			}
			texPath := strings.TrimSuffix(event.Name, ".log") + ".tex"
			w.cb("file://" + texPath)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *logWatcher) close() {
	w.fsw.Close()
}
