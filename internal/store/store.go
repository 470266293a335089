// Package store keeps scene documents on disk, one msgpack snapshot per
// document, guarded by a file lock shared by the CLI and the daemon.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/arduino/go-paths-helper"
	"github.com/gosimple/slug"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/figgen/figgen-cli/internal/fatomic"
	"github.com/figgen/figgen-cli/internal/scene"
)

const documentExt = ".figgen"

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidName      = errors.New("invalid document name")
)

type DocumentInfo struct {
	Name     string    `json:"name"`
	File     string    `json:"file"`
	Frames   int       `json:"frames"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

type DocumentStore struct {
	dir  *paths.Path
	opts []scene.Option
}

// New returns a store saving documents in dir. opts are applied to every
// document the store creates or loads.
func New(dir *paths.Path, opts ...scene.Option) *DocumentStore {
	return &DocumentStore{dir: dir, opts: opts}
}

func (s *DocumentStore) Dir() *paths.Path {
	return s.dir
}

// FileName returns the file holding the named document.
func FileName(name string) (string, error) {
	id := slug.Make(name)
	if id == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return id + documentExt, nil
}

func (s *DocumentStore) path(name string) (*paths.Path, error) {
	file, err := FileName(name)
	if err != nil {
		return nil, err
	}
	return s.dir.Join(file), nil
}

// List describes every stored document, sorted by name.
func (s *DocumentStore) List() ([]DocumentInfo, error) {
	if !s.dir.IsDir() {
		return []DocumentInfo{}, nil
	}
	files, err := s.dir.ReadDir()
	if err != nil {
		return nil, fmt.Errorf("cannot read documents directory %q: %w", s.dir, err)
	}
	files.FilterSuffix(documentExt)

	res := make([]DocumentInfo, 0, len(files))
	for _, file := range files {
		doc, err := s.read(file)
		if err != nil {
			slog.Warn("skipping unreadable document", slog.String("file", file.String()), slog.String("error", err.Error()))
			continue
		}
		info := DocumentInfo{
			Name:   doc.Name(),
			File:   file.Base(),
			Frames: len(doc.CurrentPage().Children),
		}
		if st, err := file.Stat(); err == nil {
			info.Size = st.Size()
			info.Modified = st.ModTime()
		}
		res = append(res, info)
	}
	slices.SortFunc(res, func(a, b DocumentInfo) int { return strings.Compare(a.Name, b.Name) })
	return res, nil
}

// Load reads the named document.
func (s *DocumentStore) Load(name string) (*scene.MemoryDocument, error) {
	file, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if !file.Exist() {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
	}
	unlock, err := getReadLock(file)
	if err != nil {
		return nil, err
	}
	defer releaseLock(file, unlock)

	doc, err := s.read(file)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
	}
	return doc, err
}

// Update loads the named document, creating it when missing, runs fn on it
// and saves the result. The document is locked for the whole call. When fn
// fails the document is saved anyway if saveOnError is set, so partial
// results stay visible.
func (s *DocumentStore) Update(name string, saveOnError bool, fn func(*scene.MemoryDocument) error) (*scene.MemoryDocument, error) {
	file, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if err := s.dir.MkdirAll(); err != nil {
		return nil, err
	}
	unlock, err := getWriteLock(file)
	if err != nil {
		return nil, err
	}
	defer releaseLock(file, unlock)

	doc, err := s.read(file)
	if errors.Is(err, os.ErrNotExist) {
		doc, err = scene.NewMemoryDocument(name, s.opts...), nil
	}
	if err != nil {
		return nil, err
	}

	fnErr := fn(doc)
	if fnErr != nil && !saveOnError {
		return doc, fnErr
	}
	if err := s.write(file, doc); err != nil {
		return doc, errors.Join(fnErr, err)
	}
	return doc, fnErr
}

// Delete removes the named document.
func (s *DocumentStore) Delete(name string) error {
	file, err := s.path(name)
	if err != nil {
		return err
	}
	if !file.Exist() {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
	}
	unlock, err := getWriteLock(file)
	if err != nil {
		return err
	}
	defer releaseLock(file, unlock)

	if err := file.Remove(); err != nil {
		return err
	}
	return removeLockFile(file)
}

func (s *DocumentStore) read(file *paths.Path) (*scene.MemoryDocument, error) {
	content, err := file.ReadFile()
	if err != nil {
		return nil, err
	}
	doc := &scene.MemoryDocument{}
	if err := msgpack.Unmarshal(content, doc); err != nil {
		return nil, fmt.Errorf("cannot decode document %q: %w", file.Base(), err)
	}
	for _, opt := range s.opts {
		opt(doc)
	}
	return doc, nil
}

func (s *DocumentStore) write(file *paths.Path, doc *scene.MemoryDocument) error {
	data, err := msgpack.Marshal(doc)
	if err != nil {
		return fmt.Errorf("cannot encode document %q: %w", doc.Name(), err)
	}
	return fatomic.WriteFile(file, data, 0o644)
}
