package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/zhouzirui/z-shelf/backend/internal/model/book"
)

// FileStore 将整个图书集合以 JSON 数组形式保存在单个文件中。
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load 读取并解析备份文件；任何失败都返回空集合而不是错误。
func (f *FileStore) Load() []book.Book {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[storage] failed to read %s, starting empty: %v", f.path, err)
		}
		return []book.Book{}
	}

	var books []book.Book
	if err := json.Unmarshal(data, &books); err != nil {
		log.Printf("[storage] failed to parse %s, starting empty: %v", f.path, err)
		f.quarantine()
		return []book.Book{}
	}

	seen := make(map[string]struct{}, len(books))
	loaded := make([]book.Book, 0, len(books))
	for _, b := range books {
		if _, dup := seen[b.BookID]; dup {
			log.Printf("[storage] skipping duplicate book_id %q in %s", b.BookID, f.path)
			continue
		}
		seen[b.BookID] = struct{}{}
		loaded = append(loaded, b)
	}
	return loaded
}

// quarantine 将无法解析的文件改名保留，避免下一次 Save 覆盖原始数据
func (f *FileStore) quarantine() {
	backup := fmt.Sprintf("%s.corrupt-%s", f.path, uuid.NewString())
	if err := os.Rename(f.path, backup); err != nil {
		log.Printf("[storage] failed to move %s aside: %v", f.path, err)
		return
	}
	log.Printf("[storage] moved unreadable %s to %s", f.path, backup)
}

// Save overwrites the backing file with the full collection.
// The data goes to a temp file in the same directory first and is renamed into place.
func (f *FileStore) Save(books []book.Book) error {
	if books == nil {
		books = []book.Book{}
	}

	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode books: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(f.path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(f.path), uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("storage: replace %s: %w", f.path, err)
	}
	return nil
}
