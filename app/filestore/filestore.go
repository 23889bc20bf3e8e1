package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

// FileStore menyimpan blob dokumen proposal dan mengembalikan locator
// yang dicatat di kolom Document.FileID. Implementasi produksi memakai
// GridFS (MongoDB); test memakai versi in-memory.
type FileStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, fileID string, w io.Writer) error
	Delete(ctx context.Context, fileID string) error
}

var ErrFileNotFound = errors.New("file tidak ditemukan")

// ===== GridFS =====

type gridFSStore struct {
	bucket *gridfs.Bucket
}

// NewGridFS membuat FileStore di atas bucket GridFS default database.
func NewGridFS(db *mongo.Database) (FileStore, error) {
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		return nil, fmt.Errorf("gagal membuat bucket gridfs: %w", err)
	}
	return &gridFSStore{bucket: bucket}, nil
}

func (s *gridFSStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	oid, err := s.bucket.UploadFromStream(filename, r)
	if err != nil {
		return "", fmt.Errorf("gridfs upload error: %w", err)
	}
	return oid.Hex(), nil
}

func (s *gridFSStore) Open(ctx context.Context, fileID string, w io.Writer) error {
	oid, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return ErrFileNotFound
	}
	if _, err := s.bucket.DownloadToStream(oid, w); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("gridfs download error: %w", err)
	}
	return nil
}

func (s *gridFSStore) Delete(ctx context.Context, fileID string) error {
	oid, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return ErrFileNotFound
	}
	if err := s.bucket.Delete(oid); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("gridfs delete error: %w", err)
	}
	return nil
}

// ===== In-memory =====

type memoryStore struct {
	mu    sync.Mutex
	seq   int
	files map[string][]byte
}

// NewMemory membuat FileStore in-memory untuk test.
func NewMemory() FileStore {
	return &memoryStore{files: make(map[string][]byte)}
}

func (s *memoryStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("mem-%d", s.seq)
	s.files[id] = data
	return id, nil
}

func (s *memoryStore) Open(ctx context.Context, fileID string, w io.Writer) error {
	s.mu.Lock()
	data, ok := s.files[fileID]
	s.mu.Unlock()
	if !ok {
		return ErrFileNotFound
	}
	_, err := io.Copy(w, bytes.NewReader(data))
	return err
}

func (s *memoryStore) Delete(ctx context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[fileID]; !ok {
		return ErrFileNotFound
	}
	delete(s.files, fileID)
	return nil
}
