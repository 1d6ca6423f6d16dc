package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltTimeout = 5 * time.Second

var (
	boltFilesBucket = []byte("files")
	boltDirsBucket  = []byte("dirs")
	boltDirMarker   = []byte{1}
)

// BoltStorage keeps the whole sandbox inside a single bbolt database file.
// Paths are bucket keys, so directory listings are prefix scans.
type BoltStorage struct {
	db *bolt.DB
}

// NewBoltStorage opens or creates the database at file.
// The file is created with owner-only permissions.
func NewBoltStorage(file string) (*BoltStorage, error) {
	if file == "" {
		return nil, ErrInvalidConfig
	}
	if err := os.MkdirAll(filepath.Dir(file), localDirPerm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	db, err := bolt.Open(file, localFilePerm, &bolt.Options{Timeout: boltTimeout})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(boltFilesBucket); err != nil {
			return err
		}
		dirs, err := tx.CreateBucketIfNotExists(boltDirsBucket)
		if err != nil {
			return err
		}
		return dirs.Put([]byte("."), boltDirMarker)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	return &BoltStorage{db: db}, nil
}

// Close releases the database file lock.
func (b *BoltStorage) Close() error {
	return b.db.Close()
}

func (b *BoltStorage) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := validatePath(p)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = b.db.View(func(tx *bolt.Tx) error {
		v, ok := lookup(tx.Bucket(boltFilesBucket), key)
		if !ok {
			if tx.Bucket(boltDirsBucket).Get([]byte(key)) != nil {
				return fmt.Errorf("%w: %s", ErrIsDirectory, p)
			}
			return fmt.Errorf("%w: %s", ErrFileNotFound, p)
		}
		// Values are only valid for the life of the transaction.
		data = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *BoltStorage) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := validatePath(p)
	if err != nil {
		return nil, err
	}
	if key == "." || b.DirExists(ctx, key) {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, p)
	}
	return &boltWriter{storage: b, key: key}, nil
}

func (b *BoltStorage) Exists(ctx context.Context, p string) bool {
	if ctx.Err() != nil {
		return false
	}
	key, err := validatePath(p)
	if err != nil {
		return false
	}

	var ok bool
	_ = b.db.View(func(tx *bolt.Tx) error {
		_, ok = lookup(tx.Bucket(boltFilesBucket), key)
		return nil
	})
	return ok
}

func (b *BoltStorage) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := validatePath(p)
	if err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		files := tx.Bucket(boltFilesBucket)
		if _, ok := lookup(files, key); !ok {
			if tx.Bucket(boltDirsBucket).Get([]byte(key)) != nil {
				return fmt.Errorf("%w: %s", ErrIsDirectory, p)
			}
			return fmt.Errorf("%w: %s", ErrFileNotFound, p)
		}
		if err := files.Delete([]byte(key)); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err)
		}
		return nil
	})
}

func (b *BoltStorage) CreateDir(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := validatePath(p)
	if err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		if _, ok := lookup(tx.Bucket(boltFilesBucket), key); ok {
			return fmt.Errorf("%w: %s", ErrNotDirectory, p)
		}
		if err := putDirs(tx.Bucket(boltDirsBucket), key); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
		}
		return nil
	})
}

func (b *BoltStorage) DirExists(ctx context.Context, p string) bool {
	if ctx.Err() != nil {
		return false
	}
	key, err := validatePath(p)
	if err != nil {
		return false
	}

	var ok bool
	_ = b.db.View(func(tx *bolt.Tx) error {
		ok = tx.Bucket(boltDirsBucket).Get([]byte(key)) != nil
		return nil
	})
	return ok
}

func (b *BoltStorage) List(ctx context.Context, dir, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := validatePath(dir)
	if err != nil {
		return nil, err
	}

	names := []string{}
	err = b.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(boltDirsBucket).Get([]byte(key)) == nil {
			if _, ok := lookup(tx.Bucket(boltFilesBucket), key); ok {
				return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
			}
			return fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}

		prefix := []byte(key + "/")
		if key == "." {
			prefix = nil
		}

		c := tx.Bucket(boltFilesBucket).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := string(k[len(prefix):])
			if strings.Contains(name, "/") {
				continue
			}
			ok, err := matchName(pattern, name)
			if err != nil {
				return err
			}
			if ok {
				names = append(names, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Cursor order is already byte-sorted.
	return names, nil
}

func (b *BoltStorage) put(key string, data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := putDirs(tx.Bucket(boltDirsBucket), path.Dir(key)); err != nil {
			return err
		}
		return tx.Bucket(boltFilesBucket).Put([]byte(key), data)
	})
}

// lookup finds an exact key. A cursor is used because empty values and
// missing keys are indistinguishable through Get.
func lookup(b *bolt.Bucket, key string) ([]byte, bool) {
	k, v := b.Cursor().Seek([]byte(key))
	if k == nil || string(k) != key {
		return nil, false
	}
	return v, true
}

// putDirs registers dir and all of its parents.
func putDirs(dirs *bolt.Bucket, dir string) error {
	for {
		if err := dirs.Put([]byte(dir), boltDirMarker); err != nil {
			return err
		}
		if dir == "." {
			return nil
		}
		dir = path.Dir(dir)
	}
}

type boltWriter struct {
	storage *BoltStorage
	key     string
	buf     bytes.Buffer
	closed  bool
}

func (w *boltWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	return w.buf.Write(p)
}

func (w *boltWriter) Close() error {
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true
	// Empty files are stored as empty, non-nil values.
	data := w.buf.Bytes()
	if data == nil {
		data = []byte{}
	}
	if err := w.storage.put(w.key, data); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	return nil
}
