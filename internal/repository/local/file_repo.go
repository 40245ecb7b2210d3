package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
)

// FileRepo хранит защищённые файлы товаров на диске внутри PROTECTED_ROOT.
// os.Root не даёт выйти за пределы корня через ".." и симлинки.
type FileRepo struct {
	root   *os.Root
	logger logger.Logger
}

func NewFileRepo(root *os.Root, logger logger.Logger) *FileRepo {
	return &FileRepo{root: root, logger: logger}
}

// OpenFileRepo создаёт корень, если его нет, и открывает его.
func OpenFileRepo(dir string, logger logger.Logger) (*FileRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return NewFileRepo(root, logger), nil
}

func (f *FileRepo) Close() error {
	return f.root.Close()
}

// Save атомарно записывает файл: во временный файл, затем rename.
func (f *FileRepo) Save(ctx context.Context, key string, content io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tmpFile := tmpFileName()
	t, err := f.root.Create(tmpFile)
	if err != nil {
		return 0, e.Wrap("could not open temp file", err)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			f.logger.Warnf("failed to close tmp file: %v", closeErr)
		}
		if !success {
			if rmErr := f.root.Remove(tmpFile); rmErr != nil {
				f.logger.Warnf("failed to remove tmp file: %v", rmErr)
			}
		}
	}()

	written, err := io.Copy(t, &ctxReader{ctx: ctx, r: content})
	if err != nil {
		return 0, e.Wrap("could not copy file contents", err)
	}

	if err := t.Sync(); err != nil {
		return 0, e.Wrap("could not sync written file", err)
	}

	if dir := path.Dir(key); dir != "." {
		if err := f.root.MkdirAll(dir, 0o755); err != nil {
			return 0, e.Wrap("could not create intermediate directories", err)
		}
	}

	if err := f.root.Rename(tmpFile, key); err != nil {
		return 0, e.Wrap("failed to rename file", err)
	}

	success = true
	return written, nil
}

// Open открывает файл для отдачи, для отсутствующего файла возвращает e.ErrLocalFileNotFound.
func (f *FileRepo) Open(ctx context.Context, key string) (*usecase.LocalFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := f.root.Open(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, e.Wrap(key, e.ErrLocalFileNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if info.IsDir() {
		file.Close()
		return nil, e.Wrap(key, e.ErrLocalFileNotFound)
	}

	return usecase.NewLocalFile(file, path.Base(key), info.Size(), info.ModTime()), nil
}

// Remove удаляет файл; отсутствие файла ошибкой не считается.
func (f *FileRepo) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := f.root.Remove(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.NewString())
}
