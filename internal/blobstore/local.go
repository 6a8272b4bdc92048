package blobstore

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// LocalStore хранит загруженные файлы в локальной директории и отдает ссылки вида <prefix>/<file>
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore создает хранилище и директорию для него
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create upload dir %s", dir)
	}
	return &LocalStore{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}, nil
}

// Dir возвращает директорию с файлами (для раздачи статики)
func (s *LocalStore) Dir() string {
	return s.dir
}

// URLPrefix возвращает публичный префикс ссылок
func (s *LocalStore) URLPrefix() string {
	return s.urlPrefix
}

// Save сохраняет содержимое под уникальным именем с расширением исходного файла
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := "logo-" + uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	target := filepath.Join(s.dir, name)

	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "create blob")
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return "", errors.Wrap(err, "write blob")
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return "", errors.Wrap(err, "close blob")
	}

	return path.Join(s.urlPrefix, name), nil
}

// Delete удаляет файл по ссылке, выданной Save; отсутствующий файл не считается ошибкой
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	name := path.Base(ref)
	if name == "." || name == "/" || !strings.HasPrefix(ref, s.urlPrefix+"/") {
		return errors.Newf("unknown blob reference %q", ref)
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "delete blob")
	}
	return nil
}
