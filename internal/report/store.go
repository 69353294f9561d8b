// Package report 는 생성된 투자 보고서의 영속화를 담당한다.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrNotFound 는 보고서 ID 에 해당하는 보고서가 없을 때 반환된다.
var ErrNotFound = errors.New("보고서를 찾을 수 없습니다")

// Store 는 보고서 저장소 인터페이스.
type Store interface {
	// Save 는 보고서 본문을 저장하고 새 보고서 ID 를 반환한다.
	Save(text string) (string, error)
	// Load 는 보고서 ID 로 본문을 조회한다. 없으면 ErrNotFound.
	Load(id string) (string, error)
}

// FileStore 는 보고서를 <dir>/<uuid>.txt 파일로 저장하는 구현.
// 한 번 저장된 보고서는 변경되지 않는다.
type FileStore struct {
	dir string
}

// NewFileStore 는 저장 디렉터리를 만들고 FileStore 를 생성한다.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("보고서 디렉터리 생성에 실패했습니다: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save 는 본문을 새 UUID 파일에 기록한다.
func (s *FileStore) Save(text string) (string, error) {
	id := uuid.NewString()
	path := filepath.Join(s.dir, id+".txt")

	// 생성 전용 플래그로 기존 보고서 덮어쓰기를 차단한다
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("보고서 파일 생성에 실패했습니다: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		return "", fmt.Errorf("보고서 파일 쓰기에 실패했습니다: %w", err)
	}
	return id, nil
}

// Load 는 보고서 ID 로 본문을 읽는다.
// ID 는 UUID 형식만 허용되며, 그 밖의 문자열은 경로로 해석하지 않고 ErrNotFound 로 취급한다.
func (s *FileStore) Load(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.dir, id+".txt"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("보고서 파일 읽기에 실패했습니다: %w", err)
	}
	return string(data), nil
}

var _ Store = (*FileStore)(nil)
