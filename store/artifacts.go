package store

import (
	"context"

	"github.com/rushteam/stockrec/core"
)

// artifactKeyPrefix 是模型工件在存储里的 key 前缀，每个人格一份。
const artifactKeyPrefix = "model:artifact:"

// ArtifactStore 是 core.Store 实现的模型工件存储。
// 工件是不透明字节串（模型自己负责编解码），重训后 Save 整体替换，
// 绝不原地修改。
type ArtifactStore struct {
	Store core.Store
}

func NewArtifactStore(s core.Store) *ArtifactStore {
	return &ArtifactStore{Store: s}
}

var _ core.ArtifactStore = (*ArtifactStore)(nil)

func (s *ArtifactStore) Exists(ctx context.Context, persona string) (bool, error) {
	_, err := s.Store.Get(ctx, artifactKeyPrefix+persona)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *ArtifactStore) Load(ctx context.Context, persona string) ([]byte, error) {
	return s.Store.Get(ctx, artifactKeyPrefix+persona)
}

func (s *ArtifactStore) Save(ctx context.Context, persona string, data []byte) error {
	return s.Store.Set(ctx, artifactKeyPrefix+persona, data)
}
