package core

import "context"

// Catalog 是行情目录的领域接口（外部协作方）。
//
// 设计原则：
//   - 排序引擎对目录只读；字段缺失按文档默认值处理（数值=0、波动性=medium）
//   - 目录不可用是硬失败：实现方应返回 ErrCatalogUnavailable 或可被
//     IsCatalogUnavailable 识别的错误，调用方不得把空结果当成有效的空目录
type Catalog interface {
	// ListItems 返回全量个股
	ListItems(ctx context.Context) ([]*Item, error)
}

// ActionLog 是用户行为日志的领域接口（追加型事件池）。
//
// Append 端由外围应用在用户交互时调用；List 端由离线训练读取，
// 返回按时间升序排列的事件。
type ActionLog interface {
	// Append 追加一条行为事件
	Append(ctx context.Context, event ActionEvent) error

	// ListByPersona 返回某个人格的全部行为事件（时间升序）
	ListByPersona(ctx context.Context, persona string) ([]ActionEvent, error)
}

// ArtifactStore 是模型工件存储的领域接口。
//
// 工件是训练好的排序模型的不透明字节串，按人格一份；
// 重训产出新工件并按 key 原子替换旧工件，绝不原地修改。
type ArtifactStore interface {
	// Exists 判断某个人格是否有已训练的工件
	Exists(ctx context.Context, persona string) (bool, error)

	// Load 读取工件字节；不存在时返回可被 IsNotFound 识别的错误
	Load(ctx context.Context, persona string) ([]byte, error)

	// Save 写入（替换）工件字节
	Save(ctx context.Context, persona string, data []byte) error
}

// ErrCatalogUnavailable 表示行情目录不可用（ExternalFetchFailure）。
var ErrCatalogUnavailable = NewDomainError(ModuleCatalog, ErrorCodeUnavailable, "catalog: unavailable")
