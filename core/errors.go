package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 错误分层（与降级策略对应）：
//   - 模型工件缺失（artifact NOT_FOUND）→ 本地降级为纯规则打分，不上抛
//   - 训练数据不足（train INSUFFICIENT_DATA）→ 记入训练汇总，不中断批次
//   - 未训练即预测（model NOT_TRAINED）→ 单次打分降级，不中断请求
//   - 行情目录不可用（catalog UNAVAILABLE）→ 上抛给调用方，硬失败
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INSUFFICIENT_DATA"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "train", "model", "catalog"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound         = "NOT_FOUND"          // 资源不存在
	ErrorCodeNotSupported     = "NOT_SUPPORTED"      // 操作不支持
	ErrorCodeUnavailable      = "UNAVAILABLE"        // 服务不可用
	ErrorCodeInvalidInput     = "INVALID_INPUT"      // 输入无效
	ErrorCodeInsufficientData = "INSUFFICIENT_DATA"  // 训练数据不足
	ErrorCodeNotTrained       = "NOT_TRAINED"        // 模型未训练即预测
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleCatalog = "catalog" // 行情目录
	ModuleModel   = "model"   // 排序模型
	ModuleTrain   = "train"   // 离线训练
)

func hasCode(err error, module, code string) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Module == module && domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsInsufficientData 检查错误是否为训练数据不足。
func IsInsufficientData(err error) bool {
	return hasCode(err, ModuleTrain, ErrorCodeInsufficientData)
}

// IsNotTrained 检查错误是否为未训练即预测。
func IsNotTrained(err error) bool {
	return hasCode(err, ModuleModel, ErrorCodeNotTrained)
}

// IsCatalogUnavailable 检查错误是否为行情目录不可用（对调用方是硬失败）。
func IsCatalogUnavailable(err error) bool {
	return hasCode(err, ModuleCatalog, ErrorCodeUnavailable)
}
