package errx

// 这里只定义“跨包统一”的系统类错误码。
//
// 约束：
// - 这些错误码用于“系统/技术类错误”归一化（便于告警、观测、排障）
// - 业务域错误码（例如 VALIDATION_FAILED）由各业务包自行定义，不允许在 kit 里集中

const (
	// CodeInternal 表示服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeIO 表示底层读写失败（文件/网络流），调用方通常需要断开或放弃本次操作。
	CodeIO Code = "IO_ERROR"
	// CodeUnavailable 表示依赖不可用（DB/下游服务等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeReqParamError 表示请求参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

// 统一系统类哨兵错误（允许 WithData/WithCause 派生新对象）。
var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrIO          = NewSys(CodeIO, "读写失败")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrReqParamERR = NewSys(CodeReqParamError, "请求参数错误")
)
