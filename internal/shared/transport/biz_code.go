package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 客户端可见的业务码。0 表示成功，1~499 为业务拒绝，>=500 为系统错误。
const (
	OK             = 0
	InvalidParam   = 1   // 请求参数不完整或无法解析
	SessionInvalid = 2   // 连接未绑定玩家或 token 失效
	ResolveFailed  = 3   // 引用的对象不存在或不属于请求方
	StateInvalid   = 4   // 游戏状态不满足操作前置条件
	TradeRefused   = 5   // 交易被规则拒绝（禁运、无空间、无报价等）
	SystemError    = 500 // 服务器内部错误
)
