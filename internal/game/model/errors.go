package model

import "NewWorld/modules/kit/errx"

// 模型层业务错误码。
const (
	// CodeValidation 表示操作前置条件不满足（如停火只能从战争进入）。
	CodeValidation errx.Code = "VALIDATION_FAILED"
	// CodeResolution 表示消息里的 id 解析不到对象，或对象不属于请求方。
	CodeResolution errx.Code = "RESOLUTION_FAILED"
)

var (
	ErrInvalidState  = errx.NewBiz(CodeValidation, "操作前置条件不满足")
	ErrResolveFailed = errx.NewBiz(CodeResolution, "对象不存在或不属于请求方")
)
