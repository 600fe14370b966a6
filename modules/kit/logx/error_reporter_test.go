package logx

import (
	"errors"
	"testing"

	"NewWorld/modules/kit/errx"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	cause := errors.New("db down")
	e := errx.NewSys("SCORE_UNAVAILABLE", "名人堂存储不可用").
		WithData("action", "list").
		WithCause(cause)

	meta := BuildErrorLog(e)
	if meta.Error == "" {
		t.Fatalf("期望 meta.Error 非空")
	}
	if meta.Code == "" {
		t.Fatalf("期望 meta.Code 非空")
	}
	if meta.Msg == "" {
		t.Fatalf("期望 meta.Msg 非空")
	}
	if meta.Data == nil || meta.Data["action"] != "list" {
		t.Fatalf("期望 meta.Data 包含 action=list, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 meta.Origin/meta.Stack 非空（错误发生/转换处栈） origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}

func TestBuildErrorLog_空错误返回零值(t *testing.T) {
	meta := BuildErrorLog(nil)
	if meta.Error != "" || meta.Code != "" || len(meta.CauseChain) != 0 {
		t.Fatalf("nil 错误应得零值, got=%+v", meta)
	}
}
