package errx

import (
	"errors"
	"fmt"
	"testing"
)

func TestIs_按错误码判断语义(t *testing.T) {
	base := NewBiz("VALIDATION_FAILED", "状态不满足")
	derived := base.WithData("player", "p1").WithCause(fmt.Errorf("detail"))

	if !errors.Is(derived, base) {
		t.Fatalf("derived should match base by code")
	}
	other := NewBiz("RESOLUTION_FAILED", "对象不存在")
	if errors.Is(derived, other) {
		t.Fatalf("different codes must not match")
	}
}

func TestWithData_不污染原错误(t *testing.T) {
	base := NewBiz("VALIDATION_FAILED", "msg")
	derived := base.WithData("k", "v")

	if base.Data() != nil {
		t.Fatalf("base data should stay nil, got %v", base.Data())
	}
	if got := derived.Data()["k"]; got != "v" {
		t.Fatalf("derived data = %v, want v", got)
	}
}

func TestWithCause_系统错误捕获一次栈(t *testing.T) {
	sysErr := ErrInternal.WithCause(errors.New("db down"))
	if len(sysErr.Stack()) == 0 {
		t.Fatalf("sys error should capture stack on first cause")
	}

	wrapped := ErrIO.WithCause(sysErr)
	if len(wrapped.Stack()) != 0 {
		t.Fatalf("stack should not be captured twice along the chain")
	}
}

func TestIsBizError(t *testing.T) {
	biz := NewBiz("VALIDATION_FAILED", "x")
	if !IsBizError(fmt.Errorf("wrap: %w", biz)) {
		t.Fatalf("wrapped biz error should be detected")
	}
	if IsBizError(ErrInternal) {
		t.Fatalf("sys error is not biz")
	}
	if CodeOf(biz) != "VALIDATION_FAILED" {
		t.Fatalf("CodeOf = %s", CodeOf(biz))
	}
}
