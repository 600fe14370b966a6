package options

import "testing"

func TestDefaults(t *testing.T) {
	o := New(nil)

	if !o.GetBool(KeyFogOfWar) {
		t.Fatalf("fogOfWar default should be true")
	}
	if o.GetBool(KeyCustomIgnoreBoycott) {
		t.Fatalf("customIgnoreBoycott default should be false")
	}
	if got := o.GetInt(KeyIndependenceSoL); got != 50 {
		t.Fatalf("independenceSoL default = %d", got)
	}
}

func TestApply_未知选项按默认读取(t *testing.T) {
	o := New(nil)
	o.Apply(map[string]any{
		"startingMoney": 1000,
		"noSuchOption":  true,
	})

	if got := o.GetInt(KeyStartingMoney); got != 1000 {
		t.Fatalf("startingMoney = %d", got)
	}
	if o.GetBool("noSuchOption") {
		t.Fatalf("unknown option must read as zero default")
	}
	if o.GetInt("alsoMissing") != 0 {
		t.Fatalf("unknown int option must read 0")
	}
}

func TestSet_百分比选项收敛到范围内(t *testing.T) {
	o := New(nil)

	o.Set(KeyIndependenceSoL, 150)
	if got := o.GetInt(KeyIndependenceSoL); got != 100 {
		t.Fatalf("clamped high = %d, want 100", got)
	}

	o.Set(KeyIndependenceSoL, -3)
	if got := o.GetInt(KeyIndependenceSoL); got != 0 {
		t.Fatalf("clamped low = %d, want 0", got)
	}
}
