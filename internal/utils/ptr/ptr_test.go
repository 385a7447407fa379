package ptr

import "testing"

func TestTo(t *testing.T) {
	s := "gopher"
	p := To(s)
	if p == nil || *p != s {
		t.Fatalf("To(%q) = %v", s, p)
	}
	s = "changed"
	if *p != "gopher" {
		t.Error("To must copy its argument")
	}
}

func TestDeref(t *testing.T) {
	if got := Deref[string](nil, "fallback"); got != "fallback" {
		t.Errorf("Deref(nil) = %q, want fallback", got)
	}
	if got := Deref(To(false), true); got {
		t.Error("Deref(&false) = true, want false")
	}
	var empty []string
	if got := Deref(To(empty), []string{"x"}); got != nil {
		t.Errorf("Deref(&nil slice) = %v, want nil", got)
	}
}
