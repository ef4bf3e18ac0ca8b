package useragent

import "testing"

func TestPoolRoundRobin(t *testing.T) {
	p := NewPool([]string{"ua-one", "ua-two", "ua-three"})
	want := []string{"ua-one", "ua-two", "ua-three", "ua-one", "ua-two"}
	for i, w := range want {
		if got := p.Next(); got != w {
			t.Errorf("call %d: got %q, want %q", i, got, w)
		}
	}
}

func TestPoolEmptyFallsBackToDefault(t *testing.T) {
	p := NewPool(nil)
	if p.Len() != len(DefaultPool) {
		t.Errorf("len = %d, want %d", p.Len(), len(DefaultPool))
	}
	if p.Next() == "" {
		t.Error("default pool returned empty user agent")
	}
}

func TestPoolCopiesInput(t *testing.T) {
	uas := []string{"original"}
	p := NewPool(uas)
	uas[0] = "mutated"
	if got := p.Next(); got != "original" {
		t.Errorf("got %q, pool shares caller's slice", got)
	}
}
