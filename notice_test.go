package triptych

import "testing"

func TestNotices_Expire(t *testing.T) {
	var n Notices
	n.Push("one", NoticeInfo)
	n.Update(1)
	n.Push("two", NoticeWarning)

	n.Update(DefaultNoticeDuration - 0.5)
	active := n.Active()
	if len(active) != 1 || active[0].Message != "two" {
		t.Fatalf("Expected only the newer notice, got %+v", active)
	}

	n.Update(1)
	if len(n.Active()) != 0 {
		t.Errorf("Expected all notices expired, got %+v", n.Active())
	}
}

func TestNotices_Bounded(t *testing.T) {
	var n Notices
	for _, msg := range []string{"a", "b", "c", "d", "e", "f"} {
		n.Push(msg, NoticeInfo)
	}
	active := n.Active()
	if len(active) != maxNotices || active[0].Message != "c" {
		t.Errorf("Expected the newest %d notices, got %+v", maxNotices, active)
	}
}

func TestNotice_Opacity(t *testing.T) {
	tests := []struct {
		elapsed float32
		want    float32
	}{
		{0, 0},
		{1, 1},
		{DefaultNoticeDuration, 0},
	}
	for _, tt := range tests {
		nt := Notice{Duration: DefaultNoticeDuration, Elapsed: tt.elapsed}
		if got := nt.opacity(); abs32(got-tt.want) > 1e-4 {
			t.Errorf("opacity at %v = %v, want %v", tt.elapsed, got, tt.want)
		}
	}
}

func TestReader_DrawsNotices(t *testing.T) {
	m, _ := newDrawManager(t)
	r := &mockRenderer{}
	reader := NewReader(r, m)

	reader.Begin(NewInputState(), Vec2{X: 100, Y: 80}, frameTime)
	reader.End()
	plain := r.vertices

	reader.Notify("saved", NoticeInfo)
	reader.Begin(NewInputState(), Vec2{X: 100, Y: 80}, 0.5)
	reader.End()

	// Background quad plus five glyphs.
	if got := r.vertices - plain; got != 4*6 {
		t.Errorf("Expected 24 notice vertices, got %d", got)
	}

	reader.Begin(NewInputState(), Vec2{X: 100, Y: 80}, DefaultNoticeDuration)
	reader.End()
	if len(reader.Notices()) != 0 || r.vertices != plain {
		t.Error("Expected the notice to expire")
	}
}
