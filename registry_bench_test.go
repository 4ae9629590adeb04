package hive

import (
	"testing"
)

func BenchmarkAttachDetach(b *testing.B) {
	r := NewRegistry()
	e := r.MakeEntity("", SignatureOf[Position]())

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		Attach(r, e, Velocity{X: 1})
		Detach[Velocity](r, e)
	}
}

func BenchmarkAttach_Replace(b *testing.B) {
	r := NewRegistry()
	e := r.MakeEntity("", SignatureOf[Position]())

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		Attach(r, e, Position{X: 1})
	}
}

func BenchmarkView2(b *testing.B) {
	r := NewRegistry()

	for idx := range 1000 {
		e := r.MakeEntity("")
		Attach(r, e, Position{X: float64(idx)})

		if idx%2 == 0 {
			Attach(r, e, Velocity{X: 1})
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	var blackbox float64
	for b.Loop() {
		for _, view := range View2[Position, Velocity](r) {
			blackbox += view.A.X + view.B.X
		}
	}

	_ = blackbox
}

func BenchmarkMakeDestroy(b *testing.B) {
	r := NewRegistry()

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		e := r.MakeEntity("", SignatureOf[Position](), SignatureOf[Velocity]())
		r.Destroy(e)
	}
}
