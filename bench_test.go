package socow_test

import (
	"fmt"
	"testing"

	socow "github.com/Vovkaez/socow-vector"
)

func BenchmarkPush(b *testing.B) {
	sizes := []int{socow.InlineCapacity, 100, 10000}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				var v socow.Vector[int]
				for j := 0; j < size; j++ {
					if err := v.Push(j); err != nil {
						b.Fatal(err)
					}
				}
				v.Destroy()
			}
		})
	}
}

func BenchmarkPushPreReserved(b *testing.B) {
	const size = 10000
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var v socow.Vector[int]
		if err := v.Reserve(size); err != nil {
			b.Fatal(err)
		}
		for j := 0; j < size; j++ {
			if err := v.Push(j); err != nil {
				b.Fatal(err)
			}
		}
		v.Destroy()
	}
}

// BenchmarkClone measures the O(1) share of a buffered vector against the
// deep copy of an inline one.
func BenchmarkClone(b *testing.B) {
	for _, size := range []int{socow.InlineCapacity, 1000} {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			v := benchVector(b, size)
			defer v.Destroy()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				w, err := v.Clone()
				if err != nil {
					b.Fatal(err)
				}
				w.Destroy()
			}
		})
	}
}

// BenchmarkPrivatize measures the one-time cost of the first mutation of a
// shared buffer.
func BenchmarkPrivatize(b *testing.B) {
	for _, size := range []int{8, 1024} {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			v := benchVector(b, size)
			defer v.Destroy()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				w, err := v.Clone()
				if err != nil {
					b.Fatal(err)
				}
				if err := w.Set(0, i); err != nil {
					b.Fatal(err)
				}
				w.Destroy()
			}
		})
	}
}

func BenchmarkGet(b *testing.B) {
	v := benchVector(b, 1024)
	defer v.Destroy()
	b.ResetTimer()
	var sum int
	for i := 0; i < b.N; i++ {
		sum += v.Get(i & 1023)
	}
	_ = sum
}

func BenchmarkViewIteration(b *testing.B) {
	v := benchVector(b, 1024)
	defer v.Destroy()
	b.ResetTimer()
	var sum int
	for i := 0; i < b.N; i++ {
		for _, x := range v.View() {
			sum += x
		}
	}
	_ = sum
}

func benchVector(b *testing.B, size int) *socow.Vector[int] {
	b.Helper()
	v := socow.New[int]()
	for j := 0; j < size; j++ {
		if err := v.Push(j); err != nil {
			b.Fatal(err)
		}
	}
	return v
}
