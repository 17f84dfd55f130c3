package rivet_test

import (
	"testing"

	"github.com/okanite/rivet"
	"github.com/okanite/rivet/mock"
)

func BenchmarkTrivialCreate(b *testing.B) {
	r := rivet.NewResolver(mock.NewRegistry())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rivet.Create[*mock.Plain](r); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkConstructorCreate(b *testing.B) {
	r := rivet.NewResolver(mock.NewRegistry())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rivet.Create[*mock.Service](r); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFieldPopulatedCreate(b *testing.B) {
	r := rivet.NewResolver(mock.NewRegistry())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rivet.Create[*mock.Gauge](r); err != nil {
			b.Fatal(err)
		}
	}
}
