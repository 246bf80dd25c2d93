package typedi

import (
	"io"
	"log/slog"
	"reflect"
	"testing"
)

// Benchmark service types
type BenchService struct {
	Name string
}

type BenchDep1 struct{ Value int }
type BenchDep2 struct{ Value int }
type BenchDep3 struct{ Value int }
type BenchDep4 struct{ Value int }
type BenchDep5 struct{ Value int }

type BenchServiceWith1Dep struct {
	Dep1 *BenchDep1
}

type BenchServiceWith3Deps struct {
	Dep1 *BenchDep1
	Dep2 *BenchDep2
	Dep3 *BenchDep3
}

type BenchServiceWith5Deps struct {
	Dep1 *BenchDep1
	Dep2 *BenchDep2
	Dep3 *BenchDep3
	Dep4 *BenchDep4
	Dep5 *BenchDep5
}

type BenchServiceWith5Fields struct {
	Dep1 *BenchDep1 `inject:""`
	Dep2 *BenchDep2 `inject:""`
	Dep3 *BenchDep3 `inject:""`
	Dep4 *BenchDep4 `inject:""`
	Dep5 *BenchDep5 `inject:""`
}

// Constructors for benchmarks
func NewBenchService() *BenchService {
	return &BenchService{Name: "bench"}
}

func NewBenchDep1() *BenchDep1 { return &BenchDep1{Value: 1} }
func NewBenchDep2() *BenchDep2 { return &BenchDep2{Value: 2} }
func NewBenchDep3() *BenchDep3 { return &BenchDep3{Value: 3} }
func NewBenchDep4() *BenchDep4 { return &BenchDep4{Value: 4} }
func NewBenchDep5() *BenchDep5 { return &BenchDep5{Value: 5} }

func NewBenchServiceWith1Dep(dep1 *BenchDep1) *BenchServiceWith1Dep {
	return &BenchServiceWith1Dep{Dep1: dep1}
}

func NewBenchServiceWith3Deps(dep1 *BenchDep1, dep2 *BenchDep2, dep3 *BenchDep3) *BenchServiceWith3Deps {
	return &BenchServiceWith3Deps{Dep1: dep1, Dep2: dep2, Dep3: dep3}
}

func NewBenchServiceWith5Deps(dep1 *BenchDep1, dep2 *BenchDep2, dep3 *BenchDep3, dep4 *BenchDep4, dep5 *BenchDep5) *BenchServiceWith5Deps {
	return &BenchServiceWith5Deps{Dep1: dep1, Dep2: dep2, Dep3: dep3, Dep4: dep4, Dep5: dep5}
}

// setupBenchContainer creates a container where every service has the given lifetime
func setupBenchContainer(b *testing.B, singleton bool, opts ...Option) *Container {
	b.Helper()

	var lifetime []ServiceOption
	if singleton {
		lifetime = append(lifetime, Global())
	}

	catalog := NewCatalog()
	register := func(t reflect.Type, ctor any) {
		svcOpts := append([]ServiceOption{}, lifetime...)
		if ctor != nil {
			svcOpts = append(svcOpts, WithConstructor(ctor))
		}
		if err := catalog.Register(t, svcOpts...); err != nil {
			b.Fatalf("failed to register %v: %v", t, err)
		}
	}

	register(reflect.TypeOf((*BenchService)(nil)), NewBenchService)
	register(reflect.TypeOf((*BenchDep1)(nil)), NewBenchDep1)
	register(reflect.TypeOf((*BenchDep2)(nil)), NewBenchDep2)
	register(reflect.TypeOf((*BenchDep3)(nil)), NewBenchDep3)
	register(reflect.TypeOf((*BenchDep4)(nil)), NewBenchDep4)
	register(reflect.TypeOf((*BenchDep5)(nil)), NewBenchDep5)
	register(reflect.TypeOf((*BenchServiceWith1Dep)(nil)), NewBenchServiceWith1Dep)
	register(reflect.TypeOf((*BenchServiceWith3Deps)(nil)), NewBenchServiceWith3Deps)
	register(reflect.TypeOf((*BenchServiceWith5Deps)(nil)), NewBenchServiceWith5Deps)
	register(reflect.TypeOf((*BenchServiceWith5Fields)(nil)), nil)

	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	c, err := NewContainer(catalog, opts...)
	if err != nil {
		b.Fatalf("failed to create container: %v", err)
	}
	b.Cleanup(func() { c.Close() })

	return c
}

// BenchmarkResolution tests resolution performance for different lifetimes and dependency counts
func BenchmarkResolution(b *testing.B) {
	cases := []struct {
		name      string
		singleton bool
		target    reflect.Type
	}{
		{"Singleton/0deps", true, reflect.TypeOf((*BenchService)(nil))},
		{"Singleton/1dep", true, reflect.TypeOf((*BenchServiceWith1Dep)(nil))},
		{"Singleton/3deps", true, reflect.TypeOf((*BenchServiceWith3Deps)(nil))},
		{"Singleton/5deps", true, reflect.TypeOf((*BenchServiceWith5Deps)(nil))},
		{"Transient/0deps", false, reflect.TypeOf((*BenchService)(nil))},
		{"Transient/1dep", false, reflect.TypeOf((*BenchServiceWith1Dep)(nil))},
		{"Transient/3deps", false, reflect.TypeOf((*BenchServiceWith3Deps)(nil))},
		{"Transient/5deps", false, reflect.TypeOf((*BenchServiceWith5Deps)(nil))},
		{"Transient/5fields", false, reflect.TypeOf((*BenchServiceWith5Fields)(nil))},
	}

	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			c := setupBenchContainer(b, tc.singleton)

			// Warm up plans and singletons
			_, _ = c.Get(tc.target)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				_, _ = c.Get(tc.target)
			}
		})
	}
}

// BenchmarkConcurrentResolution tests concurrent resolution with and without the construction lock
func BenchmarkConcurrentResolution(b *testing.B) {
	cases := []struct {
		name      string
		singleton bool
		lock      bool
	}{
		{"Singleton/locked", true, true},
		{"Singleton/unlocked", true, false},
		{"Transient/locked", false, true},
	}

	target := reflect.TypeOf((*BenchServiceWith5Deps)(nil))

	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			c := setupBenchContainer(b, tc.singleton, WithConstructionLock(tc.lock))

			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					_, _ = c.Get(target)
				}
			})
		})
	}
}

// BenchmarkFirstResolution measures cold resolution, including plan building
func BenchmarkFirstResolution(b *testing.B) {
	target := reflect.TypeOf((*BenchServiceWith5Deps)(nil))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		c := setupBenchContainer(b, true)
		b.StartTimer()

		_, _ = c.Get(target)
	}
}

// BenchmarkGenericResolve compares the generic helper with raw Get
func BenchmarkGenericResolve(b *testing.B) {
	c := setupBenchContainer(b, true)
	_, _ = Resolve[*BenchService](c)

	b.Run("Resolve", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = Resolve[*BenchService](c)
		}
	})

	b.Run("Get", func(b *testing.B) {
		t := reflect.TypeOf((*BenchService)(nil))
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = c.Get(t)
		}
	})
}

// BenchmarkTokens tests the value store
func BenchmarkTokens(b *testing.B) {
	c := setupBenchContainer(b, true)
	_ = c.SetToken("dsn", "postgres://localhost/bench")

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = Token[string](c, "dsn")
		}
	})
}
