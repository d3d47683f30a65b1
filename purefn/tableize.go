package purefn

import (
	"github.com/on-the-ground/boundrun/shared/lru"
)

type pair[A, B comparable] struct {
	a A
	b B
}

type result[O1, O2 any] struct {
	o1 O1
	o2 O2
}

func TableizeI1O1[I1 comparable, O1 any](
	pureFn func(I1) O1,
	maxTableSize int,
) func(I1) O1 {
	memo := newTable[I1, O1](maxTableSize)
	return func(i1 I1) O1 {
		return load(memo, i1, func() O1 { return pureFn(i1) })
	}
}

func TableizeI2O1[I1, I2 comparable, O1 any](
	pureFn func(I1, I2) O1,
	maxTableSize int,
) func(I1, I2) O1 {
	memo := newTable[pair[I1, I2], O1](maxTableSize)
	return func(i1 I1, i2 I2) O1 {
		return load(memo, pair[I1, I2]{i1, i2}, func() O1 { return pureFn(i1, i2) })
	}
}

func TableizeI1O2[I1 comparable, O1, O2 any](
	pureFn func(I1) (O1, O2),
	maxTableSize int,
) func(I1) (O1, O2) {
	memo := newTable[I1, result[O1, O2]](maxTableSize)
	return func(i1 I1) (O1, O2) {
		res := load(memo, i1, func() result[O1, O2] {
			o1, o2 := pureFn(i1)
			return result[O1, O2]{o1, o2}
		})
		return res.o1, res.o2
	}
}

func TableizeI2O2[I1, I2 comparable, O1, O2 any](
	pureFn func(I1, I2) (O1, O2),
	maxTableSize int,
) func(I1, I2) (O1, O2) {
	memo := newTable[pair[I1, I2], result[O1, O2]](maxTableSize)
	return func(i1 I1, i2 I2) (O1, O2) {
		res := load(memo, pair[I1, I2]{i1, i2}, func() result[O1, O2] {
			o1, o2 := pureFn(i1, i2)
			return result[O1, O2]{o1, o2}
		})
		return res.o1, res.o2
	}
}

// newTable clamps maxTableSize to at least one entry.
func newTable[K comparable, V any](maxTableSize int) *lru.Cache[K, V] {
	memo, err := lru.New[K, V](max(maxTableSize, 1))
	if err != nil {
		panic(err) // unreachable: capacity is clamped above
	}
	return memo
}

func load[K comparable, V any](memo *lru.Cache[K, V], key K, compute func() V) V {
	if v, ok := memo.Get(key); ok {
		return v
	}
	v := compute()
	memo.Put(key, v)
	return v
}
