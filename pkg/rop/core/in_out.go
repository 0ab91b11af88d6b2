package core

import "sort"

// Job is one queued value together with its position in the original input.
type Job[T any] struct {
	Index int
	Value T
}

// ToJobs queues every value on a buffered channel and closes it, so workers
// can drain it without a producer goroutine.
func ToJobs[T any](values []T) <-chan Job[T] {
	in := make(chan Job[T], len(values))
	for i, v := range values {
		in <- Job[T]{Index: i, Value: v}
	}
	close(in)
	return in
}

// FromChanOrdered collects everything from out until it is closed and
// orders the values by the index reported by indexOf.
func FromChanOrdered[T any](out <-chan T, indexOf func(T) int) []T {
	res := make([]T, 0)
	for v := range out {
		res = append(res, v)
	}
	sort.SliceStable(res, func(i, j int) bool {
		return indexOf(res[i]) < indexOf(res[j])
	})
	return res
}
