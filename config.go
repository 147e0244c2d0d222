// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

// configs stores the parameters of a Base.
type configs struct {
	workers int // number of worker goroutines
	shards  int // number of shards in the work registry
}

const _DEFAULTSHARDS = 64

func makeconfigs() *configs {
	return &configs{shards: _DEFAULTSHARDS}
}

// Workers is a configuration option (function). Used as a parameter in
// New it sets the number of goroutines computing ITE queries. The
// default value (0) starts one worker per CPU, minus one for the
// caller, and at least one.
func Workers(n int) func(*configs) {
	return func(c *configs) {
		c.workers = n
	}
}

// Shards is a configuration option (function). Used as a parameter in
// New it sets the number of shards in the concurrent work registry.
// More shards reduce lock contention between workers. The default
// value is 64.
func Shards(n int) func(*configs) {
	return func(c *configs) {
		if n > 0 {
			c.shards = n
		}
	}
}
