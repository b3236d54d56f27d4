// Package rng provides the deterministic pseudo-random stream used to
// generate scenes.
//
// The generator is Mulberry32: a single 32-bit word of state advanced with
// integer arithmetic only, so two sources built from the same seed produce
// bit-identical streams on every platform.
//
//	src := rng.New(42)
//	count := 60 + src.Intn(90)
//	x := src.Next() * width
//
// A [Source] is not safe for concurrent use. Scene generation owns its source
// exclusively and discards it once the element sequence is built.
package rng
