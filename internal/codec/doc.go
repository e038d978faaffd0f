// Package codec serializes values to JSON with a tagged representation for
// timestamps, and reverses it on the way back.
//
// Every time.Time reachable from the value is written as
//
//	{"__dateType":"Date","value":"2024-03-01T09:30:00.123Z"}
//
// so that a later decode can tell a timestamp apart from a string that
// merely looks like one.
package codec
