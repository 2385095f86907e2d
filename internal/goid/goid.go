// Package goid extracts the numeric id of the calling goroutine.
//
// The example corpus's joeycumines/go-utilpkg monorepo lists a sibling
// module (github.com/joeycumines/goroutineid) for exactly this purpose, but
// its source was not part of the retrieval pack, so there is no API surface
// to ground an import on. This package implements the same small bit of
// functionality directly, using the standard trick of parsing the header
// line of runtime.Stack's output ("goroutine 123 [running]:"). It is used
// only to key the scoped-execution-state registry in cohort's scope.go.
package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

// Get returns the id of the calling goroutine.
//
// This captures and parses a stack trace, so it is not free, but cohort
// calls it on every With/TryWith (i.e. on every scoped-state access, not
// just at task-lifecycle boundaries) — simplicity over raw throughput,
// matching the modest scale a model-checker's interleaving search runs at.
func Get() uint64 {
	buf := stackBuf()
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		panic("cohort/internal/goid: unexpected runtime.Stack format: " + string(buf))
	}
	rest := buf[len(prefix):]
	sp := bytes.IndexByte(rest, ' ')
	if sp < 0 {
		panic("cohort/internal/goid: unexpected runtime.Stack format: " + string(buf))
	}
	id, err := strconv.ParseUint(string(rest[:sp]), 10, 64)
	if err != nil {
		panic("cohort/internal/goid: could not parse goroutine id: " + err.Error())
	}
	return id
}

func stackBuf() []byte {
	return make([]byte, 64)
}
