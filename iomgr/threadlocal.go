// File: iomgr/threadlocal.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Go has no goroutine-local storage, so ThisReactor/IoThreadSelf are backed
// by a map keyed on the calling goroutine's runtime id, populated only while
// that goroutine is executing a reactor's own loop. Any caller outside a
// reactor goroutine gets the documented "unavailable" zero value.

package iomgr

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

var (
	tlsMu      sync.RWMutex
	tlsReactor = make(map[uint64]IOReactor)
	tlsThread  = make(map[uint64]*IOThread)
)

func goroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]
	fields := bytes.Fields(buf)
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func setCurrentReactor(r IOReactor, t *IOThread) {
	id := goroutineID()
	tlsMu.Lock()
	tlsReactor[id] = r
	tlsThread[id] = t
	tlsMu.Unlock()
}

func clearCurrentReactor() {
	id := goroutineID()
	tlsMu.Lock()
	delete(tlsReactor, id)
	delete(tlsThread, id)
	tlsMu.Unlock()
}

// ThisReactor returns the IOReactor owning the calling goroutine, or nil if
// the caller is not itself running inside a reactor loop.
func ThisReactor() IOReactor {
	id := goroutineID()
	tlsMu.RLock()
	defer tlsMu.RUnlock()
	return tlsReactor[id]
}

// IoThreadSelf returns the io_thread owned by the calling reactor goroutine,
// or nil outside any reactor.
func IoThreadSelf() *IOThread {
	id := goroutineID()
	tlsMu.RLock()
	defer tlsMu.RUnlock()
	return tlsThread[id]
}
