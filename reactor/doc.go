// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the core poll-mode event reactor abstraction and
// cross-platform implementations for epoll (Linux) and IOCP (Windows). It
// backs exactly one registered descriptor per iomgr eventReactor — the
// eventfd wake source in iomgr/wake_linux.go — so Wait's bounded timeout
// doubles as the reactor's per-thread timer re-check cadence instead of a
// second, independent stdlib timer running alongside it.
package reactor
