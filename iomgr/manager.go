// File: iomgr/manager.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Manager is the process-wide io manager: it owns the worker reactor set,
// the interface lists, the message module table, and drives the
// start/stop lifecycle described by the runtime's state machine.

package iomgr

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/iomgr/adapters"
	"github.com/momentics/iomgr/api"
	"github.com/momentics/iomgr/control"
	"github.com/momentics/iomgr/internal/logging"
)

var (
	_ api.Scheduler        = (*Manager)(nil)
	_ api.GracefulShutdown = (*Manager)(nil)
)

// maxIOThreads bounds the thread-index reserver and, transitively, the
// number of live io_threads at any moment.
const maxIOThreads = 4096

// MessageHandler processes a message delivered to thread. Registered via
// RegisterMsgModule and looked up by Message.ModuleID at dispatch time.
type MessageHandler func(thread *IOThread, msg *Message)

// Selector names the destination of RunOn: either a broadcast/least-busy
// ThreadRegex or a specific *IOThread.
type Selector any

// Manager is the io manager singleton. Construct with NewManager for an
// isolated instance (tests do this); use Default for the process-wide
// singleton the runtime is specified around.
type Manager struct {
	state atomic.Int32

	numThreads     int
	isSPDK         bool
	isSPDKExternal bool
	notifier       ThreadStateNotifier

	workers  []IOReactor
	workerMu sync.RWMutex

	userReactors []*userReactor
	userMu       sync.Mutex

	ifaceMu         sync.RWMutex
	interfaces      []IOInterface
	driveInterfaces []DriveInterface
	defaultDrive    DriveInterface

	modulesMu sync.RWMutex
	modules   []MessageHandler

	reserver  *ThreadIndexReserver
	threadsMu sync.Mutex
	live      map[int]*IOThread

	toStart      atomic.Int64
	toStop       atomic.Int64
	sysInitOnce  sync.Once
	stopOnce     sync.Once
	sysInitCh    chan struct{}
	stoppedCh    chan struct{}

	polledRuntime PolledRuntime
	bufAlloc      *bufferAllocator

	log        *logging.Logger
	cfg        *control.ConfigStore
	metricsReg *control.MetricsRegistry
	debug      *control.DebugProbes
	metrics    *runtimeMetrics

	affinityEnabled bool

	wg sync.WaitGroup
}

var (
	defaultMgrOnce sync.Once
	defaultMgr     *Manager
)

// Default returns the process-wide manager singleton the runtime is
// specified around, constructing it on first use.
func Default() *Manager {
	defaultMgrOnce.Do(func() { defaultMgr = NewManager() })
	return defaultMgr
}

// NewManager constructs an independent manager instance. Most callers want
// Default; tests construct their own so cases don't share global state.
func NewManager() *Manager {
	ctrl := adapters.NewControlAdapter()
	mgr := &Manager{
		log:        logging.Default(),
		cfg:        ctrl.ConfigStore(),
		metricsReg: ctrl.MetricsRegistry(),
		debug:      ctrl.DebugProbes(),
		metrics:    newRuntimeMetrics(),
	}
	mgr.state.Store(int32(StateUninitialized))
	mgr.debug.RegisterProbe("manager.state", func() any { return RunState(mgr.state.Load()).String() })
	mgr.debug.RegisterProbe("manager.prometheus", func() any { return gatherMetricNames(mgr.metrics.Registry()) })
	mgr.debug.RegisterProbe("config.snapshot", func() any { return mgr.cfg.GetSnapshot() })
	mgr.debug.RegisterProbe("metrics.last_updated", func() any { return mgr.metricsReg.LastUpdated() })
	mgr.debug.RegisterProbe("polled.spdk_external", func() any {
		mp, ok := mgr.polledRuntime.(*minimalPolledRuntime)
		if !ok || mp == nil {
			return false
		}
		return mp.ExternallyInitialized()
	})
	return mgr
}

// SetSPDKExternal marks the polled (SPDK-style) environment as already
// initialized by the caller before Start is invoked — e.g. the process
// called spdk_env_init itself and handed the manager a live environment.
// Start then passes this through to PolledRuntime.Init so it skips
// redundant setup instead of double-initializing. Must be called before
// Start; Start does not reset it, so a later Start (after Stop) reuses
// whatever was last set here unless SetSPDKExternal(false) is called first.
func (mgr *Manager) SetSPDKExternal(external bool) {
	mgr.isSPDKExternal = external
}

// EnableAffinity turns on best-effort worker-to-CPU pinning: each worker
// reactor goroutine, once spawned by Start, pins its OS thread to the CPU
// matching its worker slot before entering its run loop. Off by default —
// most callers run fewer io_threads than logical CPUs and gain nothing from
// pinning, and pinning is a per-platform syscall (see
// internal/concurrency's affinity_*.go) rather than a free operation.
func (mgr *Manager) EnableAffinity(enabled bool) {
	mgr.affinityEnabled = enabled
}

// Config, Metrics and Debug expose the ambient control-plane collaborators.
func (mgr *Manager) Config() *control.ConfigStore      { return mgr.cfg }
func (mgr *Manager) Metrics() *control.MetricsRegistry { return mgr.metricsReg }
func (mgr *Manager) Debug() *control.DebugProbes       { return mgr.debug }

// lifecycleConfigKeys names config keys that only take effect at Start and
// so cannot be changed on a running manager without a stop/start cycle.
var lifecycleConfigKeys = map[string]bool{
	"num_threads": true,
	"is_spdk":     true,
}

// SetConfig stores non-lifecycle keys in the config store and notifies its
// reload listeners; the reactors do not read them (the drain batch size and
// idle timer resolution are fixed constants). Lifecycle knobs (num_threads, is_spdk) are rejected with a
// ConfigurationError while the manager is running; callers must Stop then
// Start with the new values instead.
func (mgr *Manager) SetConfig(cfg map[string]any) error {
	if mgr.State() == StateRunning {
		for k := range cfg {
			if lifecycleConfigKeys[k] {
				return NewConfigurationError("cannot change " + k + " on a running manager; stop then start")
			}
		}
	}
	mgr.cfg.SetConfig(cfg)
	return nil
}

// State returns the current lifecycle phase.
func (mgr *Manager) State() RunState { return RunState(mgr.state.Load()) }

// ---- Startup -------------------------------------------------------------

// Start brings the manager from uninitialized/stopped to running. See
// SPEC_FULL.md §4.1 for the exact phase sequence.
func (mgr *Manager) Start(numThreads int, isSPDK bool, notifier ThreadStateNotifier, ifaceAdder func(*Manager) error) error {
	cur := mgr.State()
	if cur != StateUninitialized && cur != StateStopped {
		mgr.log.Warn("start called from invalid state", "state", cur.String())
		return NewConfigurationError("start called while manager is " + cur.String())
	}
	if numThreads <= 0 {
		return NewConfigurationError("num_threads must be positive")
	}

	mgr.state.Store(int32(StateInterfaceInit))
	mgr.metrics.setPhase(StateInterfaceInit)

	mgr.numThreads = numThreads
	mgr.isSPDK = isSPDK
	mgr.notifier = notifier
	mgr.reserver = NewThreadIndexReserver(maxIOThreads)
	mgr.live = make(map[int]*IOThread)
	mgr.toStart.Store(int64(numThreads))
	mgr.toStop.Store(int64(numThreads))
	mgr.sysInitOnce = sync.Once{}
	mgr.stopOnce = sync.Once{}
	mgr.sysInitCh = make(chan struct{})
	mgr.stoppedCh = make(chan struct{})
	mgr.modules = nil
	mgr.interfaces = nil
	mgr.driveInterfaces = nil
	mgr.defaultDrive = nil

	mgr.RegisterMsgModule(internalModuleHandler)

	if isSPDK {
		mgr.polledRuntime = newMinimalPolledRuntime()
		if err := mgr.polledRuntime.Init(mgr.isSPDKExternal); err != nil {
			mgr.state.Store(int32(StateUninitialized))
			return NewInitializationFailure("polled runtime init failed").WithContext("cause", err.Error())
		}
		mgr.bufAlloc = newBufferAllocator(true, -1)
	} else {
		mgr.bufAlloc = newBufferAllocator(false, -1)
	}

	mgr.AddInterface(GenericInterface{})
	if ifaceAdder != nil {
		if err := ifaceAdder(mgr); err != nil {
			mgr.state.Store(int32(StateUninitialized))
			return NewInitializationFailure("interface adder failed").WithContext("cause", err.Error())
		}
	} else if isSPDK {
		mgr.AddDriveInterface(defaultPolledDriveInterface{}, true)
	} else {
		mgr.AddDriveInterface(defaultEventDriveInterface{}, true)
	}

	mgr.state.Store(int32(StateReactorInit))
	mgr.metrics.setPhase(StateReactorInit)

	workers := make([]IOReactor, numThreads)
	for i := 0; i < numThreads; i++ {
		var r IOReactor
		if isSPDK {
			r = newPolledReactor(mgr, i, mgr.polledRuntime)
		} else {
			er, err := newEventReactor(mgr, i)
			if err != nil {
				mgr.state.Store(int32(StateUninitialized))
				return NewInitializationFailure("event reactor init failed").WithContext("cause", err.Error())
			}
			r = er
		}
		workers[i] = r
	}
	mgr.workerMu.Lock()
	mgr.workers = workers
	mgr.workerMu.Unlock()

	for slot, r := range workers {
		mgr.wg.Add(1)
		go func(cpu int, rr IOReactor) {
			defer mgr.wg.Done()
			if mgr.affinityEnabled {
				// One adapter instance per goroutine: api.Affinity binds to
				// "the calling goroutine" (see api/affinity.go), and Pin
				// itself locks the OS thread the goroutine is running on, so
				// sharing one adapter across worker goroutines would both
				// race on its bookkeeping fields and misreport which worker
				// last pinned what.
				aff := adapters.NewAffinityAdapter()
				if err := aff.Pin(cpu, -1); err != nil {
					mgr.log.Warn("worker affinity pin failed", "cpu", cpu, "error", err.Error())
				} else {
					defer aff.Unpin()
				}
			}
			rr.Run()
		}(slot, r)
	}

	<-mgr.sysInitCh

	if isSPDK && !mgr.isSPDKExternal {
		var initWG sync.WaitGroup
		initWG.Add(1)
		mgr.polledRuntime.InitBlockSubsystem(initWG.Done)
		initWG.Wait()
	}

	mgr.state.Store(int32(StateRunning))
	mgr.metrics.setPhase(StateRunning)
	return nil
}

func internalModuleHandler(thread *IOThread, msg *Message) {
	if msg.Fn != nil {
		msg.Fn()
	}
}

func (mgr *Manager) decStart() {
	if mgr.toStart.Add(-1) == 0 {
		mgr.sysInitOnce.Do(func() {
			mgr.state.Store(int32(StateSysInit))
			mgr.metrics.setPhase(StateSysInit)
			close(mgr.sysInitCh)
		})
	}
}

func (mgr *Manager) decStop() {
	if mgr.toStop.Add(-1) == 0 {
		mgr.finalizeStop()
	}
}

func (mgr *Manager) finalizeStop() {
	mgr.stopOnce.Do(func() {
		mgr.state.Store(int32(StateStopped))
		mgr.metrics.setPhase(StateStopped)
		close(mgr.stoppedCh)
	})
}

func (mgr *Manager) reactorStarted(t *IOThread) {
	setCurrentReactor(t.Reactor, t)
	mgr.ifaceMu.RLock()
	ifaces := append([]IOInterface(nil), mgr.interfaces...)
	mgr.ifaceMu.RUnlock()
	for _, iface := range ifaces {
		iface.OnIOThreadStart(t)
	}
	if mgr.notifier != nil {
		mgr.notifier(t, true)
	}
	mgr.decStart()
}

func (mgr *Manager) reactorStopped(t *IOThread) {
	mgr.ifaceMu.RLock()
	ifaces := append([]IOInterface(nil), mgr.interfaces...)
	mgr.ifaceMu.RUnlock()
	for _, iface := range ifaces {
		iface.OnIOThreadStop(t)
	}
	if mgr.notifier != nil {
		mgr.notifier(t, false)
	}
	clearCurrentReactor()
	mgr.decStop()
}

func (mgr *Manager) reserveThread(t *IOThread) (int, error) {
	idx, err := mgr.reserver.Reserve()
	if err != nil {
		return 0, err
	}
	mgr.threadsMu.Lock()
	mgr.live[idx] = t
	mgr.threadsMu.Unlock()
	mgr.metrics.setOutstanding(idx, 0)
	return idx, nil
}

func (mgr *Manager) releaseThread(idx int) {
	mgr.threadsMu.Lock()
	delete(mgr.live, idx)
	mgr.threadsMu.Unlock()
	mgr.reserver.Release(idx)
}

// ---- Shutdown --------------------------------------------------------------

// Stop transitions the manager to stopped, relinquishing every io_thread and
// joining every worker goroutine before returning. Calling Stop when not
// running is a no-op warning.
func (mgr *Manager) Stop() error {
	if mgr.State() != StateRunning {
		mgr.log.Warn("stop called while not running", "state", mgr.State().String())
		return nil
	}
	mgr.state.Store(int32(StateStopping))
	mgr.metrics.setPhase(StateStopping)

	mgr.toStop.Add(1) // pre-increment guard, see SPEC_FULL.md §4.2
	mgr.MulticastMsg(RegexAllIO, &Message{Type: MsgRelinquishIOThread})
	mgr.decStop()

	<-mgr.stoppedCh
	mgr.wg.Wait()

	mgr.userMu.Lock()
	for _, ur := range mgr.userReactors {
		ur.Stop()
	}
	mgr.userReactors = nil
	mgr.userMu.Unlock()

	mgr.ifaceMu.Lock()
	mgr.interfaces = nil
	mgr.driveInterfaces = nil
	mgr.defaultDrive = nil
	mgr.ifaceMu.Unlock()

	if mgr.polledRuntime != nil {
		mgr.polledRuntime.Shutdown()
	}
	return nil
}

// ---- Interfaces --------------------------------------------------------------

// AddInterface registers iface. A duplicate registration (by identity) is a
// no-op, mirroring the original runtime's idempotent auto-registration.
func (mgr *Manager) AddInterface(iface IOInterface) error {
	mgr.ifaceMu.Lock()
	defer mgr.ifaceMu.Unlock()
	for _, existing := range mgr.interfaces {
		if existing == iface {
			mgr.log.Debug("duplicate interface registration ignored", "name", iface.Name())
			return nil
		}
	}
	mgr.interfaces = append(mgr.interfaces, iface)
	return nil
}

// AddDriveInterface registers a storage-family interface, optionally
// marking it the default drive interface.
func (mgr *Manager) AddDriveInterface(iface DriveInterface, isDefault bool) error {
	if err := mgr.AddInterface(iface); err != nil {
		return err
	}
	mgr.ifaceMu.Lock()
	defer mgr.ifaceMu.Unlock()
	mgr.driveInterfaces = append(mgr.driveInterfaces, iface)
	if isDefault || mgr.defaultDrive == nil {
		mgr.defaultDrive = iface
	}
	return nil
}

// ForeachInterface invokes cb for every registered interface until cb
// returns false or the list is exhausted.
func (mgr *Manager) ForeachInterface(cb func(IOInterface) bool) {
	mgr.ifaceMu.RLock()
	ifaces := append([]IOInterface(nil), mgr.interfaces...)
	mgr.ifaceMu.RUnlock()
	for _, iface := range ifaces {
		if !cb(iface) {
			return
		}
	}
}

// DefaultDriveInterface returns the drive interface marked default at
// startup, or nil if none was ever added.
func (mgr *Manager) DefaultDriveInterface() DriveInterface {
	mgr.ifaceMu.RLock()
	defer mgr.ifaceMu.RUnlock()
	return mgr.defaultDrive
}

// ---- Message modules --------------------------------------------------------------

// RegisterMsgModule assigns the next dense module id to handler. Ids are
// never reused or revoked for the lifetime of a Start/Stop cycle.
func (mgr *Manager) RegisterMsgModule(handler MessageHandler) MsgModuleID {
	mgr.modulesMu.Lock()
	defer mgr.modulesMu.Unlock()
	id := MsgModuleID(len(mgr.modules))
	mgr.modules = append(mgr.modules, handler)
	return id
}

func (mgr *Manager) lookupModule(id MsgModuleID) (MessageHandler, bool) {
	mgr.modulesMu.RLock()
	defer mgr.modulesMu.RUnlock()
	if id < 0 || int(id) >= len(mgr.modules) {
		return nil, false
	}
	return mgr.modules[id], true
}

// ---- Dispatch --------------------------------------------------------------

func matchRegex(r ThreadRegex, t *IOThread) bool {
	switch r {
	case RegexAllIO, RegexLeastBusyIO:
		return true
	case RegexAllWorker, RegexLeastBusyWorker, RegexRandomWorker:
		return t.IsWorker
	case RegexAllUser, RegexLeastBusyUser:
		return t.IsUser
	default:
		return false
	}
}

func (mgr *Manager) allReactors() []IOReactor {
	mgr.workerMu.RLock()
	out := append([]IOReactor(nil), mgr.workers...)
	mgr.workerMu.RUnlock()
	mgr.userMu.Lock()
	for _, ur := range mgr.userReactors {
		out = append(out, ur)
	}
	mgr.userMu.Unlock()
	return out
}

func (mgr *Manager) threadsMatching(r ThreadRegex) []*IOThread {
	var out []*IOThread
	for _, re := range mgr.allReactors() {
		for _, t := range re.IOThreads() {
			if matchRegex(r, t) {
				out = append(out, t)
			}
		}
	}
	return out
}

func (mgr *Manager) freeOriginal(msg *Message) {
	if msg.free() {
		mgr.metrics.incFreed()
	}
}

// SendMsg delivers msg to dest's owning reactor. Returns false, freeing msg,
// if the reactor has no live io_thread at that address.
func (mgr *Manager) SendMsg(dest *IOThread, msg *Message) bool {
	if dest == nil || dest.Reactor == nil {
		mgr.freeOriginal(msg)
		return false
	}
	msg.DestThread = dest.ThreadAddr
	if dest.Reactor.DeliverMsg(dest.ThreadAddr, msg) {
		return true
	}
	mgr.freeOriginal(msg)
	return false
}

// SendMsgAndWait delivers sm and blocks until its single recipient acks.
func (mgr *Manager) SendMsgAndWait(dest *IOThread, sm *SyncMessage) bool {
	ok := mgr.SendMsg(dest, sm.Message)
	if ok {
		sm.Wait()
	}
	return ok
}

// MulticastMsg routes msg according to r and returns the number of
// recipients it was actually delivered to. See SPEC_FULL.md §4.4 for the
// exact per-variant semantics.
func (mgr *Manager) MulticastMsg(r ThreadRegex, msg *Message) int {
	switch r {
	case RegexRandomWorker:
		mgr.workerMu.RLock()
		workers := append([]IOReactor(nil), mgr.workers...)
		mgr.workerMu.RUnlock()
		if len(workers) == 0 {
			mgr.freeOriginal(msg)
			return 0
		}
		picked := workers[rand.Intn(len(workers))]
		target := picked.SelectThread()
		if target == nil {
			mgr.freeOriginal(msg)
			return 0
		}
		if target.Reactor.DeliverMsg(target.ThreadAddr, msg) {
			return 1
		}
		mgr.freeOriginal(msg)
		return 0

	case RegexLeastBusyIO, RegexLeastBusyWorker, RegexLeastBusyUser:
		targets := mgr.threadsMatching(r)
		var best *IOThread
		var bestOps int64
		for _, t := range targets {
			ops := t.OutstandingOps()
			if best == nil || ops < bestOps {
				best, bestOps = t, ops
			}
		}
		if best == nil {
			mgr.freeOriginal(msg)
			return 0
		}
		if best.Reactor.DeliverMsg(best.ThreadAddr, msg) {
			return 1
		}
		mgr.freeOriginal(msg)
		return 0

	default: // RegexAllIO, RegexAllWorker, RegexAllUser
		targets := mgr.threadsMatching(r)
		if len(targets) == 0 {
			mgr.freeOriginal(msg)
			return 0
		}
		delivered := 0
		for _, t := range targets {
			clone := msg.Clone()
			if t.Reactor.DeliverMsg(t.ThreadAddr, clone) {
				delivered++
			} else if clone.free() {
				mgr.metrics.incFreed()
			}
		}
		mgr.freeOriginal(msg)
		return delivered
	}
}

// MulticastMsgAndWait routes sm as MulticastMsg does, then blocks for every
// successful recipient to ack — only if at least one delivery succeeded.
//
// sm's expected count, as constructed, is only an upper bound: regexes like
// least_busy_* and random_worker route to exactly one thread out of a much
// larger candidate set, so the delivered count n is corrected onto sm here
// rather than trusted from construction time. Never lower than the true
// delivered count, never wrong in a way that makes Wait return early.
func (mgr *Manager) MulticastMsgAndWait(r ThreadRegex, sm *SyncMessage) int {
	n := mgr.MulticastMsg(r, sm.Message)
	sm.setExpected(n)
	if n > 0 {
		sm.Wait()
	}
	return n
}

// RunOn schedules fn to execute on the io_thread(s) selected by sel, either
// a specific *IOThread (direct send) or a ThreadRegex (multicast). If wait
// is true, RunOn blocks until every scheduled invocation completes.
func (mgr *Manager) RunOn(sel Selector, fn func(), wait bool) error {
	switch s := sel.(type) {
	case *IOThread:
		if wait {
			sm := NewSyncMessage(InternalMsgModuleID, nil, 1)
			sm.Fn = fn
			if !mgr.SendMsgAndWait(s, sm) {
				return NewDeliveryFailureError("run_on: no live recipient")
			}
			return nil
		}
		msg := NewMessage(InternalMsgModuleID, nil)
		msg.Fn = fn
		if !mgr.SendMsg(s, msg) {
			return NewDeliveryFailureError("run_on: no live recipient")
		}
		return nil

	case ThreadRegex:
		if wait {
			// expected is only known once MulticastMsgAndWait learns the real
			// delivered count (least_busy_*/random_worker deliver to exactly
			// one thread, not every matching candidate) — start from a
			// sentinel that setExpected always corrects downward before Wait
			// can return, never upward.
			sm := NewSyncMessage(InternalMsgModuleID, nil, math.MaxInt32)
			sm.Fn = fn
			n := mgr.MulticastMsgAndWait(s, sm)
			if n == 0 {
				return NewMulticastZeroTargetsError("run_on: no matching io_thread")
			}
			return nil
		}
		msg := NewMessage(InternalMsgModuleID, nil)
		msg.Fn = fn
		n := mgr.MulticastMsg(s, msg)
		if n == 0 {
			return NewMulticastZeroTargetsError("run_on: no matching io_thread")
		}
		return nil

	default:
		return NewConfigurationError("run_on: selector must be *IOThread or ThreadRegex")
	}
}

// ---- User io_threads --------------------------------------------------------------

// MakeUserIOThread returns a run/stop pair for a user-scope reactor. Calling
// run creates the io_thread on the calling goroutine and loops until stop is
// called. Intended
// for application code that wants to participate in all_user/least_busy_user
// dispatch without occupying a fixed worker slot.
func (mgr *Manager) MakeUserIOThread() (run func(), stop func()) {
	ur := newUserReactor(mgr)
	mgr.userMu.Lock()
	mgr.userReactors = append(mgr.userReactors, ur)
	mgr.userMu.Unlock()
	return ur.Run, ur.Stop
}

// ---- Timers --------------------------------------------------------------

// ScheduleThreadTimer installs a timer on the calling reactor's own timer
// set. Must be called from within a reactor goroutine (see ThisReactor).
func (mgr *Manager) ScheduleThreadTimer(delay time.Duration, recurring bool, cookie any, fn func(cookie any)) (TimerHandle, error) {
	r := ThisReactor()
	if r == nil {
		return nil, NewConfigurationError("schedule_thread_timer requires a reactor context")
	}
	var rt *reactorTimer
	switch v := r.(type) {
	case *eventReactor:
		rt = v.timer
	case *polledReactor:
		rt = v.timer
	case *userReactor:
		rt = v.timer
	default:
		return nil, NewConfigurationError("unknown reactor implementation")
	}
	return rt.schedule(delay, recurring, cookie, fn), nil
}

// ScheduleGlobalTimer installs a manager-owned timer that, on every fire,
// multicasts fn to every io_thread matching r.
func (mgr *Manager) ScheduleGlobalTimer(delay time.Duration, recurring bool, r ThreadRegex, cookie any, fn func(cookie any)) (TimerHandle, error) {
	if r != RegexAllIO && r != RegexAllWorker && r != RegexAllUser {
		return nil, NewConfigurationError("schedule_global_timer requires an all_* regex")
	}
	return mgr.scheduleGlobalTimer(delay, recurring, r, cookie, fn), nil
}

// ---- Aligned buffers --------------------------------------------------------------

func (mgr *Manager) IobufAlloc(align, size int) []byte {
	return mgr.bufAlloc.Alloc(align, size)
}

func (mgr *Manager) IobufFree(buf []byte) {
	mgr.bufAlloc.Free(buf)
}

func (mgr *Manager) IobufRealloc(buf []byte, align, size int) []byte {
	return mgr.bufAlloc.Realloc(buf, align, size)
}

// ---- api.Scheduler / api.GracefulShutdown --------------------------------

// Schedule satisfies api.Scheduler by installing a one-shot global timer
// against every worker io_thread; fn itself runs once, on whichever worker
// handles the fire first (per-thread precision goes through
// ScheduleThreadTimer instead).
func (mgr *Manager) Schedule(delayNanos int64, fn func()) (api.Cancelable, error) {
	var once sync.Once
	h, err := mgr.ScheduleGlobalTimer(time.Duration(delayNanos), false, RegexAllWorker, nil, func(any) { once.Do(fn) })
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Cancel satisfies api.Scheduler.
func (mgr *Manager) Cancel(c api.Cancelable) error {
	return c.Cancel()
}

// Now satisfies api.Scheduler with wall-clock nanoseconds.
func (mgr *Manager) Now() int64 {
	return time.Now().UnixNano()
}

// Shutdown satisfies api.GracefulShutdown as an alias for Stop.
func (mgr *Manager) Shutdown() error {
	return mgr.Stop()
}
