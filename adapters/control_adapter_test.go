package adapters_test

import (
	"testing"
	"time"

	"github.com/momentics/iomgr/adapters"
)

func TestControlAdapterBasic(t *testing.T) {
	ctrl := adapters.NewControlAdapter()
	cfg := ctrl.GetConfig()
	if len(cfg) != 0 {
		t.Error("Expected empty config on init")
	}
	err := ctrl.SetConfig(map[string]any{"k": 1})
	if err != nil {
		t.Fatal(err)
	}
	cfg = ctrl.GetConfig()
	if cfg["k"] != 1 {
		t.Error("SetConfig did not apply")
	}
	called := make(chan struct{}, 1)
	ctrl.OnReload(func() {
		select {
		case called <- struct{}{}:
		default:
		}
	})
	ctrl.SetConfig(map[string]any{"x": 2})
	// SetConfig runs listeners on their own goroutines; allow the hook to run.
	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Error("Reload hook not called")
	}
}

func TestControlAdapterReloadTriggersGlobalHooks(t *testing.T) {
	ctrl := adapters.NewControlAdapter()
	triggered := false
	ctrl.OnReload(func() { triggered = true })
	ctrl.Reload()
	if !triggered {
		t.Error("Reload did not invoke hooks registered via OnReload")
	}
}
