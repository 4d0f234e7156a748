package daemon

import (
	"context"
	"time"

	"github.com/bingwall/bingwall/internal/ipc"
	"github.com/bingwall/bingwall/internal/models"
	"github.com/bingwall/bingwall/internal/version"
)

// ipcHandler adapts the daemon to the IPC server's Handler interface.
type ipcHandler struct {
	daemon *Daemon

	// shutdown asks the process hosting the daemon to exit
	shutdown func()
}

// NewIPCHandler wires the daemon behind an IPC handler. The shutdown
// callback is invoked when a client requests a daemon shutdown.
func NewIPCHandler(d *Daemon, shutdown func()) ipc.Handler {
	return &ipcHandler{daemon: d, shutdown: shutdown}
}

func (h *ipcHandler) GetStatus() *ipc.StatusData {
	status := h.daemon.GetStatus()

	data := &ipc.StatusData{
		Mode:      status.Mode,
		Version:   version.Version,
		Current:   status.Current,
		LastError: status.LastError,
		Uptime:    h.daemon.Uptime().Round(time.Second).String(),
	}
	if !status.LastRefresh.IsZero() {
		lr := status.LastRefresh
		data.LastRefresh = &lr
	}
	return data
}

func (h *ipcHandler) SetMode(mode string) error {
	return h.daemon.SetMode(context.Background(), mode)
}

func (h *ipcHandler) RefreshNow() error {
	return h.daemon.RefreshNow(context.Background())
}

func (h *ipcHandler) GetHistory(limit int) []*models.Wallpaper {
	return h.daemon.State().GetRecent(limit)
}

func (h *ipcHandler) Shutdown() {
	if h.shutdown != nil {
		h.shutdown()
	}
}
