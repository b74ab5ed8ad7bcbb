package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"versefeed/observability"
	"versefeed/realtime"
)

// ReporterWorker periodically logs the delivery counters and the process's
// own resource usage. Delivery failures are swallowed at the router, so
// this log line is how operators detect abnormal failure rates.
type ReporterWorker struct {
	log      *slog.Logger
	stats    *observability.DeliveryStats
	registry *realtime.Registry
	interval time.Duration
}

func NewReporterWorker(log *slog.Logger, stats *observability.DeliveryStats,
	registry *realtime.Registry, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, stats: stats, registry: registry, interval: interval}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.report(proc)
			return nil
		case <-ticker.C:
			w.report(proc)
		}
	}
}

func (w *ReporterWorker) report(proc *process.Process) {
	snapshot := w.stats.Snapshot()

	var rssMb uint64
	var cpuPercent float64
	if memInfo, err := proc.MemoryInfo(); err == nil {
		rssMb = memInfo.RSS / 1024 / 1024
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		cpuPercent = cpu
	}

	w.log.Info("Delivery telemetry",
		"online", w.registry.Online(),
		"persisted", snapshot.MessagesPersisted,
		"delivered_live", snapshot.DeliveredLive,
		"receiver_offline", snapshot.ReceiverOffline,
		"delivery_failures", snapshot.DeliveryFailures,
		"read_receipts", snapshot.ReadReceipts,
		"frames_rejected", snapshot.FramesRejected,
		"rss_mb", rssMb,
		"cpu_percent", cpuPercent,
	)
}
