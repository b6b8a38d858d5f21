package services

import (
	"context"
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"
)

var uptimeStart = time.Now()

type serverHealthStatus struct {
	UptimeSeconds float64      `json:"uptime_seconds"`
	CurrentTime   time.Time    `json:"current_time"`
	ServiceAlive  bool         `json:"service_alive"`
	Memory        memorySample `json:"memory"`
	Goroutines    int          `json:"goroutines"`
}

// memorySample is a snapshot of the Go runtime heap, in MiB.
type memorySample struct {
	HeapAllocMB uint64 `json:"heap_alloc_mb"`
	HeapSysMB   uint64 `json:"heap_sys_mb"`
	SysMB       uint64 `json:"sys_mb"`
	NumGC       uint32 `json:"num_gc"`
}

type dependencyHealthStatus struct {
	Connected      bool      `json:"connected"`
	LastChecked    time.Time `json:"last_checked"`
	ResponseTimeMs int64     `json:"response_time_ms"`
}

// Pinger is anything that can report its own reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a plain ping function, such as the cache client's.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

type HealthService struct {
	logger *gecho.Logger
	db     Pinger
	cache  Pinger
}

func NewHealthService(logger *gecho.Logger, db Pinger, cache Pinger) *HealthService {
	return &HealthService{
		logger: logger,
		db:     db,
		cache:  cache,
	}
}

func sampleMemory() memorySample {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	const mib = 1 << 20
	return memorySample{
		HeapAllocMB: m.HeapAlloc / mib,
		HeapSysMB:   m.HeapSys / mib,
		SysMB:       m.Sys / mib,
		NumGC:       m.NumGC,
	}
}

func (hs *HealthService) GetServerHealthStatus() serverHealthStatus {
	return serverHealthStatus{
		UptimeSeconds: time.Since(uptimeStart).Seconds(),
		CurrentTime:   time.Now(),
		ServiceAlive:  true,
		Memory:        sampleMemory(),
		Goroutines:    runtime.NumGoroutine(),
	}
}

func (hs *HealthService) check(ctx context.Context, name string, p Pinger) (dependencyHealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	err := p.PingContext(ctx)

	status := dependencyHealthStatus{
		Connected:      err == nil,
		LastChecked:    time.Now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		hs.logger.Error("Health check failed", gecho.Field("dependency", name), gecho.Field("error", err))
	}
	return status, err
}

func (hs *HealthService) GetDatabaseHealthStatus(ctx context.Context) (dependencyHealthStatus, error) {
	return hs.check(ctx, "database", hs.db)
}

func (hs *HealthService) GetCacheHealthStatus(ctx context.Context) (dependencyHealthStatus, error) {
	return hs.check(ctx, "cache", hs.cache)
}
