package health

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db    Pinger
	redis *redis.Client
}

type HealthStatus struct {
	Status   string           `json:"status"`
	Database DependencyHealth `json:"database"`
	Redis    DependencyHealth `json:"redis"`
}

type DependencyHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// DetailedStatus adds host resource usage to the dependency checks.
type DetailedStatus struct {
	HealthStatus
	System SystemStats `json:"system"`
}

type SystemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsed    string  `json:"memory_used"`
	MemoryTotal   string  `json:"memory_total"`
	DiskPercent   float64 `json:"disk_percent"`
}

// NewHealthChecker builds a checker. redis may be nil when the cache is
// disabled; it is then reported as "disabled" and does not affect status.
func NewHealthChecker(db Pinger, rdb *redis.Client) *HealthChecker {
	return &HealthChecker{db: db, redis: rdb}
}

func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := ping(ctx, h.db.Ping)

	redisHealth := DependencyHealth{Status: "disabled"}
	if h.redis != nil {
		redisHealth = ping(ctx, func(ctx context.Context) error {
			return h.redis.Ping(ctx).Err()
		})
	}

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	} else if redisHealth.Status == "unhealthy" {
		status = "degraded"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Redis:    redisHealth,
	}
}

func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	out := DetailedStatus{HealthStatus: h.CheckBasic(ctx)}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		out.System.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		out.System.MemoryPercent = vm.UsedPercent
		out.System.MemoryUsed = formatBytes(vm.Used)
		out.System.MemoryTotal = formatBytes(vm.Total)
	}
	if du, err := disk.Usage("/"); err == nil {
		out.System.DiskPercent = du.UsedPercent
	}
	return out
}

func ping(ctx context.Context, fn func(context.Context) error) DependencyHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DependencyHealth{Status: "unhealthy", ResponseTime: responseTime}
	}
	return DependencyHealth{Status: "healthy", ResponseTime: responseTime}
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB", gb)
}
