package metrics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DBConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_pool_connections",
			Help: "Postgres pool connections by state.",
		},
		[]string{"state"},
	)

	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_session_clients",
			Help: "Connected session event subscribers.",
		},
	)
)

// ClientCounter is satisfied by the events hub.
type ClientCounter interface {
	ClientCount() int
}

// Collector samples pool and subscriber gauges on a fixed interval.
type Collector struct {
	pool     *pgxpool.Pool
	clients  ClientCounter
	interval time.Duration
}

func NewCollector(pool *pgxpool.Pool, clients ClientCounter, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Collector{pool: pool, clients: clients, interval: interval}
}

// Run collects until ctx is done.
func (c *Collector) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.collect()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.collect()
		}
	}
}

func (c *Collector) collect() {
	if c.pool != nil {
		st := c.pool.Stat()
		DBConnections.WithLabelValues("acquired").Set(float64(st.AcquiredConns()))
		DBConnections.WithLabelValues("idle").Set(float64(st.IdleConns()))
		DBConnections.WithLabelValues("total").Set(float64(st.TotalConns()))
	}
	if c.clients != nil {
		WebSocketClients.Set(float64(c.clients.ClientCount()))
	}
}
