package db

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolStats is the pool snapshot reported by /health when documents live in Postgres.
type PoolStats struct {
	Conns      int32   `json:"conns"`
	Idle       int32   `json:"idle"`
	InUse      int32   `json:"in_use"`
	Max        int32   `json:"max"`
	Saturation float64 `json:"saturation"`
	WaitMillis int64   `json:"wait_ms"`
}

// statSource is the subset of *pgxpool.Stat read here.
type statSource interface {
	TotalConns() int32
	IdleConns() int32
	AcquiredConns() int32
	MaxConns() int32
	AcquireCount() int64
	AcquireDuration() time.Duration
}

// GetPoolStats snapshots pool usage.
func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	return statsFrom(pool.Stat())
}

func statsFrom(s statSource) *PoolStats {
	ps := &PoolStats{
		Conns: s.TotalConns(),
		Idle:  s.IdleConns(),
		InUse: s.AcquiredConns(),
		Max:   s.MaxConns(),
	}
	if ps.Max > 0 {
		ps.Saturation = float64(ps.InUse) / float64(ps.Max)
	}
	// average wait per acquire
	if n := s.AcquireCount(); n > 0 {
		ps.WaitMillis = s.AcquireDuration().Milliseconds() / n
	}
	return ps
}
