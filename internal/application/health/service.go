package health

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Report is the health JSON body.
type Report struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Service pings the relational store and the session store.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// Check pings both backends. Overall status is "ok" only when every
// configured backend answers.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: "ok", Database: "unconfigured", Redis: "unconfigured"}

	if s.DB != nil {
		r.Database = "ok"
		sqlDB, err := s.DB.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			r.Database = "down"
			r.Status = "degraded"
		}
	}
	if s.Rdb != nil {
		r.Redis = "ok"
		if err := s.Rdb.Ping(ctx).Err(); err != nil {
			r.Redis = "down"
			r.Status = "degraded"
		}
	}
	return r
}
