package score

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"NewWorld/internal/shared/logs"
	"NewWorld/internal/shared/serverconfig"
	"NewWorld/modules/kit/errx"
)

var ErrScoreUnavailable = errx.NewSys("SCORE_UNAVAILABLE", "名人堂存储不可用")

// Open 打开名人堂数据库并建表。
func Open(cfg serverconfig.ScoreConfig) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger: logs.NewGormLogger(glogger.Warn, 200*time.Millisecond),
	}
	db, err := gorm.Open(sqlite.Open(cfg.DBFile), gcfg)
	if err != nil {
		return nil, ErrScoreUnavailable.WithData("dbFile", cfg.DBFile).WithCause(err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, ErrScoreUnavailable.WithData("dbFile", cfg.DBFile).WithCause(err)
	}
	logs.Info("open score db success", zap.String("dbFile", cfg.DBFile))
	return db, nil
}

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Save(ctx context.Context, rec *Record) error {
	err := r.db.WithContext(ctx).Create(rec).Error
	if err != nil {
		return ErrScoreUnavailable.WithData("playerName", rec.PlayerName).WithCause(err)
	}
	return nil
}

// Top 按分数降序、同分早到靠前取前 n 行。
func (r *Repo) Top(ctx context.Context, n int) ([]*Record, error) {
	if n <= 0 {
		n = 10
	}
	var records []*Record
	err := r.db.WithContext(ctx).
		Order("score DESC").
		Order("date ASC").
		Limit(n).
		Find(&records).Error
	if err != nil {
		return nil, ErrScoreUnavailable.WithData("limit", n).WithCause(err)
	}
	return records, nil
}
