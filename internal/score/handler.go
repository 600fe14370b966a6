package score

import (
	"context"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"NewWorld/internal/game/model"
	"NewWorld/modules/kit/logx"
)

// Service 负责结算入榜：玩家退役或独立时拍快照入库。
type Service struct {
	repo *Repo
	topN int
	log  logx.Logger
}

func NewService(repo *Repo, topN int, log logx.Logger) *Service {
	if log == nil {
		log = logx.NewZapLogger(nil)
	}
	if topN <= 0 {
		topN = 10
	}
	return &Service{repo: repo, topN: topN, log: log}
}

// RecordPlayer 结算一名玩家并入榜。
func (s *Service) RecordPlayer(ctx context.Context, p *model.Player, now time.Time) (*Record, error) {
	h := model.NewHighScore(p, now)
	rec := newRecord(h)
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	s.log.Info("high score recorded",
		zap.String("playerName", rec.PlayerName),
		zap.Int("score", rec.Score),
		zap.String("level", rec.Level))
	return rec, nil
}

// Register 挂 /scores 查询路由。
func (s *Service) Register(g *gin.RouterGroup) {
	g.GET("/scores", s.list)
}

func (s *Service) list(c *gin.Context) {
	n := s.topN
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "limit 参数有误"})
			return
		}
		if v < n {
			n = v
		}
	}
	records, err := s.repo.Top(c.Request.Context(), n)
	if err != nil {
		logx.ReportSysError(c.Request.Context(), s.log, logx.NewSysLog("score list tech error", err))
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "名人堂暂不可用"})
		return
	}
	c.JSON(nethttp.StatusOK, gin.H{"scores": records})
}
