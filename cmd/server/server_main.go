package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"NewWorld/internal/diplomacy"
	"NewWorld/internal/game/model"
	"NewWorld/internal/game/options"
	"NewWorld/internal/game/spec"
	"NewWorld/internal/lobby"
	"NewWorld/internal/score"
	"NewWorld/internal/shared/logs"
	"NewWorld/internal/shared/serverconfig"
	"NewWorld/internal/shared/session"
	transporthttp "NewWorld/internal/shared/transport/http"
	"NewWorld/internal/shared/transport/ws"
	"NewWorld/internal/trade"
	"NewWorld/modules/kit/logx"
)

func main() {
	serverconfig.Load()
	if err := logs.Init("server", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	baseLogger := logx.NewZapLogger(logs.Logger())

	// 规则与选项
	rules, err := spec.LoadFile(serverconfig.Conf.Rules.File)
	if err != nil {
		logs.Fatal("load rules failed", zap.Error(err))
	}
	opts := options.New(baseLogger)
	opts.Apply(serverconfig.Conf.Rules.Options)
	rules.SelectDifficulty(opts.GetInt(options.KeyDifficulty))

	game := model.NewGame(rules, opts, baseLogger)

	// 名人堂存储
	scoreDB, err := score.Open(serverconfig.Conf.Score)
	if err != nil {
		logs.Fatal("open score db failed", zap.Error(err))
	}
	scoreSvc := score.NewService(score.NewRepo(scoreDB), serverconfig.Conf.Score.TopN, baseLogger)

	// 交易会话与消息路由
	sessMgr := session.NewSessMgr()
	tradeStore := trade.NewStore(baseLogger)
	game.SetController(trade.NewController(tradeStore, baseLogger))

	wsRouter := ws.NewRouter(baseLogger)
	lobby.NewHandler(game, sessMgr, scoreSvc, baseLogger).Register(wsRouter)
	trade.NewHandler(game, tradeStore, trade.NewHagglingValuer(rules), baseLogger).Register(wsRouter)
	diplomacy.NewHandler(game, diplomacy.NewStore(), baseLogger).Register(wsRouter)

	host := serverconfig.Conf.GameServer.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, serverconfig.Conf.GameServer.Port)

	httpServer := transporthttp.NewHttpServer(addr, nil, baseLogger)
	scoreSvc.Register(httpServer.Group())

	wsServer := ws.NewServer(wsRouter, baseLogger)
	httpServer.Engine().Any("/ws", gin.WrapH(wsServer))
	httpServer.Engine().Any("/ws/*any", gin.WrapH(wsServer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("game server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
}
