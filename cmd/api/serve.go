package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/camaramunicipal/prestacontas/internal/apiclient"
	authrepo "github.com/camaramunicipal/prestacontas/internal/auth/adapter/repo"
	authapi "github.com/camaramunicipal/prestacontas/internal/auth/api"
	authservice "github.com/camaramunicipal/prestacontas/internal/auth/service"
	"github.com/camaramunicipal/prestacontas/internal/platform/database"
	"github.com/camaramunicipal/prestacontas/internal/platform/server"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/adapter/repo"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/api"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/service"
	"github.com/camaramunicipal/prestacontas/internal/report"
	"github.com/camaramunicipal/prestacontas/internal/report/archive"
	"github.com/camaramunicipal/prestacontas/internal/web/handler"
	"github.com/camaramunicipal/prestacontas/internal/web/session"
	"github.com/camaramunicipal/prestacontas/internal/web/templates"
)

// 会话清理周期
const sessionSweepEvery = 5 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (REST API + web wizard)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. 基础设施
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close(db)

	secret, err := authSecret()
	if err != nil {
		return err
	}
	arc, err := archive.New(cfg.Report.Archive)
	if err != nil {
		return err
	}

	// 2. 依赖注入
	// -- Prestação de contas --
	cadastroRepo := repo.NewCadastroRepo(db)
	prestacaoRepo := repo.NewPrestacaoRepo(db)
	cadastroSvc := service.NewCadastroService(cadastroRepo, appLogger)
	prestacaoSvc := service.NewPrestacaoService(prestacaoRepo, cadastroRepo, appLogger)
	reports := report.NewGenerator(cfg.Report.Municipio, cfg.Report.Contadora)
	prestacaoHandler := api.NewPrestacaoHandler(cadastroSvc, prestacaoSvc, reports, arc, appLogger)

	// -- Auth --
	tokens, err := authservice.NewTokenIssuer(secret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	if err != nil {
		return err
	}
	authSvc := authservice.NewAuthService(authrepo.NewUserRepo(db), tokens, cfg.Auth.BcryptCost, appLogger)
	authHandler := authapi.NewAuthHandler(authSvc, appLogger)

	// -- Web --
	pages, err := templates.Load()
	if err != nil {
		return err
	}
	sessions := session.NewStore(cfg.Web.SessionCookie, cfg.Web.SessionIdle, cfg.Server.Mode == "release", appLogger)
	client := apiclient.New(cfg.Web.APIBaseURL, nil, nil, appLogger)
	wizardHandler := handler.NewWizardHandler(client, sessions, pages, cfg.Web, appLogger)

	// 3. 初始化 Server (Gateway)
	srv := server.NewServer(appLogger, cfg.Server, wizardHandler, prestacaoHandler, authHandler)

	// 4. 启动服务
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sessions.Run(gctx, sessionSweepEvery)
		return nil
	})
	g.Go(func() error {
		defer stop()
		return srv.Run(gctx)
	})
	if err := g.Wait(); err != nil {
		appLogger.Error("server stopped", zap.Error(err))
		return err
	}
	appLogger.Info("server stopped")
	return nil
}

// authSecret release 模式必须配置；其他模式缺省时生成临时密钥，重启后令牌失效
func authSecret() (string, error) {
	if cfg.Auth.Secret != "" {
		return cfg.Auth.Secret, nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	appLogger.Warn("auth.secret not set, using a random secret for this process")
	return hex.EncodeToString(buf), nil
}
