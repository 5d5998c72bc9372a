package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authrepo "github.com/camaramunicipal/prestacontas/internal/auth/adapter/repo"
	"github.com/camaramunicipal/prestacontas/internal/platform/config"
	"github.com/camaramunicipal/prestacontas/internal/platform/database"
	"github.com/camaramunicipal/prestacontas/internal/platform/logger"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/adapter/repo"
)

var (
	// 全局参数
	configPath string

	cfg       *config.Config
	appLogger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "prestacontas",
	Short: "Prestação de contas de diárias e passagens",
	Long: `Serviço de prestação de contas de diárias e passagens da Câmara Municipal.

Sem subcomando inicia o servidor (API REST em /api e o assistente web).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		// 2. Logger
		appLogger, err = logger.NewLogger(cfg.Server.Mode)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLogger != nil {
			_ = appLogger.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml",
		"config file (empty: defaults + PRESTACAO_* env)")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, createUserCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB 打开数据库并建表
func openDB(ctx context.Context) (*gorm.DB, error) {
	db, err := database.Open(cfg.Database, cfg.Server.Mode, appLogger)
	if err != nil {
		return nil, err
	}
	if err := repo.Migrate(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migrate prestacao: %w", err)
	}
	if err := authrepo.Migrate(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migrate auth: %w", err)
	}
	return db, nil
}
