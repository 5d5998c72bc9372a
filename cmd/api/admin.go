package main

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	authrepo "github.com/camaramunicipal/prestacontas/internal/auth/adapter/repo"
	authservice "github.com/camaramunicipal/prestacontas/internal/auth/service"
	"github.com/camaramunicipal/prestacontas/internal/platform/database"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/adapter/repo"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/service"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer database.Close(db)
		appLogger.Info("migration finished", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}

// 默认职务与日补贴标准
var defaultCargos = []service.NovoCargo{
	{NomeCargo: "Vereador", ValorDiariaDentroEstado: decimal.NewFromInt(300), ValorDiariaForaEstado: decimal.NewFromInt(600)},
	{NomeCargo: "Assessor Legislativo", ValorDiariaDentroEstado: decimal.NewFromInt(200), ValorDiariaForaEstado: decimal.NewFromInt(400)},
	{NomeCargo: "Servidor Efetivo", ValorDiariaDentroEstado: decimal.NewFromInt(150), ValorDiariaForaEstado: decimal.NewFromInt(300)},
}

var seedPresidente string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default cargos and, optionally, a presidente",
	Long: `Insert the default cargos (skipping names that already exist).

Example:
  prestacontas seed --presidente "Maria da Silva"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close(db)

		cadastro := service.NewCadastroService(repo.NewCadastroRepo(db), appLogger)
		created := 0
		for _, c := range defaultCargos {
			_, err := cadastro.CreateCargo(ctx, c)
			switch {
			case errors.Is(err, domain.ErrConflict):
				appLogger.Info("cargo already exists", zap.String("cargo", c.NomeCargo))
			case err != nil:
				return fmt.Errorf("seed cargo %s: %w", c.NomeCargo, err)
			default:
				created++
			}
		}
		if seedPresidente != "" {
			if _, err := cadastro.CreatePresidente(ctx, seedPresidente); err != nil {
				return fmt.Errorf("seed presidente: %w", err)
			}
		}
		appLogger.Info("seed finished", zap.Int("cargos", created), zap.String("presidente", seedPresidente))
		return nil
	},
}

var newUser authservice.RegisterInput

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close(db)

		// 只用到密码哈希，令牌签发器给一个占位密钥
		tokens, err := authservice.NewTokenIssuer("create-user", cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
		if err != nil {
			return err
		}
		svc := authservice.NewAuthService(authrepo.NewUserRepo(db), tokens, cfg.Auth.BcryptCost, appLogger)
		u, err := svc.Register(ctx, newUser)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "user %s created (id %d)\n", u.Username, u.ID)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPresidente, "presidente", "", "presidente da câmara to insert")

	f := createUserCmd.Flags()
	f.StringVarP(&newUser.Username, "username", "u", "", "username (required)")
	f.StringVarP(&newUser.Email, "email", "e", "", "email (required)")
	f.StringVarP(&newUser.Password, "password", "p", "", "password (required)")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}
