package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corkboardhq/corkboard/backend/internal/config"
	"github.com/corkboardhq/corkboard/backend/internal/gateway"
	"github.com/corkboardhq/corkboard/backend/internal/logging"
	"github.com/corkboardhq/corkboard/backend/internal/registry"
	"github.com/corkboardhq/corkboard/backend/internal/server"
	"github.com/corkboardhq/corkboard/backend/internal/service"
	"github.com/corkboardhq/corkboard/backend/internal/storage"
	"github.com/corkboardhq/corkboard/backend/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "corkboard-api",
		Short: "Corkboard collaborative whiteboard backend",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-driver", defaults.GetString("database.driver"), "Database driver (sqlite, postgres)")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("database-dsn", defaults.GetString("database.dsn"), "Postgres connection string")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.driver", "database-driver")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "database.dsn", "database-dsn")
	bindFlag(cmd, "log.level", "log-level")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func openDatabase(cfg config.AppConfig, logger *zap.Logger) (*gorm.DB, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		return storage.OpenPostgres(cfg.DatabaseDSN, logger)
	default:
		return storage.OpenSQLite(cfg.DatabasePath, logger)
	}
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	health := storage.NewHealth()
	db, err := openDatabase(appConfig, logger)
	if err != nil {
		return err
	}
	health.SetReachable(true)
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	boards := storage.NewBoardRepository(db)
	notes := storage.NewNoteRepository(db)
	users := storage.NewUserRepository(db)
	membership := registry.NewMembership()

	ids := usecase.NewUUIDProvider()
	clock := time.Now

	joinSession := usecase.NewJoinSession(users, clock)
	createBoard := usecase.NewCreateBoard(boards, users, ids, clock)
	updateBoard := usecase.NewUpdateBoard(boards, clock)
	joinBoard := usecase.NewJoinBoard(users, boards)
	createNote := usecase.NewCreateNote(notes, ids, clock)
	updateNote := usecase.NewUpdateNote(notes, clock)
	deleteNote := usecase.NewDeleteNote(notes)
	addComment := usecase.NewAddComment(notes, ids, clock)

	boardService := service.NewBoards(boards, membership)
	noteService := service.NewNotes(notes)
	presenceService := service.NewUsers(users)

	socketGateway, err := gateway.New(gateway.Dependencies{
		Membership: membership,
		Users:      users,
		UseCases: gateway.UseCases{
			JoinSession: joinSession,
			CreateBoard: createBoard,
			JoinBoard:   joinBoard,
			CreateNote:  createNote,
			UpdateNote:  updateNote,
			DeleteNote:  deleteNote,
			AddComment:  addComment,
		},
		Boards:   boardService,
		Notes:    noteService,
		Presence: presenceService,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Gateway: socketGateway,
		Users:   users,
		UseCases: server.UseCases{
			CreateBoard: createBoard,
			UpdateBoard: updateBoard,
			CreateNote:  createNote,
			UpdateNote:  updateNote,
			DeleteNote:  deleteNote,
			AddComment:  addComment,
		},
		Boards:   boardService,
		Notes:    noteService,
		Presence: presenceService,
		Health:   health,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("address", appConfig.HTTPAddress),
			zap.String("database_driver", appConfig.DatabaseDriver))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
