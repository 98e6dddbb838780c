package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "spca-maps/docs"
	"spca-maps/internal/auth"
	"spca-maps/internal/config"
	"spca-maps/internal/handler"
	"spca-maps/internal/loader"
	"spca-maps/internal/render"
	"spca-maps/internal/repository"
	"spca-maps/internal/service"
	"spca-maps/internal/session"
	"spca-maps/web"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//	@title			SPCA Maps API
//	@version		1.0
//	@description	Pet pantry and vaccine clinic maps for Erie County.
//	@BasePath		/

func main() {
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of a password for PASSWORD_HASH and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot hash password")
		}
		fmt.Println(hash)
		return
	}

	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	setLogLevel(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, config)
	if err != nil {
		log.Fatal().Err(err).Str("data_source", config.DataSource).Msg("cannot open data source")
	}

	bands := render.DefaultBands
	if config.BandsFile != "" {
		if bands, err = render.LoadBands(config.BandsFile); err != nil {
			log.Fatal().Err(err).Str("path", config.BandsFile).Msg("cannot load color bands")
		}
	}

	// Initialize layers
	memo := session.NewMemo(config.CacheTTL)
	data := loader.New(store, loader.Files{
		Boundaries:      config.BoundariesFile,
		PantryClients:   config.PantryClientsFile,
		PantryVisits:    config.PantryVisitsFile,
		PantryLocations: config.PantryLocationsFile,
		Survey:          config.SurveyFile,
	}, loader.WithMemo(memo), loader.WithZipProperty(config.ZipProperty))

	var pantries service.PantryLocator = data
	var pantrySearch *handler.PantrySearchHandler
	if config.DBSource != "" {
		// Database connection
		conn, err := pgxpool.New(ctx, config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()

		repo := repository.NewRepository(conn)
		if config.PantrySource == "postgres" {
			pantries = repo
		}
		pantrySearch = handler.NewPantrySearchHandler(
			service.NewPantrySearchService(repo),
			service.NewNearestPantryService(repo),
		)
	} else if config.PantrySource == "postgres" {
		log.Fatal().Msg("PANTRY_SOURCE=postgres requires DB_SOURCE")
	}

	authenticator, err := auth.New(config.PasswordHash, config.SessionSecret, config.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot configure authentication")
	}

	tmpl, err := web.Templates()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse templates")
	}

	gin.SetMode(gin.ReleaseMode)
	r := handler.NewRouter(handler.RouterConfig{
		Maps: handler.NewMapHandler(
			service.NewPantryMapService(data, pantries, bands),
			service.NewVaccineMapService(data, pantries, bands),
		),
		Pantries:  pantrySearch,
		Auth:      authenticator,
		Memo:      memo,
		Templates: tmpl,
		Static:    web.Static(),
	})

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", config.ServerAddress).Str("data_source", config.DataSource).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// newStore opens the configured blob source and puts redis in front of it
// when REDIS_ADDR is set.
func newStore(ctx context.Context, config config.Config) (loader.Store, error) {
	var store loader.Store
	switch config.DataSource {
	case "file":
		store = loader.NewFileStore(config.DataDir)
	case "drive":
		creds, err := os.ReadFile(config.DriveCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read drive credentials: %w", err)
		}
		ds, err := loader.NewDriveStore(ctx, creds, config.DriveFolder, config.DriveChunkSize)
		if err != nil {
			return nil, err
		}
		store = ds
	default:
		return nil, fmt.Errorf("unknown DATA_SOURCE %q", config.DataSource)
	}

	if config.RedisAddr == "" {
		return store, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", config.RedisAddr).Msg("redis unreachable, blobs will be fetched directly")
	}
	return loader.NewCachedStore(store, rdb, config.CacheTTL), nil
}

func setLogLevel(level string) {
	l, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)
}
