package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/SoroushGhorbanimehr/tigo-app/internal"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/config"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/logging"
	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	closeLogs := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "tigo-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	trainerUsername := os.Getenv("TIGO_TRAINER_USERNAME")
	trainerPasswordHash := os.Getenv("TIGO_TRAINER_PASSWORD_HASH")
	if trainerUsername == "" || trainerPasswordHash == "" {
		log.Errorf("trainer username and password not set. use TIGO_TRAINER_USERNAME and TIGO_TRAINER_PASSWORD_HASH, trainer login disabled")
	}

	postgresPassword := os.Getenv("TIGO_POSTGRES_PASS")

	redisPassword := os.Getenv("TIGO_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use TIGO_REDIS_PASS")
	}

	minioAccessKey := os.Getenv("TIGO_MINIO_ACCESS_KEY")
	minioSecretKey := os.Getenv("TIGO_MINIO_SECRET_KEY")
	if cfg.MediaBackend == config.MediaBackendMinio && (minioAccessKey == "" || minioSecretKey == "") {
		log.Errorf("minio credentials not set. use TIGO_MINIO_ACCESS_KEY and TIGO_MINIO_SECRET_KEY")
	}

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	if cfg.MediaBackend == config.MediaBackendDisk {
		dirExists, err := pkg.PathExists(cfg.MediaDiskRootPath, true)
		if err != nil {
			log.Fatalf("check media root dir: %s", err)
		}
		if !dirExists {
			log.Warnf("media root dir missing, will be created: %s", cfg.MediaDiskRootPath)
		} else {
			log.Printf("media root dir: %s", cfg.MediaDiskRootPath)
		}
	}

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             versionInfo,
			TrainerUsername:         trainerUsername,
			TrainerPasswordHash:     trainerPasswordHash,
			PostgresPassword:        postgresPassword,
			RedisPassword:           redisPassword,
			MinioAccessKey:          minioAccessKey,
			MinioSecretKey:          minioSecretKey,
			HoneycombTracingEnabled: honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()

	if err := closeLogs(); err != nil {
		log.Errorf("close log output: %s", err)
	}
}

// tryGetLastCommitHash assumes the binary runs from the project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(pkg.BytesToString(stdout)), nil
}
