package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	gateway "github.com/adonese/hrportal/apigateway"
	"github.com/adonese/hrportal/hr_fields"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

var portalConfig hr_fields.PortalConfig
var logrusLogger = logrus.New()
var logSampling gateway.LogSamplingConfig
var otelShutdown func(context.Context) error
var otelEnabled bool

func main() {
	if cmd := command(); cmd != "" {
		if err := runCommand(cmd, os.Stdout); err != nil {
			logrusLogger.Fatalf("%s failed: %v", cmd, err)
		}
		return
	}

	configData, err := loadConfig()
	if err != nil {
		logrusLogger.Fatalf("error loading config: %v", err)
	}
	if err := json.Unmarshal(configData, &portalConfig); err != nil {
		logrusLogger.Fatalf("error in unmarshaling config file: %v", err)
	}
	portalConfig.Defaults()
	configureLogger(portalConfig)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initOTel(ctx, portalConfig, logrusLogger)
	if otelShutdown != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
			defer cancel()
			if err := otelShutdown(ctx); err != nil {
				logrusLogger.WithError(err).Warn("otel shutdown failed")
			}
		}()
	}

	p, err := openPortal(ctx, portalConfig, logrusLogger)
	if err != nil {
		logrusLogger.Fatalf("error opening storage: %v", err)
	}
	defer p.Close()

	app := GetMainEngine(p)
	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logrusLogger.WithError(err).Warn("shutdown")
		}
	}()

	logrusLogger.WithFields(logrus.Fields{
		"port":   portalConfig.Port,
		"driver": p.DB.Driver,
		"otel":   otelEnabled,
		"cache":  portalConfig.RedisAddr != "",
	}).Info("hrportal listening")
	if err := app.Listen(portalConfig.Port); err != nil {
		logrusLogger.WithError(err).Error("server stopped")
	}
}
