package main

import (
	"net/http"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"wicketwatch/app"
	"wicketwatch/config"
	"wicketwatch/lib"
	"wicketwatch/lib/cricketdata"
	"wicketwatch/lib/ingest"
	"wicketwatch/lib/matcher"
	"wicketwatch/lib/store"
	"wicketwatch/senders"
)

func NewLogger() (*zap.Logger, error) {
	switch os.Getenv("ENVIRONMENT") {
	default:
		return zap.NewDevelopment()

	case "production":
		logCfg := zap.NewProductionConfig()
		logCfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			t = t.UTC()
			zapcore.ISO8601TimeEncoder(t, enc)
		}
		return logCfg.Build()
	}
}

func main() {
	godotenv.Load()

	fx.New(
		fx.Provide(config.NewConfig),
		fx.Provide(NewLogger),

		fx.Provide(app.NewDatabase),
		fx.Provide(app.NewTransport),
		fx.Provide(fx.Annotate(
			store.NewStore,
			fx.As(new(matcher.SubscriptionStore)),
			fx.As(new(ingest.MatchStore)),
			fx.As(new(lib.Store)),
		)),
		fx.Provide(fx.Annotate(
			cricketdata.NewClient,
			fx.As(new(matcher.MatchFeed)),
			fx.As(new(ingest.MatchListFeed)),
		)),

		fx.Provide(senders.NewSenderRegistry),
		fx.Provide(fx.Annotate(
			senders.NewDispatcher,
			fx.As(new(matcher.Dispatcher)),
		)),

		fx.Provide(matcher.NewEngine),
		fx.Provide(ingest.NewTask),
		fx.Provide(lib.NewService),
		fx.Provide(app.NewScheduler),
		fx.Provide(app.NewHTTPServer),

		fx.Invoke(func(*http.Server, gocron.Scheduler) {}),
	).Run()
}
