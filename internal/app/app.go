// Package app wires the gateway together from configuration: database,
// repositories, rule engine, telemetry providers, decision emitter, and the
// challenge service the authentication pipeline calls.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"iam-gateway/internal/audit"
	auditrepo "iam-gateway/internal/audit/repository"
	clientrepo "iam-gateway/internal/client/repository"
	"iam-gateway/internal/config"
	"iam-gateway/internal/db"
	devicerepo "iam-gateway/internal/device/repository"
	factorrepo "iam-gateway/internal/factor/repository"
	"iam-gateway/internal/mfapolicy/service"
	"iam-gateway/internal/rule"
	"iam-gateway/internal/telemetry"
	telemetryotel "iam-gateway/internal/telemetry/otel"
	"iam-gateway/internal/telemetry/producer"
	userrepo "iam-gateway/internal/user/repository"
)

const serviceName = "iam-gateway"

// App holds the wired components. Construct with New, release with Close.
type App struct {
	// Challenges is the challenge decision service the pipeline calls.
	Challenges *service.ChallengeService
	// Users resolves the authenticated user for Assess.
	Users userrepo.Repository

	conn      *sql.DB
	providers *telemetryotel.Providers
	producer  *producer.KafkaProducer
}

// New opens the database, sets up telemetry, and builds the challenge service.
// Decision events go to Kafka when brokers are configured, otherwise to the
// OTLP log exporter (a no-op when no endpoint is configured either).
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("telemetry providers: %w", err)
	}
	providers.SetGlobal()

	emitter, kafkaProducer, err := newEmitter(cfg, providers)
	if err != nil {
		_ = providers.Shutdown(ctx)
		_ = conn.Close()
		return nil, err
	}

	auditor := audit.NewLogger(auditrepo.NewPostgresRepository(conn), nil)
	challenges := service.NewChallengeService(
		clientrepo.NewPostgresRepository(conn),
		factorrepo.NewPostgresRepository(conn),
		devicerepo.NewPostgresRepository(conn),
		rule.NewRegoEngine(),
		auditor,
		emitter,
		time.Duration(cfg.DefaultRememberDeviceSeconds)*time.Second,
	)

	return &App{
		Challenges: challenges,
		Users:      userrepo.NewPostgresRepository(conn),
		conn:       conn,
		providers:  providers,
		producer:   kafkaProducer,
	}, nil
}

// newEmitter picks the decision-event sink: Kafka when brokers are configured,
// the OTel log pipeline otherwise. The returned producer is non-nil only for
// Kafka so Close can release it.
func newEmitter(cfg *config.Config, providers *telemetryotel.Providers) (telemetry.EventEmitter, *producer.KafkaProducer, error) {
	if brokers := cfg.TelemetryKafkaBrokersList(); len(brokers) > 0 {
		p, err := producer.NewKafkaProducer(brokers, cfg.TelemetryKafkaTopic)
		if err != nil {
			return nil, nil, fmt.Errorf("kafka emitter: %w", err)
		}
		return p, p, nil
	}
	return telemetryotel.NewEventEmitter(providers.LoggerProvider), nil, nil
}

// Close drains in-flight decision events, then releases the emitter,
// telemetry providers, and database connection.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	select {
	case <-time.After(telemetry.ShutdownDrainDuration):
	case <-ctx.Done():
	}

	var errs []error
	if a.producer != nil {
		errs = append(errs, a.producer.Close())
	}
	if a.providers != nil {
		errs = append(errs, a.providers.Shutdown(ctx))
	}
	if a.conn != nil {
		errs = append(errs, a.conn.Close())
	}
	return errors.Join(errs...)
}
