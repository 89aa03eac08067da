// Package app assembles the API from configuration. The HTTP server and the
// lambda entry point share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"github.com/capitalize-ai/ai-slides/internal/config"
	"github.com/capitalize-ai/ai-slides/internal/deck"
	"github.com/capitalize-ai/ai-slides/internal/handler"
	"github.com/capitalize-ai/ai-slides/internal/llm"
	natsclient "github.com/capitalize-ai/ai-slides/internal/nats"
	"github.com/capitalize-ai/ai-slides/internal/paramstore"
	"github.com/capitalize-ai/ai-slides/internal/repository"
	"github.com/capitalize-ai/ai-slides/internal/service"
	"github.com/capitalize-ai/ai-slides/internal/storage"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
)

// App is the assembled API.
type App struct {
	Handler http.Handler

	closers []func()
	logger  *logger.Logger
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// awsLoader loads the AWS config once, on first use.
type awsLoader struct {
	ctx context.Context
	cfg *aws.Config
}

func (l *awsLoader) load() (aws.Config, error) {
	if l.cfg != nil {
		return *l.cfg, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(l.ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	l.cfg = &cfg
	return cfg, nil
}

// New builds every service named by cfg and the router over them. On error
// anything already opened is closed.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (_ *App, err error) {
	a := &App{logger: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()
	loader := &awsLoader{ctx: ctx}

	var nc *natsclient.Client
	var streams *natsclient.StreamManager
	if cfg.NATSURL != "" {
		nc, err = natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		a.closers = append(a.closers, nc.Close)

		streams = natsclient.NewStreamManager(nc)
		if err = streams.EnsureStream(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure stream: %w", err)
		}
	}

	repo, err := a.openRepository(ctx, cfg, loader, streams)
	if err != nil {
		return nil, err
	}
	log.Info("history backend ready", zap.String("backend", repo.Name()))

	var events service.EventPublisher
	if streams != nil {
		events = streams
	}
	historySvc := service.NewHistoryService(repo, events, log)

	generationSvc, err := newGenerationService(cfg, loader, log)
	if err != nil {
		return nil, err
	}

	store, staticDir, err := openStore(cfg, loader)
	if err != nil {
		return nil, err
	}
	uploader := storage.NewUploader(store, cfg.UploadMaxBytes, log)

	checks := map[string]handler.Check{
		"history": historySvc.Ping,
		"uploads": uploader.Health,
	}
	if nc != nil {
		checks["nats"] = func(context.Context) error {
			if !nc.IsConnected() {
				return errors.New("not connected")
			}
			return nil
		}
	}

	a.Handler = handler.NewRouter(handler.RouterConfig{
		Generator:         generationSvc,
		History:           historySvc,
		Uploader:          uploader,
		Renderer:          deck.NewPPTXRenderer(),
		Checks:            checks,
		Logger:            log,
		StaticDir:         staticDir,
		StaticPath:        cfg.UploadURLPath,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		CORSOrigins:       cfg.CORSAllowedOrigins,
	})
	return a, nil
}

func (a *App) openRepository(ctx context.Context, cfg *config.Config, loader *awsLoader, streams *natsclient.StreamManager) (repository.Repository, error) {
	switch strings.ToLower(cfg.HistoryBackend) {
	case "", "file":
		return repository.NewFileRepository(cfg.HistoryFile), nil

	case "sqlite":
		repo, err := repository.OpenSQLite(ctx, cfg.HistorySQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() {
			if err := repo.Close(); err != nil {
				a.logger.Warn("failed to close sqlite", zap.Error(err))
			}
		})
		return repo, nil

	case "dynamodb":
		awsCfg, err := loader.load()
		if err != nil {
			return nil, err
		}
		return repository.NewDynamoRepository(dynamodb.NewFromConfig(awsCfg), cfg.HistoryDynamoDBTable)

	case "nats":
		if streams == nil {
			return nil, errors.New("history backend nats requires NATS_URL")
		}
		kv, err := streams.EnsureKeyValue(ctx, cfg.NATSKVBucket)
		if err != nil {
			return nil, err
		}
		return repository.NewKVRepository(kv), nil
	}
	return nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
}

func newGenerationService(cfg *config.Config, loader *awsLoader, log *logger.Logger) (*service.GenerationService, error) {
	provider, err := llm.ParseProvider(cfg.LLMProvider)
	if err != nil {
		return nil, err
	}

	creds := llm.ChainCredential{llm.StaticCredential(cfg.APIKey(string(provider)))}
	if cfg.SSMParamPrefix != "" {
		awsCfg, err := loader.load()
		if err != nil {
			return nil, err
		}
		params, err := paramstore.New(ssm.NewFromConfig(awsCfg))
		if err != nil {
			return nil, err
		}
		name := ParameterName(cfg.SSMParamPrefix, config.APIKeyEnv(string(provider)))
		creds = append(creds, llm.NewParameterCredential(params, name))
	}

	opts := llm.Options{OpenAIBaseURL: cfg.OpenAIBaseURL}
	factory := func(ctx context.Context, apiKey string) (llm.Client, error) {
		return llm.NewClient(ctx, provider, apiKey, opts)
	}

	log.Info("generation configured",
		zap.String("provider", string(provider)),
		zap.String("model", cfg.LLMModel),
		zap.Bool("param_store", cfg.SSMParamPrefix != ""),
	)
	return service.NewGenerationService(service.GenerationConfig{
		Provider:  provider,
		Model:     cfg.LLMModel,
		MaxTokens: cfg.LLMMaxTokens,
	}, creds, factory, log), nil
}

// ParameterName returns the parameter holding the key in envName, for
// example /ai-slides + GOOGLE_API_KEY gives /ai-slides/google_api_key.
func ParameterName(prefix, envName string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + strings.ToLower(envName)
}

// openStore returns the upload store and, for local storage, the directory
// the router should serve.
func openStore(cfg *config.Config, loader *awsLoader) (storage.Store, string, error) {
	switch strings.ToLower(cfg.UploadBackend) {
	case "", "local":
		store, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadURLPath)
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil

	case "s3":
		awsCfg, err := loader.load()
		if err != nil {
			return nil, "", err
		}
		opts := storage.S3Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			UsePathStyle:  cfg.S3UsePathStyle,
			PublicBaseURL: cfg.PublicBaseURL,
			Prefix:        strings.Trim(cfg.UploadURLPath, "/"),
		}
		store, err := storage.NewS3Store(storage.NewS3Client(awsCfg, opts), opts)
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	}
	return nil, "", fmt.Errorf("unknown upload backend %q", cfg.UploadBackend)
}
