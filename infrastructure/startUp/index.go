package startup

import (
	"context"
	"errors"
	"fmt"
	"io"

	"facegate.io/application/controller"
	"facegate.io/application/repository"
	authusecase "facegate.io/application/usecases/auth"
	"facegate.io/entities"
	"facegate.io/infrastructure/auth"
	"facegate.io/infrastructure/biometric"
	"facegate.io/infrastructure/biometric/faceindex"
	"facegate.io/infrastructure/biometric/opencv"
	"facegate.io/infrastructure/biometric/tfserving"
	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/cryptography"
	cacheconn "facegate.io/infrastructure/database/connection/cache"
	"facegate.io/infrastructure/database/connection/datastore"
	"facegate.io/infrastructure/database/repository/cache"
	"facegate.io/infrastructure/database/repository/mongo"
	"facegate.io/infrastructure/env"
	"facegate.io/infrastructure/logger"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// Dependencies are the externally backed collaborators of the service.
type Dependencies struct {
	Store    repository.UserStore
	Locker   cache.Locker
	Detector types.FaceDetector
	Model    types.EmbeddingModel
}

// Services is the fully wired application graph.
type Services struct {
	Config         *env.Config
	Extractor      *biometric.Extractor
	Matcher        *biometric.FaceMatcher
	Codec          types.Codec
	Registry       *repository.IdentityRegistry
	AuthService    *authusecase.AuthService
	AuthController *controller.AuthController

	closers []func() error
}

// StartServices connects to the datastores, loads the face models and
// wires the application. Any failure aborts startup.
func StartServices(ctx context.Context, cfg *env.Config) (*Services, error) {
	var (
		ds          *datastore.Datastore
		redisClient *redis.Client
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		ds, err = datastore.ConnectMongo(groupCtx, cfg.DBURL, cfg.DBName)
		return err
	})
	if cfg.RedisAddr != "" {
		group.Go(func() error {
			var err error
			redisClient, err = cacheconn.ConnectRedis(groupCtx, cfg.RedisAddr, cfg.RedisPassword)
			return err
		})
	}
	if err := group.Wait(); err != nil {
		if ds != nil {
			_ = ds.Disconnect(context.Background())
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}

	closers := []func() error{func() error { return ds.Disconnect(context.Background()) }}

	var locker cache.Locker
	if redisClient != nil {
		locker = &cache.RedisRepository{Client: redisClient}
		closers = append(closers, redisClient.Close)
	} else {
		logger.Warning("REDIS_ADDR not set, registration locks are process local")
		locker = cache.NewMemoryLocker()
	}

	detector, err := NewDetector(cfg)
	if err != nil {
		runClosers(closers)
		return nil, err
	}
	if closer, ok := detector.(io.Closer); ok {
		closers = append(closers, closer.Close)
	}

	model, err := NewEmbeddingModel(cfg)
	if err != nil {
		runClosers(closers)
		return nil, err
	}
	if closer, ok := model.(io.Closer); ok {
		closers = append(closers, closer.Close)
	}

	services, err := BuildServices(cfg, Dependencies{
		Store:    repository.NewMongoUserStore(&mongo.MongoRepository[entities.User]{Model: ds.UserModel}),
		Locker:   locker,
		Detector: detector,
		Model:    model,
	})
	if err != nil {
		runClosers(closers)
		return nil, err
	}
	services.closers = closers

	if err := services.Registry.BuildIndex(ctx); err != nil {
		services.CleanUpServices()
		return nil, fmt.Errorf("failed to build face index: %w", err)
	}

	return services, nil
}

// BuildServices wires the application graph over deps.
func BuildServices(cfg *env.Config, deps Dependencies) (*Services, error) {
	matcher, err := biometric.NewFaceMatcher(cfg.FaceMatchThreshold)
	if err != nil {
		return nil, err
	}

	codec, err := NewCodec(cfg)
	if err != nil {
		return nil, err
	}

	extractor := biometric.NewExtractor(deps.Detector, deps.Model, biometric.ExtractorConfig{
		InputSize:    cfg.ModelInputSize,
		CropMargin:   cfg.FaceCropMargin,
		ChannelOrder: cfg.ModelChannelOrder,
		Timeout:      cfg.ModelTimeout,
	})

	var index *faceindex.HNSWIndex
	if cfg.FaceIndex == env.FaceIndexHNSW {
		index = faceindex.NewHNSWIndex()
	}
	registry := repository.NewIdentityRegistry(deps.Store, codec, matcher, deps.Locker, index)

	issuer, err := auth.NewTokenIssuer(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}

	authService, err := authusecase.NewAuthService(extractor, matcher, registry, cryptography.NewArgonHasher(), issuer, authusecase.AuthServiceConfig{
		FaceUniquenessCheck:     cfg.FaceUniquenessCheck,
		FaceUniquenessThreshold: cfg.FaceUniquenessThreshold,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("services initialised", logger.LoggerOptions{
		Key: "config",
		Data: map[string]interface{}{
			"embedding_codec":       cfg.EmbeddingCodec,
			"embedding_backend":     cfg.EmbeddingBackend,
			"face_detector":         cfg.FaceDetector,
			"face_index":            cfg.FaceIndex,
			"face_match_threshold":  cfg.FaceMatchThreshold,
			"face_uniqueness_check": cfg.FaceUniquenessCheck,
		},
	})

	return &Services{
		Config:         cfg,
		Extractor:      extractor,
		Matcher:        matcher,
		Codec:          codec,
		Registry:       registry,
		AuthService:    authService,
		AuthController: controller.NewAuthController(authService),
	}, nil
}

func NewCodec(cfg *env.Config) (types.Codec, error) {
	switch cfg.EmbeddingCodec {
	case env.CodecPlain:
		logger.Warning("face embeddings are stored unencrypted")
		return biometric.PlainCodec{}, nil
	case env.CodecEncrypted:
		key, err := env.DecodeEncryptionKey(cfg.EncKey)
		if err != nil {
			return nil, err
		}
		sealer, err := cryptography.NewAESSealer(key)
		if err != nil {
			return nil, err
		}
		return biometric.NewEncryptedCodec(sealer), nil
	default:
		return nil, fmt.Errorf("unknown EMBEDDING_CODEC %q", cfg.EmbeddingCodec)
	}
}

func NewDetector(cfg *env.Config) (types.FaceDetector, error) {
	switch cfg.FaceDetector {
	case env.DetectorFullFrame:
		return biometric.FullFrameDetector{}, nil
	case env.DetectorYuNet:
		detector, err := opencv.NewYuNetDetector(opencv.YuNetConfig{
			ModelPath:      cfg.YuNetModelPath,
			ScoreThreshold: cfg.YuNetScoreMinimum,
		})
		if err != nil {
			warnMissingBuildTag(err, "FACE_DETECTOR", env.DetectorFullFrame)
			return nil, fmt.Errorf("failed to load face detector: %w", err)
		}
		return detector, nil
	default:
		return nil, fmt.Errorf("unknown FACE_DETECTOR %q", cfg.FaceDetector)
	}
}

func NewEmbeddingModel(cfg *env.Config) (types.EmbeddingModel, error) {
	switch cfg.EmbeddingBackend {
	case env.BackendTFServing:
		return tfserving.NewModel(cfg.TFServingURL, cfg.TFServingOutput), nil
	case env.BackendOpenCV:
		model, err := opencv.NewFaceNetModel(opencv.FaceNetConfig{ModelPath: cfg.FaceNetModelPath})
		if err != nil {
			warnMissingBuildTag(err, "EMBEDDING_BACKEND", env.BackendTFServing)
			return nil, fmt.Errorf("failed to load embedding model: %w", err)
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unknown EMBEDDING_BACKEND %q", cfg.EmbeddingBackend)
	}
}

// warnMissingBuildTag names the build tag the default native backends need,
// along with the setting that avoids them.
func warnMissingBuildTag(err error, setting string, alternative string) bool {
	if !errors.Is(err, opencv.ErrUnavailable) {
		return false
	}
	logger.Warning("native backend requires a binary built with -tags "+opencv.BuildTag, logger.LoggerOptions{
		Key:  "setting",
		Data: setting,
	}, logger.LoggerOptions{
		Key:  "alternative",
		Data: setting + "=" + alternative,
	})
	return true
}

// Used to clean up after services that have been shutdown.
func (s *Services) CleanUpServices() {
	runClosers(s.closers)
	s.closers = nil
}

func runClosers(closers []func() error) {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		logger.Error("error while cleaning up services", logger.LoggerOptions{
			Key:  "error",
			Data: err.Error(),
		})
	}
}
