package auth_usecases

import (
	"context"
	"errors"
	"slices"
	"strings"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/constants"
	"facegate.io/application/repository"
	"facegate.io/application/utils"
	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/logger"
	"facegate.io/infrastructure/validator"
)

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	Image     string
	UserAgent string
}

// Register enrols a new identity. Nothing is persisted unless every check
// passes.
func (as *AuthService) Register(ctx context.Context, input RegisterInput) error {
	input.Email = utils.NormaliseEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" || input.Role == "" {
		return apperrors.New(apperrors.InputError, "All fields are required", nil)
	}
	if err := validator.ValidatorInstance.ValidateValue(input.Email, "email,max=254"); err != nil {
		return apperrors.New(apperrors.InputError, "Invalid email address", err)
	}
	if !slices.Contains(constants.AVAILABLE_ROLES, input.Role) {
		return apperrors.New(apperrors.InputError, "Invalid role", nil)
	}
	if strings.TrimSpace(input.Image) == "" {
		return apperrors.New(apperrors.InputError, "Face image is required", nil)
	}

	existing, err := as.registry.FindByEmail(ctx, input.Email)
	if err != nil {
		return apperrors.New(apperrors.Internal, "could not look up user", err)
	}
	if existing != nil {
		logRegisterStep("check_email_unique", input.Email, "duplicate")
		return apperrors.New(apperrors.DuplicateIdentity, "User with this email already exists", nil)
	}

	embedding, err := as.extractor.ExtractFromBase64(ctx, input.Image)
	if err != nil {
		logRegisterStep("extract_embedding", input.Email, err.Error())
		return registerExtractionError(err)
	}

	var faceThreshold *float64
	if as.config.FaceUniquenessCheck {
		threshold := as.config.FaceUniquenessThreshold
		faceThreshold = &threshold
		match, err := as.registry.FindByFace(ctx, embedding, threshold)
		if err != nil {
			return apperrors.New(apperrors.Internal, "could not check face uniqueness", err)
		}
		if match != nil {
			logRegisterStep("check_face_unique", input.Email, "duplicate")
			return apperrors.New(apperrors.DuplicateIdentity, "This face is already registered", nil)
		}
	}

	passwordHash, err := as.hasher.HashString(input.Password)
	if err != nil {
		return apperrors.New(apperrors.Internal, "could not hash password", err)
	}

	_, err = as.registry.Create(ctx, repository.NewIdentity{
		FirstName:               input.FirstName,
		LastName:                input.LastName,
		Email:                   input.Email,
		PasswordHash:            string(passwordHash),
		Role:                    input.Role,
		UserAgent:               input.UserAgent,
		Embedding:               embedding,
		FaceUniquenessThreshold: faceThreshold,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			logRegisterStep("persist", input.Email, "duplicate")
			return apperrors.New(apperrors.DuplicateIdentity, "User with this email already exists", err)
		case errors.Is(err, repository.ErrDuplicateFace):
			logRegisterStep("persist", input.Email, "duplicate_face")
			return apperrors.New(apperrors.DuplicateIdentity, "This face is already registered", err)
		default:
			return apperrors.New(apperrors.Internal, "could not persist user", err)
		}
	}

	logRegisterStep("persist", input.Email, "success")
	return nil
}

func registerExtractionError(err error) error {
	switch {
	case errors.Is(err, types.ErrNoFaceDetected):
		return apperrors.New(apperrors.InvalidImage, "No face detected in image", err)
	case errors.Is(err, types.ErrImageDecode):
		return apperrors.New(apperrors.InvalidImage, "Invalid image", err)
	default:
		return apperrors.New(apperrors.Internal, "face extraction failed", err)
	}
}

func logRegisterStep(step string, email string, outcome string) {
	logger.Info("register", logger.LoggerOptions{
		Key: "step",
		Data: map[string]interface{}{
			"name":    step,
			"email":   email,
			"outcome": outcome,
		},
	})
}
