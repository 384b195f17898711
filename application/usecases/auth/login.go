package auth_usecases

import (
	"context"
	"errors"
	"strings"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/utils"
	"facegate.io/infrastructure/auth"
	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/logger"
)

const (
	invalidCredentialsMessage = "Invalid credentials"
	faceVerificationMessage   = "Face verification failed"
)

type LoginInput struct {
	Email      string
	Password   string
	Image      string
	UserAgent  string
	DeviceName string
}

type LoginResult struct {
	Token    string
	Role     string
	Decision types.MatchDecision
}

// Login verifies password and live face against the stored identity and
// issues a session token.
func (as *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	input.Email = utils.NormaliseEmail(input.Email)
	if input.Email == "" || input.Password == "" {
		return nil, apperrors.New(apperrors.InputError, "Email and password are required", nil)
	}
	if strings.TrimSpace(input.Image) == "" {
		return nil, apperrors.New(apperrors.InputError, "Face image is required", nil)
	}

	user, err := as.registry.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperrors.New(apperrors.Internal, "could not look up user", err)
	}
	if user == nil {
		as.hasher.VerifyHashData(as.dummyHash, input.Password)
		logLoginStep("lookup_user", input.Email, input.DeviceName, "credential_mismatch", nil)
		return nil, apperrors.New(apperrors.CredentialMismatch, invalidCredentialsMessage, nil)
	}

	if !as.hasher.VerifyHashData(user.Password, input.Password) {
		logLoginStep("verify_password", input.Email, input.DeviceName, "credential_mismatch", nil)
		return nil, apperrors.New(apperrors.CredentialMismatch, invalidCredentialsMessage, nil)
	}

	live, err := as.extractor.ExtractFromBase64(ctx, input.Image)
	if err != nil {
		logLoginStep("extract_live_embedding", input.Email, input.DeviceName, err.Error(), nil)
		if errors.Is(err, types.ErrImageDecode) || errors.Is(err, types.ErrNoFaceDetected) {
			return nil, apperrors.New(apperrors.FaceVerificationFailed, faceVerificationMessage, err)
		}
		return nil, apperrors.New(apperrors.Internal, "face extraction failed", err)
	}

	stored, err := as.registry.DecodeEmbedding(user)
	if err != nil {
		return nil, apperrors.New(apperrors.Internal, "could not read stored embedding", err)
	}

	decision, err := as.matcher.Match(live, stored)
	if err != nil {
		return nil, apperrors.New(apperrors.Internal, "face comparison failed", err)
	}
	if !decision.IsMatch {
		logLoginStep("match_faces", input.Email, input.DeviceName, "face_mismatch", &decision)
		return nil, apperrors.New(apperrors.FaceVerificationFailed, faceVerificationMessage, nil)
	}

	token, err := as.issuer.GenerateAuthToken(auth.ClaimsData{
		Email:     user.Email,
		Role:      user.Role,
		UserID:    user.ID,
		UserAgent: input.UserAgent,
	})
	if err != nil {
		return nil, apperrors.New(apperrors.Internal, "could not issue token", err)
	}

	logLoginStep("issue_credential", input.Email, input.DeviceName, "success", &decision)
	return &LoginResult{Token: *token, Role: user.Role, Decision: decision}, nil
}

func logLoginStep(step string, email string, device string, outcome string, decision *types.MatchDecision) {
	data := map[string]interface{}{
		"name":    step,
		"email":   email,
		"outcome": outcome,
	}
	if device != "" {
		data["device"] = device
	}
	if decision != nil {
		data["distance"] = decision.Distance
		data["threshold"] = decision.Threshold
	}
	logger.Info("login", logger.LoggerOptions{
		Key:  "step",
		Data: data,
	})
}
