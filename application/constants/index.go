package constants

const (
	ROLE_STUDENT = "student"
	ROLE_HR      = "hr"
	ROLE_ADMIN   = "admin"
)

var AVAILABLE_ROLES = []string{ROLE_STUDENT, ROLE_HR, ROLE_ADMIN}

// context keys populated by middlewares
const (
	AUTH_TOKEN_CLAIMS_KEY = "AuthTokenClaims"
	USER_AGENT_KEY        = "UserAgent"
	DEVICE_NAME_KEY       = "DeviceName"
)

const USERS_COLLECTION = "users"

// lock keys guarding concurrent registrations
const (
	REGISTRATION_LOCK_PREFIX = "facegate:register:"
	FACE_LOCK_KEY            = "facegate:face-lock"
)
