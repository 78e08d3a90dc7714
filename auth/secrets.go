package auth

import (
	"os"
)

const SecretEnv = "ITEMO_AUTH_SECRET"

// retrieve the secret used for signing member tokens
func GetSecret() []byte {
	secret := os.Getenv(SecretEnv)
	return []byte(secret)
}
