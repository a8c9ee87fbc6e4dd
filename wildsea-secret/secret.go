// Package wildseasecret loads configuration secrets from AWS Secrets Manager
// into Go structs. The console server and the WebSocket handler use it to
// fetch the JWT verification secret.
package wildseasecret

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/savaki/secrets"
)

func LoadSecret(s *session.Session, secretName string, data interface{}) error {
	api := secrets.WithSecretsManager(secretsmanager.New(s))
	manager, err := secrets.NewManager(api)
	if err != nil {
		return fmt.Errorf("failed to initialize secrets: %w", err)
	}

	if err := manager.Decode(secretName, &data); err != nil {
		return fmt.Errorf("failed to load secret %v: %v", secretName, err)
	}
	return nil
}

// AuthSecret is the shape of the Wildsea auth secret.
type AuthSecret struct {
	JWTSecret string `json:"jwt_secret"`
}

// SecretName returns the auth secret's name for the given environment.
func SecretName(env string) string {
	return "wildsea/" + env + "/auth"
}

// LoadJWTSecret fetches the JWT signing secret for console-mode token
// verification.
func LoadJWTSecret(s *session.Session, env string) ([]byte, error) {
	var auth AuthSecret
	if err := LoadSecret(s, SecretName(env), &auth); err != nil {
		return nil, err
	}
	if auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth secret for %v has no jwt_secret", env)
	}
	return []byte(auth.JWTSecret), nil
}
