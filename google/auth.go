package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var scopes = []string{
	drive.DriveScope,
	sheets.SpreadsheetsScope,
}

// ServiceAccountKey represents the structure of a service account JSON key
// file.
type ServiceAccountKey struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// NewClientsWithJSONKeyFile creates the client bundle using a JSON key file.
// An empty path falls back to GOOGLE_APPLICATION_CREDENTIALS.
func NewClientsWithJSONKeyFile(ctx context.Context, jsonPath string) (*Clients, error) {
	if jsonPath == "" {
		jsonPath = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if jsonPath == "" {
			return nil, fmt.Errorf("no JSON key file path provided and GOOGLE_APPLICATION_CREDENTIALS not set")
		}
	}

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON key file: %w", err)
	}

	return NewClientsWithJSONKeyData(ctx, jsonData)
}

// NewClientsWithJSONKeyData creates the client bundle using JSON key data.
func NewClientsWithJSONKeyData(ctx context.Context, jsonData []byte) (*Clients, error) {
	creds, err := goauth.CredentialsFromJSON(ctx, jsonData, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	return NewClients(ctx, option.WithCredentials(creds))
}

// NewClientsWithServiceAccountKey creates the client bundle using an email
// and private key.
func NewClientsWithServiceAccountKey(ctx context.Context, email, privateKey string) (*Clients, error) {
	key := &ServiceAccountKey{
		ClientEmail: email,
		PrivateKey:  privateKey,
	}

	return NewClients(ctx, option.WithTokenSource(key.TokenSource(ctx)))
}

// NewClientsWithDefaultCredentials creates the client bundle using
// Application Default Credentials.
func NewClientsWithDefaultCredentials(ctx context.Context) (*Clients, error) {
	tokenSource, err := goauth.DefaultTokenSource(ctx, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to get default token source: %w", err)
	}

	return NewClients(ctx, option.WithTokenSource(tokenSource))
}

// ParseServiceAccountJSON parses service account JSON key data.
func ParseServiceAccountJSON(jsonData []byte) (*ServiceAccountKey, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(jsonData, &key); err != nil {
		return nil, fmt.Errorf("failed to parse service account JSON: %w", err)
	}

	if key.Type != "service_account" {
		return nil, fmt.Errorf("invalid key type: %s (expected: service_account)", key.Type)
	}

	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("missing required fields in service account key")
	}

	return &key, nil
}

// TokenSource creates an oauth2.TokenSource from a parsed service account
// key. NewClientsWithServiceAccountKey routes through this.
func (k *ServiceAccountKey) TokenSource(ctx context.Context) oauth2.TokenSource {
	jwtConfig := &jwt.Config{
		Email:      k.ClientEmail,
		PrivateKey: []byte(k.PrivateKey),
		Scopes:     scopes,
		TokenURL:   goauth.JWTTokenURL,
	}
	return jwtConfig.TokenSource(ctx)
}
