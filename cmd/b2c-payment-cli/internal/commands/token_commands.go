package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/security"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/go-jose/go-jose/v4"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// TokenCommandHandler encapsulates logic for minting development bearer tokens via CLI.
type TokenCommandHandler struct {
	logger logger.Logger
}

// NewTokenCommandHandler initializes a new TokenCommandHandler with logging.
func NewTokenCommandHandler() (*TokenCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &TokenCommandHandler{
		logger: loggerInstance,
	}, nil
}

// GenerateKeysCmd generates an RSA signing key pair and persists it in a selected directory
func (commandHandler *TokenCommandHandler) GenerateKeysCmd(cmd *cobra.Command, _ []string) error {
	keySize, err := cmd.Flags().GetInt("key-size")
	if err != nil {
		return fmt.Errorf("invalid key-size flag: %w", err)
	}
	keyDir, err := cmd.Flags().GetString("key-dir")
	if err != nil {
		return fmt.Errorf("invalid key-dir flag: %w", err)
	}

	privateKey, err := security.GenerateSigningKey(keySize)
	if err != nil {
		return err
	}

	uniqueID := uuid.New().String()

	privateKeyFilePath := filepath.Join(keyDir, uniqueID+"-private-key.pem")
	if err := security.SavePrivateKeyToFile(privateKey, privateKeyFilePath); err != nil {
		return err
	}

	publicKeyFilePath := filepath.Join(keyDir, uniqueID+"-public-key.pem")
	if err := security.SavePublicKeyToFile(&privateKey.PublicKey, publicKeyFilePath); err != nil {
		return err
	}

	commandHandler.logger.Info("Saved signing key pair ", privateKeyFilePath, " ", publicKeyFilePath)
	fmt.Fprintln(cmd.OutOrStdout(), uniqueID)
	return nil
}

// IssueTokenCmd prints a signed bearer token
func (commandHandler *TokenCommandHandler) IssueTokenCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	secret, _ := flags.GetString("secret")
	privateKeyPath, _ := flags.GetString("private-key")
	kid, _ := flags.GetString("kid")
	issuerName, _ := flags.GetString("issuer")
	subject, _ := flags.GetString("subject")
	audience, _ := flags.GetStringSlice("audience")
	scopes, _ := flags.GetStringSlice("scopes")
	roles, _ := flags.GetStringSlice("roles")
	ttl, err := flags.GetDuration("ttl")
	if err != nil {
		return fmt.Errorf("invalid ttl flag: %w", err)
	}

	var issuer *security.TokenIssuer
	switch {
	case secret != "" && privateKeyPath != "":
		return fmt.Errorf("use either --secret or --private-key, not both")
	case secret != "":
		issuer = security.NewHMACTokenIssuer([]byte(secret), issuerName)
	case privateKeyPath != "":
		privateKey, err := security.ReadPrivateKey(privateKeyPath)
		if err != nil {
			return err
		}
		issuer = security.NewRSATokenIssuer(privateKey, kid, issuerName)
	default:
		return fmt.Errorf("one of --secret or --private-key is required")
	}

	token, err := issuer.Issue(security.TokenRequest{
		Subject:  subject,
		Audience: audience,
		Scopes:   scopes,
		Roles:    roles,
		TTL:      ttl,
	})
	if err != nil {
		return err
	}

	commandHandler.logger.Info("Issued token for ", subject, " with scopes ", strings.Join(scopes, " "))
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

// JWKSCmd prints the JWKS document publishing the public half of a signing key
func (commandHandler *TokenCommandHandler) JWKSCmd(cmd *cobra.Command, _ []string) error {
	privateKeyPath, err := cmd.Flags().GetString("private-key")
	if err != nil {
		return fmt.Errorf("invalid private-key flag: %w", err)
	}
	kid, err := cmd.Flags().GetString("kid")
	if err != nil {
		return fmt.Errorf("invalid kid flag: %w", err)
	}

	privateKey, err := security.ReadPrivateKey(privateKeyPath)
	if err != nil {
		return err
	}

	document := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
		{Key: &privateKey.PublicKey, KeyID: kid, Use: "sig", Algorithm: string(jose.RS256)},
	}}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(document)
}

// InitTokenCommands registers the token command group.
func InitTokenCommands(rootCmd *cobra.Command) error {
	handler, err := NewTokenCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create token command handler %w", err)
	}

	var tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Mint bearer tokens for local development",
	}

	var generateKeysCmd = &cobra.Command{
		Use:   "generate-keys",
		Short: "Generate an RSA signing key pair",
		RunE:  handler.GenerateKeysCmd,
	}
	generateKeysCmd.Flags().IntP("key-size", "", security.MinSigningKeySize, "RSA key size in bits")
	generateKeysCmd.Flags().StringP("key-dir", "", ".", "Directory to store the key pair")
	tokenCmd.AddCommand(generateKeysCmd)

	var issueCmd = &cobra.Command{
		Use:   "issue",
		Short: "Issue a signed bearer token",
		RunE:  handler.IssueTokenCmd,
	}
	issueCmd.Flags().StringP("secret", "", "", "HMAC secret matching auth.hmac_secret")
	issueCmd.Flags().StringP("private-key", "", "", "Path to an RSA private key matching auth.public_key_path or the JWKS")
	issueCmd.Flags().StringP("kid", "", "", "Key id header for RSA tokens")
	issueCmd.Flags().StringP("issuer", "", "", "Token issuer (iss)")
	issueCmd.Flags().StringP("subject", "", "b2c-payment-cli", "Token subject (sub)")
	issueCmd.Flags().StringSliceP("audience", "", nil, "Token audience (aud)")
	issueCmd.Flags().StringSliceP("scopes", "", []string{"payment.initiate", "payment.read"}, "Granted scopes")
	issueCmd.Flags().StringSliceP("roles", "", nil, "Granted realm roles")
	issueCmd.Flags().DurationP("ttl", "", time.Hour, "Token lifetime")
	tokenCmd.AddCommand(issueCmd)

	var jwksCmd = &cobra.Command{
		Use:   "jwks",
		Short: "Print the JWKS document for a signing key",
		RunE:  handler.JWKSCmd,
	}
	jwksCmd.Flags().StringP("private-key", "", "", "Path to the RSA private key")
	jwksCmd.Flags().StringP("kid", "", "", "Key id to publish")
	tokenCmd.AddCommand(jwksCmd)

	rootCmd.AddCommand(tokenCmd)
	return nil
}
