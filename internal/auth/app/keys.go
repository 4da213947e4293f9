package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/suinership/auth/pkg/cryptox"
	"github.com/suinership/auth/pkg/idx"
	"github.com/suinership/auth/pkg/jwtx"
)

// initSigningKeys loads the Ed25519 signing key from disk when configured,
// or generates an ephemeral one. Ephemeral keys invalidate all outstanding
// tokens on restart, which is fine for dev and single-instance deployments.
func initSigningKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, error) {
	var pemKey []byte

	if cfg.SigningKeyFile != "" {
		b, err := os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("read signing key: %w", err)
		}
		pemKey = b
		logger.Info("signing key loaded", "path", cfg.SigningKeyFile)
	} else {
		b, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, nil, fmt.Errorf("generate signing key: %w", err)
		}
		pemKey = b
		logger.Info("ephemeral signing key generated")
	}

	signer, err := jwtx.NewSignerEdDSA(idx.New().String(), pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, fmt.Errorf("register signing key: %w", err)
	}

	return signer, keys, nil
}
