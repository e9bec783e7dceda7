package oidc

import (
	"context"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// implemented using https://github.com/lestrrat-go/jwx

// VerifyIdToken checks the id_token signature against the auth server
// jwks & confirms the issuer claim. Called from the callback flow only
// when verification is enabled & the jwks uri is known; any failure is
// treated the same as a failed code exchange.
func (c *Client) VerifyIdToken(ctx context.Context, rawToken string) error {

	if rawToken == "" {
		return errors.New("auth server did not return an id_token")
	}

	if c.metadata.JwksUri == "" {
		log.Warn("id_token verification enabled but no jwks_uri is known; skipping")
		return nil
	}

	set, err := jwk.Fetch(ctx, c.metadata.JwksUri)
	if err != nil {
		return errors.Wrapf(err, "error fetching jwks from %v", c.metadata.JwksUri)
	}

	token, err := jwt.Parse(
		[]byte(rawToken),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	)
	if err != nil {
		return errors.Wrap(err, "error verifying id_token")
	}

	if c.metadata.Issuer != "" && token.Issuer() != c.metadata.Issuer {
		return errors.Errorf("id_token issuer %v does not match %v", token.Issuer(), c.metadata.Issuer)
	}

	log.WithField("subject", token.Subject()).Debug("id_token verified")
	return nil
}
