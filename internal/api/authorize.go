package api

import "context"

// Authorize obtains a bearer token unless one is already held, in which case
// it returns immediately without contacting the service.
//
// A response whose success is false, or that carries no token or an empty
// one, yields ErrAuthorizationFailed and leaves the token holder untouched.
// A body without a success field is a *DecodeError. Transport and decode
// errors are returned as they are. Concurrent calls made before a token is
// stored each send their own request.
func (c *Client) Authorize(ctx context.Context) error {
	if c.auth.HasToken() {
		return nil
	}

	resp, err := Do(ctx, c, AuthorizeEndpoint(), nil)
	if err != nil {
		return err
	}
	if resp.Success == nil {
		return &DecodeError{Err: errMissingSuccess}
	}
	if !*resp.Success || resp.Token == nil || *resp.Token == "" {
		c.logger.Warn().Bool("success", *resp.Success).Msg("authorization rejected")
		return ErrAuthorizationFailed
	}

	c.auth.SetToken(*resp.Token)
	c.logger.Debug().Msg("authorized")
	return nil
}
