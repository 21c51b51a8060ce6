package wetransfer

import "context"

// Authorize obtains a bearer token for the session. When a token is already
// held it returns nil at once, without contacting the service.
//
// A response without success or without a token fails with
// ErrAuthorizationFailed and leaves the client unauthorized.
func (c *Client) Authorize(ctx context.Context) error {
	if err := c.checkClosed(); err != nil {
		return err
	}
	return c.apiClient.Authorize(ctx)
}

// AuthorizeAsync runs Authorize in the background and delivers its outcome
// to completion, exactly once, on the client's callback executor.
func (c *Client) AuthorizeAsync(ctx context.Context, completion func(Result[struct{}])) {
	if completion == nil {
		completion = func(Result[struct{}]) {}
	}
	started := c.goBackground(ctx, func(ctx context.Context) {
		err := c.apiClient.Authorize(ctx)
		c.deliver(func() { completion(resultOf(struct{}{}, err)) })
	})
	if !started {
		c.deliver(func() { completion(Failure[struct{}](ErrClientClosed)) })
	}
}
