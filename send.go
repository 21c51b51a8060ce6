package wetransfer

import "context"

// TransferStateKind identifies a step of SendTransfer.
type TransferStateKind int

const (
	// TransferCreated: the transfer exists and its files are registered.
	TransferCreated TransferStateKind = iota + 1
	// TransferStarted: the upload began; TransferState.Progress is set.
	TransferStarted
	// TransferCompleted: every file is uploaded.
	TransferCompleted
	// TransferFailed: the flow stopped; TransferState.Err is set.
	TransferFailed
)

func (k TransferStateKind) String() string {
	switch k {
	case TransferCreated:
		return "created"
	case TransferStarted:
		return "started"
	case TransferCompleted:
		return "completed"
	case TransferFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TransferState is one step reported by SendTransfer. Transfer is a copy
// taken when the state was reported.
type TransferState struct {
	Kind     TransferStateKind
	Transfer *Transfer
	Progress *Progress
	Err      error
}

// SendTransfer authorizes, creates a transfer holding the files at paths and
// uploads them, all in the background. onState receives Created, Started
// and Completed in that order, or Failed as the last state as soon as a step
// fails, on the client's callback executor.
func (c *Client) SendTransfer(ctx context.Context, name, description string, paths []string, onState func(TransferState)) {
	if onState == nil {
		onState = func(TransferState) {}
	}
	report := func(s TransferState) {
		c.deliver(func() { onState(s) })
	}
	fail := func(err error) {
		report(TransferState{Kind: TransferFailed, Err: err})
	}

	started := c.goBackground(ctx, func(ctx context.Context) {
		if err := c.apiClient.Authorize(ctx); err != nil {
			fail(err)
			return
		}
		t, err := c.CreateTransfer(ctx, name, description, paths...)
		if err != nil {
			fail(err)
			return
		}
		report(TransferState{Kind: TransferCreated, Transfer: t.clone()})

		p := c.newProgress(t)
		report(TransferState{Kind: TransferStarted, Progress: p})
		if err := c.upload(ctx, t, p); err != nil {
			fail(err)
			return
		}
		report(TransferState{Kind: TransferCompleted, Transfer: t.clone()})
	})
	if !started {
		fail(ErrClientClosed)
	}
}

// Send is the blocking form of SendTransfer. It returns the uploaded
// transfer, or the transfer as far as it got together with the error.
func (c *Client) Send(ctx context.Context, name, description string, paths []string, onProgress func(ProgressSnapshot)) (*Transfer, error) {
	if err := c.Authorize(ctx); err != nil {
		return nil, err
	}
	t, err := c.CreateTransfer(ctx, name, description, paths...)
	if err != nil {
		return t, err
	}
	if err := c.Upload(ctx, t, onProgress); err != nil {
		return t, err
	}
	return t, nil
}
