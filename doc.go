// Package wetransfer provides a Go client SDK for the WeTransfer public API.
//
// A client holds an API key, a base URL and, once authorized, a bearer
// token that is reused for the rest of the session. Authorization happens
// lazily: operations that need a token obtain one first, and a held token
// is never requested again.
//
// Basic usage:
//
//	client, err := wetransfer.New("your-api-key")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	transfer, err := client.Send(ctx, "Holiday", "", []string{"photo.jpg"}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Download:", transfer.ShortURL)
//
// Asynchronous operations (AuthorizeAsync, SendTransfer) deliver their
// outcome exactly once on the client's callback executor. By default
// callbacks run one at a time, in order, on a goroutine owned by the
// client; WithCallbackExecutor selects another context.
package wetransfer
