// Package multinet provides a client for the Multinet graph and table API.
//
// Multinet organises data into workspaces holding tables (node or edge
// tables) and networks built from them. Every Client method maps to exactly
// one API request; nothing is cached or retried.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := multinet.NewClient(
//		"https://multinet.example.org/api",
//		logger,
//		multinet.WithAuthToken(token),
//		multinet.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	page, err := client.Tables(ctx, "boston", multinet.TablesOptions{Type: multinet.TableTypeEdge})
//
// # Uploads
//
// UploadTable and UploadNetwork first hand the file to an Uploader (by
// default the s3upload package, which speaks the server's presigned upload
// protocol) and then post the returned reference to the ingestion endpoint.
//
// # Error Handling
//
//   - ErrInvalidArgument: a required workspace, table or network name was
//     empty; no request was sent
//   - ErrTransport: the request failed before a response arrived
//   - APIError: the server answered with a non-2xx status
//
// Every APIError also matches ErrTransport with errors.Is. Use errors.As or
// the IsNotFound/IsUnauthorized helpers to inspect the status:
//
//	if multinet.IsNotFound(err) {
//		// Handle missing workspace
//	}
package multinet
