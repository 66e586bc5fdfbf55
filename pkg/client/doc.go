// Package client talks to a Frappe-style document REST API.
//
// Records are addressed by a doctype and a name under /api/resource. Every
// call is a single authenticated HTTP round trip whose JSON envelope decides
// the outcome:
//
//	{"data": {...}}                       success, payload in data
//	{"exception": "...", "exc_type": "…"} the server rejected the call
//	{"exc_type": "DoesNotExistError"}     Get reports the record as absent
//
// # Usage
//
//	c := client.New(client.Settings{
//	    URL:    "https://erp.example.com",
//	    Key:    "api-key",
//	    Secret: secret.New("api-secret"),
//	})
//
//	task, found, err := client.GetAs[Task](ctx, c, "Task", "TASK-0001")
//	if err != nil {
//	    return err
//	}
//	if !found {
//	    // no such record
//	}
//
//	err = c.Update(ctx, "Task", "TASK-0001", map[string]string{"status": "Closed"})
//	err = client.Insert(ctx, c, "Task", Task{Subject: "new"})
//
// # Errors
//
// Failures are typed and can be told apart with errors.Is against
// ErrTransport, ErrDecode, ErrRemoteException, ErrMalformedResponse,
// ErrDeserialization and ErrSerialization, or with errors.As against the
// concrete error types. Nothing is retried.
//
// A field sent as JSON null counts as absent: {"exception": null} is not an
// exception, and {"data": null} on Get is a malformed response.
//
// # Concurrency
//
// A Client is safe for concurrent use by multiple goroutines.
package client
