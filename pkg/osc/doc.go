// Package osc provides types, interfaces, and helpers for working with the
// Open Build Service API.
//
// # Overview
//
// The osc package defines the client configuration (Config, Credential),
// the error taxonomy of the request engine, the pluggable response cache,
// and the interfaces for resource-oriented clients (ProjectsClient,
// PackagesClient, BuildClient, ...). A concrete implementation of these
// clients is provided by the oscclient package, which wires configuration,
// transport, authentication and caching. Most consumers should import
// oscclient to construct a client and then interact with the resource
// client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/SUSE/osc-tiny/pkg/osc"
//	  "github.com/SUSE/osc-tiny/pkg/oscclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := oscclient.New(&osc.Config{
//	    APIURL:     "https://api.opensuse.org",
//	    Credential: osc.Credential{Username: "geeko", SSHKeyPath: "/home/geeko/.ssh/id_ed25519"},
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // List the packages of a project
//	  dir, err := cli.Packages().List(ctx, "openSUSE:Factory", false)
//	  if err != nil { log.Fatal(err) }
//	  _ = dir
//	}
//
// # Responses
//
// The build service answers with XML. Responses are materialized into
// navigable trees (github.com/antchfx/xmlquery nodes) that support XPath
// queries; large documents are decoded incrementally so unbounded bodies
// do not have to be buffered before parsing starts.
//
// # Errors
//
// Failures are represented by typed errors: AuthenticationError (permanent
// credential or signature rejection), TransientConnectionError (connection
// dropped before a response, retries exhausted), ServerError (definitive
// 4xx/5xx answer with status, headers and body), MalformedResponseError
// (unparsable body) and SigningError (external signing utility failed).
// Helpers such as IsNotFound, IsUnauthorized and IsForbidden make it easy
// to branch on common cases.
//
// # Caching
//
// Read-only GET exchanges can be served from a pluggable Cache keyed by a
// deterministic request fingerprint. Backends include a bounded in-memory
// cache and a NATS JetStream key-value bucket for sharing a cache between
// processes. Streaming exchanges are never cached.
package osc
