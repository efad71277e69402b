// Package karakeep implements a client for the Karakeep REST API.
//
// Requests are rate limited and retried on transport failures. Karakeep
// instances tend to be small self-hosted deployments, so the client
// defaults to one request per second and caps page sizes at 100.
package karakeep
