/*
Package hostfetch sends real HTTP requests through the Tarmac host.

Inside a WebAssembly guest there is no socket access, so the network behind a
fetch mock is the host httpclient capability. Client.Fetch has the shape of
resolve.NetworkFunc and can be set as fetchmock.Config.Network: unmatched or
pass-through fetches are then serialized with protobuf, sent over waPC, and
the host reply is turned back into an *http.Response.

Errors use sentinel values joined with the underlying cause and can be
checked with errors.Is.
*/
package hostfetch
