/*
Package response turns terminal response descriptors into *http.Response values.

The fetch mock hands every terminal value that is not already an
*http.Response to a Builder. DefaultBuilder understands status codes, string
and byte bodies, Config values, and falls back to JSON-encoding anything
else.
*/
package response
