/*
Package request canonicalizes the inputs accepted by a fetch call.

A fetch may be issued with a URL (string, *url.URL or any fmt.Stringer) plus
Options, or with a prebuilt *http.Request optionally accompanied by Options.
Normalize reduces every shape to a Normalized triple: the URL as a string,
the effective Options, and the original *http.Request when one was supplied.
The original request is kept so that a pass-through to the real network can
replay it instead of a reconstruction.
*/
package request
