/*
Package host holds the settings and errors shared by the components that talk
to a Tarmac host over waPC.

Components accept a RuntimeConfig and an optional Call override. When the
override is nil they use the real waPC host call, so tests can substitute a
hostmock.Mock without a running host.
*/
package host
