/*
Package logging provides the structured logger used by the fetch mock.

Entries are produced with zerolog. By default they are written to the
configured io.Writer; when a host call is configured they are forwarded to the
Tarmac host logging capability instead, one call per entry, using the entry
level as the function name (Info, Warn, Error, Debug, Trace).
*/
package logging
