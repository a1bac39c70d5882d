/*
Package hostmock provides a scripted stand-in for the Tarmac waPC host.

It lets tests exercise components that reach the host (the hostfetch network
function, host-forwarded logging) without a runtime. Every HostCall is
recorded so tests can assert on the namespace, capability, function and
payload that reached the host.

	m, _ := hostmock.New(hostmock.Config{
	  ExpectedNamespace:  "tarmac",
	  ExpectedCapability: "httpclient",
	  ExpectedFunction:   "call",
	  Responder: func(payload []byte) ([]byte, error) {
	    var req proto.HTTPClient
	    if err := hostmock.Decode(payload, &req); err != nil {
	      return nil, err
	    }
	    return okResponse(req.GetUrl()), nil
	  },
	})

	fetch, _ := hostfetch.New(hostfetch.Config{HostCall: m.HostCall})

Behavior

  - If Fail is true, HostCall returns Error, or ErrOperationFailed when Error is nil.
  - Expected fields are only enforced when set; blank fields match anything.
  - PayloadValidator runs before the response is produced.
  - Responder, when set, produces the reply; otherwise Response does; otherwise nil.
*/
package hostmock
