/*
Package resp provides a high-level API for responding to HTTP requests
with the response shape configured application-wide.

resp provides three ways of responding to an HTTP request:
  - rendering JSON data in the golink envelope
  - rendering an error in the golink envelope
  - redirecting

Every JSON response is wrapped like so:

	{
		"status": {"code": 200, "error": ["..."]},
		"data": {},
		"page": {"more": false, "total": 1}
	}

"error" is set only on failures, "data" only when Data is called
and "page" only when Page is called.
*/
package resp
