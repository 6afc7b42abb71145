// Package api defines the request and response messages of the tripsplit
// Connect services.
//
// Messages travel as JSON. Money amounts are decimal strings with two
// places ("12.50") so no precision is lost on the wire. Dates are ISO-8601
// calendar dates ("2024-06-01").
//
// Request fields carry `validate` tags that the service layer checks with
// go-playground/validator before doing any work. The custom tags are:
//
//	money     a non-negative decimal string
//	isodate   a YYYY-MM-DD calendar date
package api
