// Package cli implements bookstorectl, the administrative command line tool
// of the bookstore. It talks to the same database as the server and reuses
// the server's services, so catalog imports and user creation go through the
// same validation and hashing as the HTTP API.
//
// Usage:
//
//	bookstorectl [-c config.json] seed -f books.json
//	bookstorectl [-c config.json] useradd -u NAME [-e EMAIL] [-random]
//	bookstorectl [-c config.json] books
//
// Database settings come from the JSON config file and BOOKSTORE_*
// environment variables.
package cli
