package common

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "bookstore_session"

// MaxProfilePicBytes caps a single profile picture upload.
const MaxProfilePicBytes = 5 << 20

// MaxCartItems caps the number of entries a session cart may hold.
const MaxCartItems = 1000
