// Package domain holds the tender notice model shared by the fetcher, parser and CLI.
package domain

import "strconv"

// DefaultPublicationID is the notice retrieved when none is given.
const DefaultPublicationID PublicationID = 300000

// Credentials authenticate requests against the TenderNed API.
type Credentials struct {
	Username string
	Password string
}

// Complete reports whether both username and password are set.
func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// String hides the password.
func (c Credentials) String() string {
	return "Credentials{Username: " + strconv.Quote(c.Username) + ", Password: [redacted]}"
}

// PublicationID identifies one published notice in the registry.
type PublicationID int64

// Valid reports whether the id is positive.
func (id PublicationID) Valid() bool {
	return id > 0
}

func (id PublicationID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Notice is the parsed view of a notice's contract object.
type Notice struct {
	PublicationID    PublicationID `json:"publication_id,omitempty"`
	Title            string        `json:"title"`
	ShortDescription string        `json:"short_description,omitempty"`
	ReferenceNumber  string        `json:"reference_number,omitempty"`
}
