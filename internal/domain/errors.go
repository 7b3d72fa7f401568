package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectivity means neither the primary nor the secondary endpoint answered.
	ErrConnectivity = errors.New("unable to access the service from internet or the LAN")

	// ErrServerReply means the service flagged an error or sent a reply that
	// does not fit the expected grammar.
	ErrServerReply = errors.New("bad server reply")

	// ErrRejected means the service refused a specific location or model.
	ErrRejected = errors.New("request rejected by server")

	// ErrInvalidArgument means the caller's input was rejected before any
	// network call, or the reply did not line up with the request.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ServerError carries a line the service flagged as an error, verbatim.
type ServerError struct {
	Line string
}

func (e *ServerError) Error() string { return e.Line }

func (e *ServerError) Is(target error) bool { return target == ErrServerReply }

// LocationError reports that the service refused to generate weather for one site.
type LocationError struct {
	Index int    // position of the site in the request
	Site  Site   // the refused site
	Token string // the server's error token
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("server refused location %d (lat=%g, long=%g, elev=%g): %s",
		e.Index, e.Site.Latitude(), e.Site.Longitude(), e.Site.Elevation(), e.Token)
}

func (e *LocationError) Is(target error) bool { return target == ErrRejected }
