package verb

import "github.com/indigo-web/utils/strcomp"

// Verb is the request verb enum. The vocabulary is a fixed closed set
// spanning the conventional HTTP verbs plus the session-signaling ones.
// Anything else maps to Invalid.
type Verb uint8

const (
	Invalid Verb = iota
	GET
	HEAD
	POST
	PUT
	DELETE
	CONNECT
	OPTIONS
	TRACE
	PATCH
	REGISTER
	INVITE
	ACK
	BYE
	CANCEL
	SUBSCRIBE
	NOTIFY
	PUBLISH
	INFO
	REFER
	MESSAGE
	UPDATE
	PRACK

	// Count is the greatest integer value among the verbs. The real number of
	// verbs is lower by one, as Invalid isn't counted.
	Count = iota - 1
)

// List contains all the recognized verbs, sorted by their integer value.
// Invalid is not included, so indexing List requires subtracting 1 first.
var List = []Verb{
	GET, HEAD, POST, PUT, DELETE, CONNECT, OPTIONS, TRACE, PATCH,
	REGISTER, INVITE, ACK, BYE, CANCEL, SUBSCRIBE, NOTIFY, PUBLISH,
	INFO, REFER, MESSAGE, UPDATE, PRACK,
}

// Parse maps a verb token onto the enum via an exact case-insensitive match.
// Tokens are bucketed by length first, so the vast majority of lookups do a
// single folded comparison.
func Parse(str string) Verb {
	switch len(str) {
	case 3:
		switch {
		case strcomp.EqualFold(str, "GET"):
			return GET
		case strcomp.EqualFold(str, "PUT"):
			return PUT
		case strcomp.EqualFold(str, "ACK"):
			return ACK
		case strcomp.EqualFold(str, "BYE"):
			return BYE
		}
	case 4:
		switch {
		case strcomp.EqualFold(str, "POST"):
			return POST
		case strcomp.EqualFold(str, "HEAD"):
			return HEAD
		case strcomp.EqualFold(str, "INFO"):
			return INFO
		}
	case 5:
		switch {
		case strcomp.EqualFold(str, "PATCH"):
			return PATCH
		case strcomp.EqualFold(str, "TRACE"):
			return TRACE
		case strcomp.EqualFold(str, "REFER"):
			return REFER
		case strcomp.EqualFold(str, "PRACK"):
			return PRACK
		}
	case 6:
		switch {
		case strcomp.EqualFold(str, "DELETE"):
			return DELETE
		case strcomp.EqualFold(str, "INVITE"):
			return INVITE
		case strcomp.EqualFold(str, "CANCEL"):
			return CANCEL
		case strcomp.EqualFold(str, "NOTIFY"):
			return NOTIFY
		case strcomp.EqualFold(str, "UPDATE"):
			return UPDATE
		}
	case 7:
		switch {
		case strcomp.EqualFold(str, "CONNECT"):
			return CONNECT
		case strcomp.EqualFold(str, "OPTIONS"):
			return OPTIONS
		case strcomp.EqualFold(str, "PUBLISH"):
			return PUBLISH
		case strcomp.EqualFold(str, "MESSAGE"):
			return MESSAGE
		}
	case 8:
		if strcomp.EqualFold(str, "REGISTER") {
			return REGISTER
		}
	case 9:
		if strcomp.EqualFold(str, "SUBSCRIBE") {
			return SUBSCRIBE
		}
	}

	return Invalid
}

func (v Verb) String() string {
	lut := [...]string{
		Invalid: "INVALID", GET: "GET", HEAD: "HEAD", POST: "POST", PUT: "PUT",
		DELETE: "DELETE", CONNECT: "CONNECT", OPTIONS: "OPTIONS", TRACE: "TRACE",
		PATCH: "PATCH", REGISTER: "REGISTER", INVITE: "INVITE", ACK: "ACK",
		BYE: "BYE", CANCEL: "CANCEL", SUBSCRIBE: "SUBSCRIBE", NOTIFY: "NOTIFY",
		PUBLISH: "PUBLISH", INFO: "INFO", REFER: "REFER", MESSAGE: "MESSAGE",
		UPDATE: "UPDATE", PRACK: "PRACK",
	}
	if int(v) >= len(lut) {
		return "INVALID"
	}

	return lut[v]
}
