package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"loungebot/models"
)

// Callback verbs form a closed set; anything else fails to decode.
type Verb string

const (
	VerbBookSelect   Verb = "bookSelect"   // show level options
	VerbBookLevel    Verb = "bookLevel"    // level chosen, show date options
	VerbBookDate     Verb = "bookDate"     // date chosen, prompt for start time
	VerbAvailSelect  Verb = "availSelect"  // show date options for availability
	VerbAvailDate    Verb = "availDate"    // render one date
	VerbAvailWeek    Verb = "availWeek"    // render the next seven days
	VerbUnbookSelect Verb = "unbookSelect" // list caller's bookings to cancel
	VerbUnbook       Verb = "unbook"       // cancel one reservation
	VerbUpdateSelect Verb = "updateSelect" // list caller's bookings to edit
	VerbUpdate       Verb = "update"       // edit one reservation
	VerbBack         Verb = "back"         // return to the welcome prompt
)

// verbFields declares which token fields each verb must carry. A verb
// missing from the map is unknown; a token missing a required field is
// as malformed as one with an unknown verb.
type verbFields struct {
	level         bool
	reservationID bool
	date          bool
}

var knownVerbs = map[Verb]verbFields{
	VerbBookSelect:   {},
	VerbBookLevel:    {level: true},
	VerbBookDate:     {level: true, date: true},
	VerbAvailSelect:  {},
	VerbAvailDate:    {date: true},
	VerbAvailWeek:    {},
	VerbUnbookSelect: {},
	VerbUnbook:       {level: true, reservationID: true, date: true},
	VerbUpdateSelect: {},
	VerbUpdate:       {level: true, reservationID: true, date: true},
	VerbBack:         {},
}

// tokenDelimiter joins the fixed fields of a callback token. It must
// stay stable so tokens round-trip through the relay unchanged.
const tokenDelimiter = "|"

// Token is the decoded form of a callback payload. Unused fields are
// zero: a bookLevel token carries only Level, an unbook token carries
// Level, ReservationID and Date.
type Token struct {
	Verb          Verb
	Level         int
	ReservationID string
	Date          string // "YYYY-MM-DD"
}

// Encode renders the token as verb|level|reservationID|date. A zero
// level encodes as the empty string.
func (t Token) Encode() string {
	level := ""
	if t.Level != 0 {
		level = strconv.Itoa(t.Level)
	}
	return strings.Join([]string{string(t.Verb), level, t.ReservationID, t.Date}, tokenDelimiter)
}

// DecodeToken parses a callback payload back into a Token. Unknown
// verbs, a wrong field count, malformed fields, or a missing field the
// verb requires yield ErrBadToken.
func DecodeToken(raw string) (Token, error) {
	parts := strings.Split(raw, tokenDelimiter)
	if len(parts) != 4 {
		return Token{}, fmt.Errorf("%w: %q", ErrBadToken, raw)
	}
	verb := Verb(parts[0])
	required, ok := knownVerbs[verb]
	if !ok {
		return Token{}, fmt.Errorf("%w: unknown verb %q", ErrBadToken, parts[0])
	}
	tok := Token{Verb: verb, ReservationID: parts[2], Date: parts[3]}
	if parts[1] != "" {
		level, err := strconv.Atoi(parts[1])
		if err != nil || !models.ValidLevel(level) {
			return Token{}, fmt.Errorf("%w: bad level %q", ErrBadToken, parts[1])
		}
		tok.Level = level
	}
	if tok.Date != "" {
		if _, err := time.Parse(models.DateLayout, tok.Date); err != nil {
			return Token{}, fmt.Errorf("%w: bad date %q", ErrBadToken, tok.Date)
		}
	}
	if required.level && tok.Level == 0 {
		return Token{}, fmt.Errorf("%w: %s requires a level", ErrBadToken, verb)
	}
	if required.reservationID && tok.ReservationID == "" {
		return Token{}, fmt.Errorf("%w: %s requires a reservation id", ErrBadToken, verb)
	}
	if required.date && tok.Date == "" {
		return Token{}, fmt.Errorf("%w: %s requires a date", ErrBadToken, verb)
	}
	return tok, nil
}
