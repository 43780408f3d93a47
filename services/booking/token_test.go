package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	cases := []Token{
		{Verb: VerbBookSelect},
		{Verb: VerbBookLevel, Level: 10},
		{Verb: VerbBookDate, Level: 9, Date: "2026-09-01"},
		{Verb: VerbAvailDate, Date: "2026-09-03"},
		{Verb: VerbUnbook, Level: 11, ReservationID: "res-42", Date: "2026-09-02"},
		{Verb: VerbUpdate, Level: 10, ReservationID: "res-7", Date: "2026-09-05"},
		{Verb: VerbBack},
	}
	for _, tok := range cases {
		decoded, err := DecodeToken(tok.Encode())
		require.NoError(t, err, "token %+v", tok)
		assert.Equal(t, tok, decoded)
	}
}

func TestDecodeTokenRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"bookDate",
		"bookDate|9",
		"bookDate|9|id|2026-09-01|extra",
		"launchMissiles|||",
		"bookDate|7||2026-09-01",
		"bookDate|nine||2026-09-01",
		"bookDate|9||not-a-date",
		"bookDate|9||01/09/2026",
	}
	for _, raw := range cases {
		_, err := DecodeToken(raw)
		assert.ErrorIs(t, err, ErrBadToken, "raw %q", raw)
	}
}

func TestDecodeTokenRejectsMissingRequiredFields(t *testing.T) {
	cases := []string{
		"bookLevel|||",
		"bookDate|||2026-09-02",
		"bookDate|9||",
		"availDate|||",
		"unbook|9||2026-09-02",
		"unbook|9|res-1|",
		"unbook||res-1|2026-09-02",
		"update|9||2026-09-02",
		"update||res-1|2026-09-02",
		"update|9|res-1|",
	}
	for _, raw := range cases {
		_, err := DecodeToken(raw)
		assert.ErrorIs(t, err, ErrBadToken, "raw %q", raw)
	}
}

func TestEncodeOmitsZeroLevel(t *testing.T) {
	assert.Equal(t, "availSelect|||", Token{Verb: VerbAvailSelect}.Encode())
	assert.Equal(t, "availDate|||2026-09-01", Token{Verb: VerbAvailDate, Date: "2026-09-01"}.Encode())
}
