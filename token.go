package ezauth

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gooby/ezauth/errors"
)

// 2^63 as a float64.
const maxSubject = float64(1 << 63)

// Allows for time to be stubbed in tests.
var timeFunc = time.Now

// Claims are the user claims carried by an EZ Auth token.
//
// Optional claims are only copied when the token encodes them as strings;
// claims of any other type are treated as absent. An absent claim is the empty
// string.
type Claims struct {
	// User id. Maps to the `sub` claim, which may be a number or a decimal
	// string.
	Subject int64

	Username  string
	FirstName string
	LastName  string
	Email     string
	Role      string
}

// Verify checks the token's signature against secret and returns the claims
// it carries. Every failure, including expired tokens, tokens signed with
// another algorithm and tokens without a usable subject, returns an error
// matching ErrVerification.
func Verify(token, secret string) (Claims, error) {
	if token == "" {
		return Claims{}, errors.Mark(ErrVerification, 0).Append("token is empty")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{Algorithm}),
		jwt.WithJSONNumber(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(timeFunc),
	)

	mc := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(token, mc, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return Claims{}, errors.Mark(ErrVerification, 0).Append(err.Error())
	}

	sub, err := parseSubject(mc["sub"])
	if err != nil {
		return Claims{}, errors.Mark(ErrVerification, 0).Append(err.Error())
	}

	return Claims{
		Subject:   sub,
		Username:  stringClaim(mc, "username"),
		FirstName: stringClaim(mc, "firstName"),
		LastName:  stringClaim(mc, "lastName"),
		Email:     stringClaim(mc, "email"),
		Role:      stringClaim(mc, "role"),
	}, nil
}

func parseSubject(v interface{}) (int64, error) {
	switch s := v.(type) {
	case nil:
		return 0, errors.New("missing sub claim")
	case json.Number:
		if i, err := s.Int64(); err == nil {
			return i, nil
		}
		// A plain integer that didn't fit is out of range. Only decimal and
		// exponent forms such as 7.0 and 1e3 go through float64, and the
		// bounds are exclusive because 2^63 and -2^63 absorb their rounding
		// neighbours.
		if !strings.ContainsAny(s.String(), ".eE") {
			return 0, errors.Errorf("sub claim %q is out of range", s.String())
		}
		f, err := s.Float64()
		if err != nil || f != math.Trunc(f) || f >= maxSubject || f <= -maxSubject {
			return 0, errors.Errorf("sub claim %q is not an integer", s.String())
		}
		return int64(f), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, errors.Errorf("sub claim %q is not an integer", s)
		}
		return i, nil
	default:
		return 0, errors.Errorf("sub claim has unsupported type %T", v)
	}
}

func stringClaim(mc jwt.MapClaims, name string) string {
	s, _ := mc[name].(string)
	return s
}
