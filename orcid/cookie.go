package orcid

import (
	"net/http"
	"time"

	"github.com/go-playground/errors/v5"
)

type stKey string

func (c stKey) String() string {
	return string(c)
}

const (
	stCookieName = "ORCID-FLOW"
	// Keys used within the flow cookie
	stState        stKey = "state"
	stPkceVerifier stKey = "pkceVerifier"
	stReturnURL    stKey = "returnURL"

	flowCookieExpiration = 10 * time.Minute
)

func (o *ORCID) writeFlowCookie(w http.ResponseWriter, cval map[stKey]string) error {
	encoded, err := o.s.Encode(stCookieName, cval)
	if err != nil {
		return errors.Wrap(err, "securecookie.Encode()")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stCookieName,
		Expires:  time.Now().Add(flowCookieExpiration),
		Value:    encoded,
		Path:     "/",
		Secure:   o.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (o *ORCID) readFlowCookie(r *http.Request) (map[stKey]string, bool) {
	c, err := r.Cookie(stCookieName)
	if err != nil {
		return nil, false
	}

	cval := make(map[stKey]string)
	if err := o.s.Decode(stCookieName, c.Value, &cval); err != nil {
		return nil, false
	}

	return cval, true
}

func (o *ORCID) deleteFlowCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:    stCookieName,
		Expires: time.Unix(0, 0),
		Path:    "/",
		Secure:  o.secure,
	})
}
