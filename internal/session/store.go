// Package session provides a server-side session store for gin-contrib/sessions.
//
// The client only holds a signed session id in a cookie. Session values are
// encoded and signed with the same codecs and kept in a Backend, keyed by
// that id, until they expire.
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gorilla/securecookie"
	gsessions "github.com/gorilla/sessions"
	"github.com/yukikurage/game-event-planner/internal/constants"
	"github.com/yukikurage/game-event-planner/internal/utils"
)

// renewKey marks a session whose id is replaced on the next Save.
const renewKey = "_renew"

// Renew makes the next Save of s issue a fresh session id and drop the data
// stored under the old one. Call it whenever the session changes principal.
func Renew(s sessions.Session) {
	s.Set(renewKey, true)
}

// Store implements sessions.Store on top of a Backend.
type Store struct {
	backend Backend
	codecs  []securecookie.Codec
	options *gsessions.Options
}

var _ sessions.Store = (*Store)(nil)

// NewStore creates a Store. keyPairs are securecookie hash/block key pairs;
// the first pair signs new cookies and every pair is tried when decoding.
func NewStore(backend Backend, keyPairs ...[]byte) *Store {
	s := &Store{
		backend: backend,
		codecs:  securecookie.CodecsFromPairs(keyPairs...),
	}
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(constants.DefaultSessionMaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// Options sets the cookie options for sessions created afterwards.
func (s *Store) Options(options sessions.Options) {
	s.options = options.ToGorillaOptions()
	if s.options.MaxAge > 0 {
		for _, codec := range s.codecs {
			if sc, ok := codec.(*securecookie.SecureCookie); ok {
				sc.MaxAge(s.options.MaxAge)
			}
		}
	}
}

// Get returns the session for name, cached per request.
func (s *Store) Get(r *http.Request, name string) (*gsessions.Session, error) {
	return gsessions.GetRegistry(r).Get(s, name)
}

// New loads the session referenced by the request cookie. A missing,
// tampered or expired reference yields a fresh anonymous session.
func (s *Store) New(r *http.Request, name string) (*gsessions.Session, error) {
	session := gsessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := securecookie.DecodeMulti(name, cookie.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	data, found, err := s.backend.Get(r.Context(), id)
	if err != nil {
		return session, fmt.Errorf("session: load failed: %w", err)
	}
	if !found {
		return session, nil
	}

	if err := securecookie.DecodeMulti(name, string(data), &session.Values, s.codecs...); err != nil {
		return session, nil
	}

	session.ID = id
	session.IsNew = false
	return session, nil
}

// Save persists the session and refreshes its expiry. A negative MaxAge
// deletes the stored session and expires the cookie.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *gsessions.Session) error {
	ctx := r.Context()

	if _, renew := session.Values[renewKey]; renew {
		delete(session.Values, renewKey)
		if session.ID != "" {
			if err := s.backend.Delete(ctx, session.ID); err != nil {
				return fmt.Errorf("session: renew failed: %w", err)
			}
			session.ID = ""
		}
	}

	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.backend.Delete(ctx, session.ID); err != nil {
				return fmt.Errorf("session: delete failed: %w", err)
			}
		}
		http.SetCookie(w, gsessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		id, err := utils.GenerateSessionID()
		if err != nil {
			return fmt.Errorf("session: %w", err)
		}
		session.ID = id
	}

	data, err := securecookie.EncodeMulti(session.Name(), session.Values, s.codecs...)
	if err != nil {
		return fmt.Errorf("session: encode values: %w", err)
	}

	if err := s.backend.Set(ctx, session.ID, []byte(data), ttl(session.Options)); err != nil {
		return fmt.Errorf("session: store failed: %w", err)
	}

	encodedID, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("session: encode id: %w", err)
	}

	http.SetCookie(w, gsessions.NewCookie(session.Name(), encodedID, session.Options))
	return nil
}

// ttl is the server-side lifetime; browser-session cookies (MaxAge 0) still
// get the default lifetime on the server.
func ttl(options *gsessions.Options) time.Duration {
	if options.MaxAge > 0 {
		return time.Duration(options.MaxAge) * time.Second
	}
	return constants.DefaultSessionMaxAge
}
