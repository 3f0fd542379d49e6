package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"tidestom/internal/config"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message carried from a redirecting write to the
// next page view.
type Flash struct {
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Ref     string            `json:"ref,omitempty"`
}

type FlashStore struct {
	Store sessions.Store
	Name  string
}

// NewFlashStore builds a cookie-backed store. An empty secret gets a random
// key, so flashes do not survive a restart.
func NewFlashStore(cfg config.SessionConfig) *FlashStore {
	key := []byte(cfg.Secret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	name := cfg.Name
	if name == "" {
		name = "tidestom_session"
	}
	return &FlashStore{Store: store, Name: name}
}

func (f *FlashStore) Add(c *gin.Context, flash Flash) error {
	if f == nil || f.Store == nil {
		return nil
	}
	session, err := f.Store.Get(c.Request, f.Name)
	if err != nil && session == nil {
		return err
	}
	raw, err := json.Marshal(flash)
	if err != nil {
		return err
	}
	session.AddFlash(string(raw))
	return session.Save(c.Request, c.Writer)
}

// Pop returns and clears pending flashes. It must run before the response
// body is written.
func (f *FlashStore) Pop(c *gin.Context) []Flash {
	out := []Flash{}
	if f == nil || f.Store == nil {
		return out
	}
	session, err := f.Store.Get(c.Request, f.Name)
	if session == nil {
		return out
	}
	if err != nil {
		// undecodable cookie, e.g. after a key rotation
		return out
	}
	values := session.Flashes()
	if len(values) == 0 {
		return out
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var flash Flash
		if err := json.Unmarshal([]byte(raw), &flash); err != nil {
			continue
		}
		out = append(out, flash)
	}
	_ = session.Save(c.Request, c.Writer)
	return out
}
