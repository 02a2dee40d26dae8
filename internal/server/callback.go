package server

import (
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundtrack/internal/services"
)

// DefaultState keys callbacks that arrive without a state parameter.
const DefaultState = "default"

// CallbackHandler handles the OAuth2 authorization code callback.
//
// Every outcome is a redirect to the frontend: errors travel in the error query parameter,
// success in state and hasTokens.
type CallbackHandler struct {
	sessions *services.Sessions
	auth     services.TokenExchanger
	frontend string
	logger   *log.Logger
}

var _ Handler = (*CallbackHandler)(nil)

// NewCallbackHandler creates a callback handler that redirects to frontend.
func NewCallbackHandler(sessions *services.Sessions, auth services.TokenExchanger, frontend string, logger *log.Logger) *CallbackHandler {
	return &CallbackHandler{sessions: sessions, auth: auth, frontend: frontend, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP exchanges the authorization code and stores the tokens under the callback's state.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		h.logger.Warn("authorization denied", "error", errParam, "description", q.Get("error_description"))
		h.redirect(w, r, "error="+url.QueryEscape(errParam))
		return
	}

	code := q.Get("code")
	if code == "" {
		h.redirect(w, r, "error=missing_code")
		return
	}

	state := q.Get("state")
	if state == "" {
		state = DefaultState
	}

	token, err := h.auth.ExchangeCode(r.Context(), code)
	if err != nil {
		h.logger.Error("callback token exchange failed", "state", state, "error", err)
		h.redirect(w, r, "error=token_exchange_failed")
		return
	}

	h.sessions.Save(state, token)
	h.logger.Debug("tokens stored", "state", state)
	h.redirect(w, r, "state="+url.QueryEscape(state)+"&hasTokens=true")
}

// redirect appends query to the frontend URL as-is, since the URL may end in a hash route.
func (h *CallbackHandler) redirect(w http.ResponseWriter, r *http.Request, query string) {
	http.Redirect(w, r, h.frontend+"?"+query, http.StatusFound)
}
