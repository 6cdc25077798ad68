package server

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
)

const verifiedCookie = "upvote_verified"

// upvoteRequest is the endpoint's JSON body
type upvoteRequest struct {
	Slug  string `json:"slug"`
	Token string `json:"token,omitempty"`
}

// upvoteResponse is the endpoint's JSON reply
type upvoteResponse struct {
	Success        bool   `json:"success"`
	AlreadyUpvoted bool   `json:"already_upvoted,omitempty"`
	Error          string `json:"error,omitempty"`
}

// upvoteHandler records a vote for a post. The transition is idempotent per
// (user, slug): a repeated request succeeds without a duplicate row. First
// verification requires a CAPTCHA token, after that a 30-day cookie skips the
// challenge.
func (s *Server) upvoteHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req upvoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderJSON(w, r, http.StatusBadRequest, upvoteResponse{Error: "invalid JSON"})
		return
	}
	if req.Slug == "" {
		renderJSON(w, r, http.StatusBadRequest, upvoteResponse{Error: "missing slug"})
		return
	}

	userID := userFingerprint(r)

	// already voted, nothing to verify or insert
	voted, err := s.store.Has(ctx, userID, req.Slug)
	if err != nil {
		log.Printf("[ERROR] upvote check failed: %v", err)
		renderJSON(w, r, http.StatusInternalServerError, upvoteResponse{Error: "storage failure"})
		return
	}
	if voted {
		renderJSON(w, r, http.StatusOK, upvoteResponse{Success: true, AlreadyUpvoted: true})
		return
	}

	// a prior verification cookie skips the CAPTCHA challenge
	if _, err := r.Cookie(verifiedCookie); err != nil {
		if req.Token == "" {
			renderJSON(w, r, http.StatusBadRequest, upvoteResponse{Error: "verification required"})
			return
		}
		ok, err := s.verifier.Verify(ctx, req.Token, clientIP(r))
		if err != nil {
			log.Printf("[ERROR] captcha verification failed: %v", err)
			renderJSON(w, r, http.StatusForbidden, upvoteResponse{Error: "verification failed"})
			return
		}
		if !ok {
			renderJSON(w, r, http.StatusForbidden, upvoteResponse{Error: "verification failed"})
			return
		}
	}

	added, err := s.store.Add(ctx, userID, req.Slug)
	if err != nil {
		log.Printf("[ERROR] upvote insert failed: %v", err)
		renderJSON(w, r, http.StatusInternalServerError, upvoteResponse{Error: "storage failure"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     verifiedCookie,
		Value:    "1",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
	})

	// a lost race with a concurrent request still counts as voted
	renderJSON(w, r, http.StatusOK, upvoteResponse{Success: true, AlreadyUpvoted: !added})
}

// upvoteCountHandler returns the vote total for a slug
func (s *Server) upvoteCountHandler(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		renderJSON(w, r, http.StatusBadRequest, upvoteResponse{Error: "missing slug"})
		return
	}

	count, err := s.store.Count(r.Context(), slug)
	if err != nil {
		log.Printf("[ERROR] upvote count failed: %v", err)
		renderJSON(w, r, http.StatusInternalServerError, upvoteResponse{Error: "storage failure"})
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{"slug": slug, "count": count})
}

// methodNotAllowedHandler rejects non-write verbs on the upvote endpoint with
// the endpoint's JSON shape
func (s *Server) methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusMethodNotAllowed, upvoteResponse{Error: "POST required"})
}

// userFingerprint derives the weak user identity: client address plus agent
// string. Best-effort duplicate suppression, not a reliable identity.
func userFingerprint(r *http.Request) string {
	return clientIP(r) + ":" + r.UserAgent()
}

// clientIP picks the client address from proxy headers, falling back to the
// connection's remote address
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
