package httpapi

import (
	"encoding/json"
	"mime"
	"net/http"

	"weekly-challenges/internal/auth"
)

const maxBodyBytes = 1 << 20

func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	user, err := s.Auth.Register(r.Context(), req.Email, *req.Password)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	logFor(r, s.Log).WithField("user_id", user.ID).Info("user registered")
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// handleToken implements the OAuth2 password grant form (username, password).
// A JSON body with email or username is accepted as well.
func (s *server) handleToken(w http.ResponseWriter, r *http.Request) {
	var (
		email, password string
		hasPassword     bool
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req loginRequest
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			unprocessable(w, "invalid request body")
			return
		}
		email = req.Email
		if req.Password != nil {
			password, hasPassword = *req.Password, true
		}
		if email == "" {
			email = req.Username
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			unprocessable(w, "invalid form body")
			return
		}
		email, password = r.PostForm.Get("username"), r.PostForm.Get("password")
		_, hasPassword = r.PostForm["password"]
	}
	if email == "" || !hasPassword {
		unprocessable(w, "username and password are required")
		return
	}

	token, err := s.Auth.Login(r.Context(), email, password)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: auth.TokenType})
}

// decodeJSON reads a single JSON object into dst and runs struct validation.
// It writes the 422 response itself and reports whether the handler may continue.
func (s *server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		unprocessable(w, "invalid request body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		unprocessable(w, validationDetail(err))
		return false
	}
	return true
}
