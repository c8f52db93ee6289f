package handlers

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/cbodonnell/bullseye/pkg/api/middleware"
	authproviders "github.com/cbodonnell/bullseye/pkg/auth/providers"
	"github.com/cbodonnell/bullseye/pkg/game/constants"
	"github.com/cbodonnell/bullseye/pkg/game/leaderboard"
	"github.com/cbodonnell/bullseye/pkg/log"
	"github.com/cbodonnell/bullseye/pkg/messages"
	"github.com/cbodonnell/bullseye/pkg/network"
	"github.com/cbodonnell/bullseye/pkg/repositories"
	"github.com/cbodonnell/bullseye/pkg/repositories/models"
	"golang.org/x/crypto/bcrypt"
)

// LeaderboardSource provides the latest published leaderboard.
type LeaderboardSource interface {
	Leaderboard() []leaderboard.Entry
}

// Credentials is the request body of the register and login endpoints
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountResponse is the response body of the register and login endpoints.
// Rejected requests answer with Success false and a Message for the player.
type AccountResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Token    string    `json:"token,omitempty"`
	UserData *UserData `json:"userData,omitempty"`
}

type UserData struct {
	Username   string `json:"username"`
	BestScore  int    `json:"bestScore"`
	TotalGames int    `json:"totalGames"`
}

type LeaderboardResponse struct {
	Data []messages.LeaderboardEntry `json:"data"`
}

func userDataFromModel(user *models.User) *UserData {
	return &UserData{
		Username:   user.Username,
		BestScore:  user.BestScore,
		TotalGames: user.TotalGames,
	}
}

func HandleRegister(repository repositories.Repository, hashCost int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		credentials, ok := decodeCredentials(w, r)
		if !ok {
			return
		}
		if err := network.ValidateUsername(credentials.Username); err != nil {
			writeJSON(w, &AccountResponse{Message: "Username must be between 2 and 20 characters"})
			return
		}
		passwordLength := utf8.RuneCountInString(credentials.Password)
		if passwordLength < constants.PasswordMinLength || passwordLength > constants.PasswordMaxLength {
			writeJSON(w, &AccountResponse{Message: "Password must be between 4 and 16 characters"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), hashCost)
		if err != nil {
			log.Error("failed to hash password: %v", err)
			http.Error(w, "Failed to hash password", http.StatusInternalServerError)
			return
		}

		if _, err := repository.CreateUser(r.Context(), credentials.Username, string(hash)); err != nil {
			if repositories.IsUserExists(err) {
				writeJSON(w, &AccountResponse{Message: "Username already exists"})
				return
			}
			log.Error("failed to create user: %v", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

		log.Info("Registered user %s", credentials.Username)
		writeJSON(w, &AccountResponse{Success: true, Message: "Registration successful"})
	}
}

// HandleLogin checks a password and, when the auth provider issues its own
// tokens, returns a token for the game connection.
func HandleLogin(repository repositories.Repository, authProvider authproviders.AuthProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		credentials, ok := decodeCredentials(w, r)
		if !ok {
			return
		}

		user, err := repository.GetUser(r.Context(), credentials.Username)
		if err != nil {
			if repositories.IsNotFound(err) {
				writeJSON(w, &AccountResponse{Message: "User does not exist"})
				return
			}
			log.Error("failed to get user: %v", err)
			http.Error(w, "Failed to get user", http.StatusInternalServerError)
			return
		}
		if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)) != nil {
			writeJSON(w, &AccountResponse{Message: "Incorrect password"})
			return
		}

		response := &AccountResponse{
			Success:  true,
			Message:  "Login successful",
			UserData: userDataFromModel(user),
		}
		if issuer, ok := authProvider.(authproviders.TokenIssuer); ok {
			token, err := issuer.IssueToken(user.Username)
			if err != nil {
				log.Error("failed to issue token: %v", err)
				http.Error(w, "Failed to issue token", http.StatusInternalServerError)
				return
			}
			response.Token = token
		}
		writeJSON(w, response)
	}
}

func HandleLeaderboard(source LeaderboardSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := source.Leaderboard()
		data := make([]messages.LeaderboardEntry, len(entries))
		for i, e := range entries {
			data[i] = messages.LeaderboardEntry{Username: e.Username, Score: e.Score}
		}
		writeJSON(w, &LeaderboardResponse{Data: data})
	}
}

func HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(middleware.UserContextKey).(*models.User)
		if !ok {
			log.Error("failed to get user from context")
			http.Error(w, "Failed to get user from context", http.StatusInternalServerError)
			return
		}
		writeJSON(w, userDataFromModel(user))
	}
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (*Credentials, bool) {
	credentials := &Credentials{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(credentials); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if credentials.Username == "" || credentials.Password == "" {
		writeJSON(w, &AccountResponse{Message: "Username and password are required"})
		return nil, false
	}
	return credentials, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}
