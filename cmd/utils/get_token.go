package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"

	"tago-service/internal/infrastructure/oauth"
	"tago-service/pkg/logger"

	"github.com/joho/godotenv"
)

// Prints a Gmail refresh token for GMAIL_REFRESH_TOKEN.
// Reads GMAIL_CLIENT_ID and GMAIL_CLIENT_SECRET from the environment or .env.
func main() {
	godotenv.Load()
	log := logger.NewLogger("info")

	clientID := os.Getenv("GMAIL_CLIENT_ID")
	clientSecret := os.Getenv("GMAIL_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Fatal("GMAIL_CLIENT_ID and GMAIL_CLIENT_SECRET must be set")
	}

	gmailOAuth := oauth.NewGmailOAuth(clientID, clientSecret, "", "http://localhost:8090/oauth2callback", log)

	// Create a random state
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Fatal("Failed to generate state", "error", err)
	}
	state := hex.EncodeToString(buf)

	// Start an HTTP server to handle the OAuth callback
	http.HandleFunc("/oauth2callback", func(w http.ResponseWriter, r *http.Request) {
		// Check state parameter
		if r.URL.Query().Get("state") != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		// Exchange the authorization code for a token
		code := r.URL.Query().Get("code")
		token, err := gmailOAuth.ExchangeCode(context.Background(), code)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to exchange code: %v", err), http.StatusInternalServerError)
			return
		}

		// Print the refresh token
		fmt.Printf("\nGMAIL_REFRESH_TOKEN=%s\n\n", token.RefreshToken)

		// Respond to the user
		fmt.Fprintf(w, "Authentication successful! You can close this window.")
		os.Exit(0)
	})

	// Generate the authorization URL
	fmt.Printf("Open this URL in your browser:\n%s\n", gmailOAuth.GenerateAuthURL(state))

	if err := http.ListenAndServe(":8090", nil); err != nil {
		log.Fatal("Callback server stopped", "error", err)
	}
}
