// cmd/servertoken/main.go prints a match-completion token for a game server.
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jason-s-yu/halo/internal/auth"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	keyPath := flag.String("key", os.Getenv("SERVER_TOKEN_KEY_PATH"), "path to the ed25519 seed or private key")
	serverID := flag.String("server", "", "game server id written to the token subject")
	ttl := flag.Duration("ttl", 0, "token lifetime, 0 for no expiry")
	genKey := flag.Bool("genkey", false, "write a new ed25519 seed to -key and exit")
	flag.Parse()

	if *keyPath == "" {
		logrus.Fatal("-key or SERVER_TOKEN_KEY_PATH is required")
	}

	if *genKey {
		seed := make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			logrus.Fatalf("failed to generate seed: %v", err)
		}
		if err := os.WriteFile(*keyPath, seed, 0o600); err != nil {
			logrus.Fatalf("failed to write key: %v", err)
		}
		logrus.WithField("path", *keyPath).Info("wrote new server token key")
		return
	}

	if *serverID == "" {
		logrus.Fatal("-server is required")
	}
	tokens, err := auth.LoadServerTokens(*keyPath, *ttl)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	token, err := tokens.Issue(*serverID)
	if err != nil {
		logrus.Fatalf("failed to sign token: %v", err)
	}
	if *ttl > 0 {
		logrus.WithField("expires", time.Now().Add(*ttl).Format(time.RFC3339)).Info("token issued")
	}
	fmt.Println(token)
}
