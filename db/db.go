package db

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

const (
	eventsCollection = "scored_events"
	postsCollection  = "scored_posts"
)

// HashString hashes a given string using SHA-256 and returns its hex
// representation. Used to derive stable Firestore document IDs from item
// identity.
func HashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// InitFirestore builds a Firestore client from the base64-encoded service
// account JSON in FIREBASE_CREDENTIALS. The caller owns the client and
// passes it to whatever needs it; there is no package-level singleton.
func InitFirestore(ctx context.Context) (*firestore.Client, error) {
	encodedCreds := os.Getenv("FIREBASE_CREDENTIALS")
	creds, err := base64.StdEncoding.DecodeString(encodedCreds)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Firestore credentials: %w", err)
	}

	opt := option.WithCredentialsJSON(creds)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firestore client: %w", err)
	}

	return client, nil
}
