// Command devtoken mints a bearer token for local development against an API
// running with AUTH_MODE=jwt. It shares the signing configuration with the
// server through TOKEN_SECRET and TOKEN_ISSUER.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/travlr-labs/travel-catalog-api/internal/platform/auth"
)

func main() {
	subject := flag.String("sub", "dev|local", "token subject")
	ttl := flag.Duration("ttl", 30*time.Minute, "token lifetime")
	flag.Parse()

	secret := os.Getenv("TOKEN_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "TOKEN_SECRET must be set")
		os.Exit(1)
	}
	issuer := os.Getenv("TOKEN_ISSUER")
	if issuer == "" {
		issuer = "travel-catalog-api"
	}

	tm, err := auth.NewTokenManager(secret, issuer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}
	raw, err := tm.Issue(*subject, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(raw)
}
