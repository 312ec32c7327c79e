// Command devtoken mints a bearer token for a member using the server's
// JWT_SECRET, for local testing against the Connect API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/config"
)

func main() {
	member := flag.String("member", "", "member ID the token asserts")
	flag.Parse()
	if *member == "" && flag.NArg() > 0 {
		*member = flag.Arg(0)
	}
	if *member == "" {
		fmt.Fprintln(os.Stderr, "usage: devtoken -member <id>")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	if len(cfg.JWTSecret) < config.MinSecretLength {
		fmt.Fprintf(os.Stderr, "JWT_SECRET must be set and at least %d bytes\n", config.MinSecretLength)
		os.Exit(1)
	}

	token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration).Generate(*member)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
