// Command token prints an access token for the write endpoints of the
// room reservation API.  It signs with AUTH_JWT_SECRET unless -secret is
// given.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/room-reservation/internal/utils"
)

func main() {
	_ = godotenv.Load()

	subject := flag.String("sub", "admin", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	secret := flag.String("secret", os.Getenv("AUTH_JWT_SECRET"), "HS256 signing secret")
	flag.Parse()

	tok, err := utils.NewAccessToken(*secret, *subject, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "token:", err)
		os.Exit(1)
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
}
