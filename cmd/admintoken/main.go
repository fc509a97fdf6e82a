// Command admintoken mints a bearer token for the operator endpoints.
//
//	admintoken -name ops -validity 24h
//
// The signing key comes from SECRET_KEY (or a .env file), matching the
// server's configuration.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/notevault/internal/web"
)

func main() {
	_ = godotenv.Load()

	name := flag.String("name", "operator", "operator name recorded in the token")
	validity := flag.Duration("validity", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		log.Fatal("SECRET_KEY is not set")
	}

	token, err := web.GenerateOperatorToken(*name, []byte(secret), *validity)
	if err != nil {
		log.Fatalf("token generation failed: %v", err)
	}

	fmt.Println(token)
}
