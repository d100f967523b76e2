// Command token mints a bearer token for local testing of the API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fjod/go_food/internal/auth"
	"github.com/fjod/go_food/internal/config"
)

func main() {
	userID := flag.String("user", "", "user id to put in the subject claim")
	admin := flag.Bool("admin", false, "grant the admin role")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: token -user <id> [-admin]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	id := auth.Identity{UserID: *userID}
	if *admin {
		id.Role = auth.RoleAdmin
	}
	token, err := auth.NewJWTProvider(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL).Issue(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
