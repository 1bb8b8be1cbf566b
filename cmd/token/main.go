// Command token prints a bearer token for a user id, signed with the
// configured JWT_SECRET. It is meant for local development against the API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sharemark/internal/config"
	"sharemark/internal/utils"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	userHex := flag.String("user", "", "hex ObjectID of the user to issue the token for (random when empty)")
	flag.Parse()

	cfg := config.Read()

	userID := primitive.NewObjectID()
	if *userHex != "" {
		var err error
		userID, err = primitive.ObjectIDFromHex(*userHex)
		if err != nil {
			log.Fatal().Err(err).Str("user", *userHex).Msg("Invalid user id")
		}
	}

	verifier, err := utils.NewTokenVerifier(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build token verifier")
	}
	token, err := verifier.Issue(userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to sign token")
	}

	log.Info().Str("user", userID.Hex()).Dur("ttl", cfg.JWT.TokenTTL).Msg("Issued token")
	fmt.Println(token)
}
