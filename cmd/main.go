package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/armadagame/armada-backend/api"
	"github.com/armadagame/armada-backend/db"
	"github.com/armadagame/armada-backend/db/sqlc"
	mb "github.com/armadagame/armada-backend/models/battleship"
	mc "github.com/armadagame/armada-backend/models/connection"

	"github.com/joho/godotenv"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

func main() {
	if os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(".env"); err != nil {
			panic(err)
		}
	}
	stage := os.Getenv("STAGE")
	if stage != StageDev && stage != StageProd {
		panic("stage must be either dev or prod")
	}

	port := os.Getenv("PORT")
	if _, err := strconv.Atoi(port); err != nil {
		panic(err)
	}

	psqlUrl := os.Getenv("DATABASE_URL")
	dbConn := db.MustConnectToDb(psqlUrl)
	queries := sqlc.New(dbConn)

	var gameManagerOpts []mb.GameManagerOption
	if capEnv := os.Getenv("PLACEMENT_ATTEMPT_CAP"); capEnv != "" {
		attemptCap, err := strconv.Atoi(capEnv)
		if err != nil {
			panic(err)
		}
		gameManagerOpts = append(gameManagerOpts, mb.WithPlacementAttemptCap(attemptCap))
	}

	sessionManager := mc.NewBattleshipSessionManager()
	go sessionManager.CleanupPeriodically()

	gameManager := mb.NewBattleshipGameManager(gameManagerOpts...)

	rp := api.NewRequestProcessor(sessionManager, gameManager, queries)

	mux := http.NewServeMux()
	mux.Handle("GET /armada", rp)

	log.Printf("Listening to port %s\n", port)
	log.Fatalln(http.ListenAndServe("0.0.0.0:"+port, mux))
}
