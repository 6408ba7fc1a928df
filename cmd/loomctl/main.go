// Command loomctl is a headless workspace client: it lists the workspace tree
// and joins a document's room to edit it from the terminal.
//
//	loomctl ls
//	loomctl open /dashboard/<workspace>/<folder>/<file>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loomspace/internal/auth"
	"loomspace/internal/client/api"
	"loomspace/internal/client/store"
	"loomspace/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	server := flag.String("server", envOr("LOOMSPACE_URL", "http://localhost:"+cfg.Port), "API server base URL")
	token := flag.String("token", os.Getenv("LOOMSPACE_TOKEN"), "Bearer token")
	userID := flag.String("user", "", "Mint a dev token for this user id with SUPABASE_JWT_SECRET")
	email := flag.String("email", "", "Email claim for a minted token")
	verbose := flag.Bool("v", false, "Debug logging to stderr")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: loomctl [flags] ls | open <path>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := config.NewLogger(*verbose, os.Stderr)

	realtimeSettings, err := config.LoadRealtime(cfg.RealtimeConfigPath)
	if err != nil {
		fail(err.Error())
	}

	bearer := *token
	if bearer == "" && *userID != "" {
		if cfg.JWTSecret == "" {
			fail("SUPABASE_JWT_SECRET is required to mint a token")
		}
		minted, err := auth.SignToken(cfg.JWTSecret, *userID, *email, 12*time.Hour)
		if err != nil {
			fail(err.Error())
		}
		bearer = minted
	}
	if bearer == "" {
		fail("a token is required (--token, LOOMSPACE_TOKEN or --user)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.New(*server, bearer, api.WithLogger(logger))
	cli := &CLI{
		client:   client,
		store:    store.New(client, logger),
		cursorID: *userID,
		settings: realtimeSettings,
		out:      os.Stdout,
		logger:   logger,
	}
	if cli.cursorID == "" {
		cli.cursorID = "loomctl"
	}

	switch flag.Arg(0) {
	case "ls":
		err = cli.List(ctx)
	case "open":
		if flag.NArg() < 2 {
			flag.Usage()
			os.Exit(2)
		}
		err = cli.Open(ctx, flag.Arg(1), os.Stdin)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fail(err.Error())
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fail(msg string) {
	fmt.Fprintf(os.Stderr, "%sError: %s%s\n", colorRed, msg, colorReset)
	os.Exit(1)
}
