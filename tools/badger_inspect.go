package main

import (
	"chat-client/repositories"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", ".chat-client", "Path to the client token database")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithLoggingLevel(badger.ERROR).
		WithReadOnly(true))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	stored, err := repositories.NewTokenRepository(db, logs.GetLoggerFromLevel(slog.LevelError)).Load()
	if err != nil {
		log.Fatal(err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Username", "Email", "User ID", "Saved", "Token"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	// Only the head of the token is shown
	token := stored.Token
	if len(token) > 16 {
		token = token[:16] + "..."
	}
	table.Append([]string{
		stored.User.Username,
		stored.User.Email,
		stored.User.ID.String(),
		stored.SavedAt.Format(time.DateTime),
		token,
	})
	table.Render()
}
