// This command is a small convenience tool for managing dashboard accounts
// in the configured server database.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/tirta-iot/tirta/internal/auth"
	"github.com/tirta-iot/tirta/internal/core"
	"github.com/tirta-iot/tirta/internal/data"
)

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Printf("account error: %v\n", err)
		os.Exit(1)
	}
}

func app() *cli.App {
	app := cli.NewApp()
	app.Name = "account"
	app.Usage = "manage tirta dashboard accounts"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the directory containing the server config file",
			EnvVars: []string{"TIRTA_CONFIG"},
			Value:   "./",
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:   "add",
			Usage:  "create a dashboard account",
			Action: withDatabase(addAccount),
		},
		{
			Name:   "list",
			Usage:  "list dashboard accounts",
			Action: withDatabase(listAccounts),
		},
	}
	return app
}

// withDatabase loads the config named by the top-level flag, opens the
// database, and hands it to the wrapped action.
func withDatabase(action func(*cli.Context, *gorm.DB) error) cli.ActionFunc {
	return func(cc *cli.Context) error {
		config := core.LoadConfig(cc.String("config"))

		db, err := data.Initialize(config.Database.Engine, config.DatabaseURL(), false)
		if err != nil {
			return fmt.Errorf("error connecting to database: %w", err)
		}
		defer func() { _ = data.Shutdown(db) }()

		return action(cc, db)
	}
}

func addAccount(_ *cli.Context, db *gorm.DB) error {
	username := scanInput("Username")
	password := scanInput("Password")

	account, err := auth.CreateAccount(db, username, password)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	fmt.Println("created account with ID:", account.ID)
	return nil
}

func listAccounts(_ *cli.Context, db *gorm.DB) error {
	accounts, err := data.ListAccounts(db)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	for _, account := range accounts {
		status := "active"
		if !account.Active {
			status = "inactive"
		}
		fmt.Printf("%d\t%s\t%s\n", account.ID, account.Username, status)
	}
	return nil
}

func scanInput(prompt string) string {
	fmt.Printf("%s: ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Scan()
	return scanner.Text()
}
