package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/MrSnakeDoc/websaver/internal/app"
	"github.com/MrSnakeDoc/websaver/internal/domain"
	"github.com/MrSnakeDoc/websaver/internal/sources/seed"
	"github.com/MrSnakeDoc/websaver/internal/store/local"
	"github.com/MrSnakeDoc/websaver/internal/utils"
	"github.com/MrSnakeDoc/websaver/internal/version"
)

func main() {
	cliApp := &cli.App{
		Name:    "websaver",
		Usage:   "Bookmark groups with offline cache and cloud sync",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Value:   "websaver.db",
				Usage:   "SQLite file holding the local store (\":memory:\" allowed)",
				EnvVars: []string{"WEBSAVER_DB"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serve,
			},
			{
				Name:  "export",
				Usage: "Write the stored collection as pretty-printed JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output file (default: " + domain.ExportFileName + ")",
					},
				},
				Action: exportGroups,
			},
			{
				Name:      "import",
				Usage:     "Merge a JSON export into the stored collection",
				ArgsUsage: "<file>",
				Action:    importGroups,
			},
			{
				Name:  "seed",
				Usage: "Write the default groups (or a seed file) to the local store",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "YAML seed file (default: built-in groups)",
						EnvVars: []string{"WEBSAVER_SEED_FILE"},
					},
				},
				Action: seedGroups,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "❌ websaver: %v\n", err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	// The --db flag wins over the environment default.
	if c.IsSet("db") {
		os.Setenv("WEBSAVER_DB", c.String("db"))
	}
	a, err := app.New()
	if err != nil {
		return err
	}
	return a.Run()
}

func openStore(c *cli.Context) (*local.Store, error) {
	return local.New(c.String("db"))
}

func exportGroups(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer utils.Close(store)

	col, ok, err := store.Load()
	if err != nil {
		return err
	}
	if !ok {
		col = domain.Default()
	}
	data, err := col.Export()
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = domain.ExportFileName
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("exported %d groups to %s\n", len(col), out)
	return nil
}

func importGroups(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: websaver import <file>")
	}
	payload, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}
	imported, err := domain.ParseImport(payload)
	if err != nil {
		return err
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer utils.Close(store)

	current, ok, err := store.Load()
	if err != nil {
		return err
	}
	if !ok {
		current = domain.Default()
	}
	merged := current.Merge(imported)
	if err := store.Save(merged); err != nil {
		return err
	}
	if err := store.SaveToCache(merged); err != nil {
		return err
	}
	fmt.Printf("imported %d groups, collection now has %d\n", len(imported), len(merged))
	return nil
}

func seedGroups(c *cli.Context) error {
	groups, err := seed.NewLoader(c.String("file")).Load()
	if err != nil {
		return err
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer utils.Close(store)

	if err := store.Save(groups); err != nil {
		return err
	}
	if err := store.SaveToCache(groups); err != nil {
		return err
	}
	fmt.Printf("seeded %d groups\n", len(groups))
	return nil
}
