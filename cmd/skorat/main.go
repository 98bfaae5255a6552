// skorat is the diagnostic CLI for the scorekeeping store: listing games,
// running the structural validator, and moving backups in and out.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/skorat-app/skorat-core/internal/backup"
	appcfg "github.com/skorat-app/skorat-core/internal/config"
	"github.com/skorat-app/skorat-core/internal/gamedef"
	"github.com/skorat-app/skorat-core/internal/obslog"
	"github.com/skorat-app/skorat-core/internal/session"
	"github.com/skorat-app/skorat-core/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("log init error: %v", err)
	}
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	games, err := store.Open(cfg.RedisURL)
	if err != nil {
		log.Fatalf("store init error: %v", err)
	}
	defer games.Close()
	profiles := store.NewProfileStore(games.Client())

	defs, err := gamedef.New(cfg.GameCatalogPath)
	if err != nil {
		log.Fatalf("game catalog error: %v", err)
	}
	mgr := session.NewManager(games, defs)
	bk := backup.NewService(games, profiles)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "list":
		runList(ctx, mgr)
	case "show":
		runShow(ctx, mgr, arg(2))
	case "validate":
		runValidate(ctx, mgr, arg(2))
	case "delete":
		if err := mgr.Delete(ctx, arg(2)); err != nil {
			log.Fatalf("delete: %v", err)
		}
		fmt.Println("deleted")
	case "export":
		path := ""
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		runExport(ctx, bk, path)
	case "import":
		runImport(ctx, bk, arg(2))
	default:
		usage()
		os.Exit(2)
	}
}

func arg(i int) string {
	if len(os.Args) <= i {
		usage()
		os.Exit(2)
	}
	return os.Args[i]
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: skorat <list|show|validate|delete|export|import> [args]")
	fmt.Fprintln(os.Stderr, "  list              list stored games")
	fmt.Fprintln(os.Stderr, "  show <id>         print one game document")
	fmt.Fprintln(os.Stderr, "  validate <id>     run the round validator over a stored game")
	fmt.Fprintln(os.Stderr, "  delete <id>       remove a game")
	fmt.Fprintln(os.Stderr, "  export [file]     write a backup document (stdout by default)")
	fmt.Fprintln(os.Stderr, "  import <file>     replace all data from a backup document")
}

func runList(ctx context.Context, mgr *session.Manager) {
	all, err := mgr.List(ctx)
	if err != nil {
		log.Fatalf("list: %v", err)
	}
	for _, g := range all {
		fmt.Printf("%s  %-8s %-9s rounds=%-3d %s\n", g.ID, g.GameType, g.Status, len(g.History), g.Title)
	}
}

func runShow(ctx context.Context, mgr *session.Manager, id string) {
	g, err := mgr.Get(ctx, id)
	if err != nil {
		log.Fatalf("show: %v", err)
	}
	raw, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		log.Fatalf("show: %v", err)
	}
	fmt.Println(string(raw))
}

func runValidate(ctx context.Context, mgr *session.Manager, id string) {
	violations, err := mgr.Diagnose(ctx, id)
	if err != nil {
		log.Fatalf("validate: %v", err)
	}
	if len(violations) == 0 {
		fmt.Println("ok")
		return
	}
	for _, v := range violations {
		fmt.Println(v)
	}
	os.Exit(1)
}

func runExport(ctx context.Context, bk *backup.Service, path string) {
	raw, err := bk.ExportJSON(ctx)
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	if path == "" {
		fmt.Println(string(raw))
		return
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		log.Fatalf("export: %v", err)
	}
	fmt.Printf("wrote %s\n", path)
}

func runImport(ctx context.Context, bk *backup.Service, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("import: %v", err)
	}
	res, err := bk.Import(ctx, raw)
	if err != nil {
		log.Fatalf("import: %v", err)
	}
	fmt.Printf("imported %d games, %d profiles\n", res.Games, res.Profiles)
}
