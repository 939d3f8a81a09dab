package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/alecthomas/kong"
	"github.com/graphline/graphline"
	"github.com/graphline/graphline/memgraph"
	"github.com/graphline/graphline/postgresgraph"
	"github.com/graphline/graphline/rqlitegraph"
	"github.com/graphline/graphline/sqlitegraph"
	"github.com/jackc/pgx/v5/pgxpool"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
	"zombiezen.com/go/sqlite/sqlitex"
)

type GlobalFlags struct {
	Type       string `help:"The type of graph store to use." enum:"mem,sqlite,rqlite,postgres" default:"sqlite"`
	Connection string `help:"The connection string to use." default:"file:graph.db?mode=rwc"`
	Verbose    bool   `help:"Enable verbose logging."`
}

func (g GlobalFlags) Store() (graphline.Store, error) {
	switch g.Type {
	case "mem":
		return memgraph.New(), nil
	case "sqlite":
		pool, err := sqlitex.NewPool(g.Connection, sqlitex.PoolOptions{})
		if err != nil {
			return nil, err
		}
		return sqlitegraph.New(pool), nil
	case "rqlite":
		u, err := url.Parse(g.Connection)
		if err != nil {
			return nil, err
		}
		user := u.Query().Get("user")
		password := u.Query().Get("password")
		// Remove user and password from the connection string.
		u.RawQuery = ""
		client := rqlitehttp.NewClient(u.String(), nil)
		if user != "" && password != "" {
			client.SetBasicAuth(user, password)
		}
		return rqlitegraph.New(client), nil
	case "postgres":
		pool, err := pgxpool.New(context.Background(), g.Connection)
		if err != nil {
			return nil, err
		}
		return postgresgraph.New(pool), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", g.Type)
	}
}

func (g GlobalFlags) Logger() *slog.Logger {
	level := slog.LevelInfo
	if g.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type CLI struct {
	GlobalFlags

	Init  InitCommand  `cmd:"init" help:"Initialize the store."`
	Repl  ReplCommand  `cmd:"repl" help:"Run the interactive command interpreter."`
	Exec  ExecCommand  `cmd:"exec" help:"Run commands from a script file."`
	Stats StatsCommand `cmd:"stats" help:"Print graph statistics."`
}

func main() {
	var cli CLI
	ctx := context.Background()
	kctx := kong.Parse(&cli,
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.BindTo(cli.GlobalFlags, (*GlobalFlags)(nil)),
	)
	if err := kctx.Run(ctx, cli.GlobalFlags); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
