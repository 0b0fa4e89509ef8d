// Command blogctl manages categories, locations and accounts from the shell.
//
//	blogctl category add -title Travel -slug travel [-description ...] [-hidden]
//	blogctl category publish|hide|delete <slug>
//	blogctl location add -name Moscow [-hidden]
//	blogctl location delete <id>
//	blogctl user delete <username>
package main

import (
	"blogicum/internal/cache"
	"blogicum/internal/config"
	"blogicum/internal/data"
	"blogicum/internal/logger"
	"blogicum/internal/service"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

const usage = `usage:
  blogctl category add -title <title> -slug <slug> [-description <text>] [-hidden]
  blogctl category publish|hide|delete <slug>
  blogctl location add -name <name> [-hidden]
  blogctl location delete <id>
  blogctl user delete <username>
`

var errUsage = errors.New("invalid arguments")

// catalogAdmin is the part of the catalog service blogctl drives.
type catalogAdmin interface {
	AddCategory(ctx context.Context, title, description, slug string, published bool) (*data.Category, error)
	SetCategoryPublished(ctx context.Context, slug string, published bool) error
	DeleteCategory(ctx context.Context, slug string) error
	AddLocation(ctx context.Context, name string, published bool) (*data.Location, error)
	DeleteLocation(ctx context.Context, id int64) error
}

// userAdmin removes accounts.
type userAdmin interface {
	Delete(ctx context.Context, username string) error
}

type commands struct {
	catalog catalogAdmin
	users   userAdmin
	out     io.Writer
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log, os.Stderr).Named("blogctl")

	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	if err := data.ApplyMigrations(db, cfg.DB.Driver); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}

	// The server reads categories through the same cache file, so changes
	// made here must evict its entries.
	lookupCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer lookupCache.Close()

	cmds := &commands{
		catalog: service.NewCatalogService(data.NewCategoryRepository(db), data.NewLocationRepository(db), lookupCache, cfg.Cache.TTL),
		users:   service.NewUserService(data.NewUserRepository(db)),
		out:     os.Stdout,
	}
	if err := cmds.run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

func (c *commands) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	switch args[0] {
	case "category":
		return c.category(ctx, args[1], args[2:])
	case "location":
		return c.location(ctx, args[1], args[2:])
	case "user":
		return c.user(ctx, args[1], args[2:])
	default:
		return errUsage
	}
}

func (c *commands) category(ctx context.Context, action string, args []string) error {
	if action == "add" {
		fs := flag.NewFlagSet("category add", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		title := fs.String("title", "", "category title")
		slug := fs.String("slug", "", "URL identifier")
		description := fs.String("description", "", "category description")
		hidden := fs.Bool("hidden", false, "create the category unpublished")
		if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
			return errUsage
		}
		category, err := c.catalog.AddCategory(ctx, *title, *description, *slug, !*hidden)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "created category %q (id %d)\n", category.Slug, category.ID)
		return nil
	}

	if len(args) != 1 {
		return errUsage
	}
	slug := args[0]
	switch action {
	case "publish":
		if err := c.catalog.SetCategoryPublished(ctx, slug, true); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "published category %q\n", slug)
	case "hide":
		if err := c.catalog.SetCategoryPublished(ctx, slug, false); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "hid category %q\n", slug)
	case "delete":
		if err := c.catalog.DeleteCategory(ctx, slug); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "deleted category %q\n", slug)
	default:
		return errUsage
	}
	return nil
}

func (c *commands) location(ctx context.Context, action string, args []string) error {
	switch action {
	case "add":
		fs := flag.NewFlagSet("location add", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		name := fs.String("name", "", "location name")
		hidden := fs.Bool("hidden", false, "create the location unpublished")
		if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
			return errUsage
		}
		location, err := c.catalog.AddLocation(ctx, *name, !*hidden)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "created location %q (id %d)\n", location.Name, location.ID)
	case "delete":
		if len(args) != 1 {
			return errUsage
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return errUsage
		}
		if err := c.catalog.DeleteLocation(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "deleted location %d\n", id)
	default:
		return errUsage
	}
	return nil
}

func (c *commands) user(ctx context.Context, action string, args []string) error {
	if action != "delete" || len(args) != 1 {
		return errUsage
	}
	if err := c.users.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "deleted user %q with their posts and comments\n", args[0])
	return nil
}

// describe turns service errors into a message for the terminal.
func describe(err error) string {
	if fields, ok := service.FieldErrors(err); ok {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msg := "invalid input:"
		for _, k := range keys {
			msg += fmt.Sprintf("\n  %s: %s", k, fields[k])
		}
		return msg
	}
	if errors.Is(err, service.ErrNotFound) {
		return "not found"
	}
	return err.Error()
}
