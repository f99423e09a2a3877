// ABOUTME: Entry point for the panel admin server.
// ABOUTME: Wires config, adapters, activity store and the admin UI behind cobra commands.

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/2389/panel/adapters/core"
	"github.com/2389/panel/adapters/memory"
	"github.com/2389/panel/adapters/sqlite"
	"github.com/2389/panel/admin"
	"github.com/2389/panel/internal/config"
	"github.com/2389/panel/internal/seed"
	"github.com/2389/panel/internal/store"
	"github.com/2389/panel/internal/ui"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

var (
	configPath string
	port       string
	seedDBPath string
	seedUsers  int
	seedPosts  int
	seedReset  bool
)

func init() {
	core.MustRegister(sqlite.Adapter())
	core.MustRegister(memory.Adapter())
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "panel",
		Short: "Panel - an admin UI for your databases",
		Long: `Panel serves an auto-generated admin interface over SQLite databases.

Every table becomes a resource with list, show, create, edit and delete
pages, plus a JSON API and an activity log of admin requests.

Quick Start:
  panel seed --db demo.db                 # Create a demo database
  PANEL_CONFIG=panel.yaml panel serve     # Start the admin on port 9000`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $PANEL_CONFIG or ./panel.yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the admin server.

The server provides:
  • Admin UI at http://localhost:PORT/admin
  • JSON API at http://localhost:PORT/admin/api/resources
  • Health check at http://localhost:PORT/healthz

Environment Variables:
  PANEL_PORT            Server port (default: 9000)
  PANEL_ROOT_PATH       Mount point of the admin (default: /admin)
  PANEL_COMPANY_NAME    Name shown in the sidebar
  PANEL_ADMIN_EMAIL     Enables login with PANEL_ADMIN_PASSWORD
  PANEL_ACTIVITY_DB     SQLite file for the activity log (default: panel.db)`,
		RunE: runServe,
	}
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")

	resourcesCmd := &cobra.Command{
		Use:   "resources",
		Short: "List the resources the admin would serve",
		RunE:  runResources,
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo database with users and posts",
		Long: `Create a SQLite database with demo users and posts.

AI-Powered Generation:
  Set OPENAI_API_KEY to use AI for generating realistic records.
  Falls back to static test data if no API key is provided.

Note: Seed is not idempotent. Use --reset to clear data before reseeding.`,
		RunE: runSeed,
	}
	seedCmd.Flags().StringVarP(&seedDBPath, "db", "d", "demo.db", "Database path")
	seedCmd.Flags().IntVar(&seedUsers, "users", 12, "Number of users")
	seedCmd.Flags().IntVar(&seedPosts, "posts", 20, "Number of posts")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "Delete the database before seeding")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "panel %s\n", admin.Version)
		},
	}

	rootCmd.AddCommand(serveCmd, resourcesCmd, seedCmd, versionCmd)
	return rootCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	f, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	if port != "" {
		f.Port = port
	}

	srv, closer, err := newServer(f)
	if err != nil {
		return err
	}
	defer closer()

	addr := ":" + f.Port
	log.Printf("Panel server listening on %s", addr)
	log.Printf("Activity log: %s", f.ActivityDB)
	return http.ListenAndServe(addr, srv)
}

// newServer builds the HTTP handler. The closer releases the activity store
// and every configured database.
func newServer(f *config.File) (http.Handler, func() error, error) {
	opts, closeDBs, err := f.Options()
	if err != nil {
		return nil, nil, err
	}

	a, err := admin.New(opts)
	if err != nil {
		closeDBs()
		return nil, nil, fmt.Errorf("failed to build admin: %w", err)
	}

	activityPath, err := config.ValidateDBPath(f.ActivityDB)
	if err != nil {
		closeDBs()
		return nil, nil, err
	}
	s, err := store.New(activityPath)
	if err != nil {
		closeDBs()
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	closer := func() error {
		return errors.Join(s.Close(), closeDBs())
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	// Favicon
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if home := a.Path(); home != "/" {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, home, http.StatusFound)
		})
	}

	guard := f.Guard(a.Options().LoginPath)
	ui.NewHandlers(a, guard, s).RegisterRoutes(r)

	log.Printf("Serving %d resources at %s", len(a.Resources()), a.Path())
	return r, closer, nil
}

func runResources(cmd *cobra.Command, args []string) error {
	f, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	opts, closeDBs, err := f.Options()
	if err != nil {
		return err
	}
	defer closeDBs()

	a, err := admin.New(opts)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDATABASE\tTYPE\tPATH")
	for _, r := range a.Resources() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID(), core.OptionsOf(r).Name, r.DatabaseName(), r.DatabaseType(), a.ResourcePath(r.ID()))
	}
	return tw.Flush()
}

func runSeed(cmd *cobra.Command, args []string) error {
	path, err := config.ValidateDBPath(seedDBPath)
	if err != nil {
		return err
	}

	sum, err := seedDatabase(cmd.Context(), path, seedUsers, seedPosts, seedReset)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			log.Println("Note: Database already contains seed data. Use 'panel seed --reset' to clear and reseed.")
		}
		return err
	}

	log.Printf("Seeding complete! Created %d users and %d posts in %s", sum.Users, sum.Posts, path)
	return nil
}

func seedDatabase(ctx context.Context, path string, users, posts int, reset bool) (seed.Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if reset {
		// Remove existing database - ignore if file doesn't exist
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return seed.Summary{}, fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return seed.Summary{}, err
	}
	defer db.Close()

	data, err := seed.NewGenerator().Generate(ctx, users, posts)
	if err != nil {
		return seed.Summary{}, err
	}
	return seed.Apply(ctx, db, data)
}
