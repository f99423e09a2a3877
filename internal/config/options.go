// ABOUTME: Turns a loaded config into admin options and an auth guard.
// ABOUTME: Opens every configured SQLite database and hands back a closer.

package config

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/2389/panel/adapters/core"
	"github.com/2389/panel/adapters/sqlite"
	"github.com/2389/panel/admin"
	"github.com/2389/panel/internal/auth"
	_ "github.com/mattn/go-sqlite3"
)

// Options opens the configured databases and builds admin options from them.
// The returned closer releases every connection, even after a partial failure.
func (f *File) Options() (admin.Options, func() error, error) {
	opts := admin.Options{
		RootPath: f.RootPath,
		Branding: admin.Branding{
			Logo:            f.Branding.Logo,
			CompanyName:     f.Branding.CompanyName,
			ShowVendorBadge: f.Branding.ShowVendorBadge,
		},
		Assets: admin.Assets{
			Styles:  f.Assets.Styles,
			Scripts: f.Assets.Scripts,
		},
	}
	if opts.RootPath != "" {
		root := strings.TrimSuffix(opts.RootPath, "/")
		opts.LoginPath = root + "/login"
		opts.LogoutPath = root + "/logout"
	}

	var dbs []*sql.DB
	closeAll := func() error {
		var errs []error
		for _, db := range dbs {
			errs = append(errs, db.Close())
		}
		return errors.Join(errs...)
	}

	handles := make(map[string]*sql.DB, len(f.Databases))
	for _, d := range f.Databases {
		path, err := ValidateDBPath(d.Path)
		if err != nil {
			closeAll()
			return admin.Options{}, nil, fmt.Errorf("database %s: %w", d.Name, err)
		}

		db, err := sql.Open("sqlite3", path)
		if err != nil {
			closeAll()
			return admin.Options{}, nil, fmt.Errorf("failed to open database %s: %w", d.Name, err)
		}
		dbs = append(dbs, db)
		if err := db.Ping(); err != nil {
			closeAll()
			return admin.Options{}, nil, fmt.Errorf("failed to open database %s: %w", d.Name, err)
		}
		handles[d.Name] = db

		if len(d.Tables) == 0 {
			opts.Databases = append(opts.Databases, sqlite.Database{Name: d.Name, DB: db})
			continue
		}
		for _, table := range d.Tables {
			opts.Resources = append(opts.Resources, core.ResourceSpec{
				Handle: sqlite.Table{Database: d.Name, DB: db, Name: table},
			})
		}
	}

	for _, r := range f.Resources {
		db, ok := handles[r.Database]
		if !ok {
			closeAll()
			return admin.Options{}, nil, fmt.Errorf("resource %s: unknown database %q", r.Table, r.Database)
		}
		opts.Resources = append(opts.Resources, core.ResourceSpec{
			Handle:  sqlite.Table{Database: r.Database, DB: db, Name: r.Table},
			Options: r.options(),
		})
	}

	return opts, closeAll, nil
}

func (r Resource) options() *core.ResourceOptions {
	opts := &core.ResourceOptions{
		Name:           r.Name,
		ListProperties: r.ListProperties,
		EditProperties: r.EditProperties,
		ShowProperties: r.ShowProperties,
	}
	if r.Parent != "" {
		opts.Parent = &core.Parent{Name: r.Parent, Icon: r.ParentIcon}
	}
	if len(r.DisabledActions) > 0 {
		opts.Actions = make(map[string]core.ActionOptions, len(r.DisabledActions))
		for _, name := range r.DisabledActions {
			off := false
			opts.Actions[name] = core.ActionOptions{Enabled: &off}
		}
	}
	return opts
}

// Guard returns the login guard, or nil when no admin account is configured
func (f *File) Guard(loginPath string) *auth.Guard {
	if f.Admin.Email == "" {
		return nil
	}
	return &auth.Guard{
		Credentials: &auth.Credentials{Email: f.Admin.Email, Password: f.Admin.Password},
		Sessions:    auth.NewSessions(auth.DefaultTTL),
		LoginPath:   loginPath,
	}
}
