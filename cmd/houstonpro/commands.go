// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"houstonpro/internal/cache"
	"houstonpro/internal/catalog"
	"houstonpro/internal/database"
	"houstonpro/internal/models"
	"houstonpro/internal/store"
	"houstonpro/internal/theme"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and sync categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		return database.Migrate(db)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo contractors into an empty database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			return err
		}
		return database.Seed(db)
	},
}

// themeFlags holds the override values of the theme command.
var themeFlags struct {
	primary, secondary, accent string
	font, layout, style        string
	tagline, cta               string
}

var themeCmd = &cobra.Command{
	Use:   "theme <category>",
	Short: "Print the resolved profile theme for a trade category",
	Long: `Resolves the profile theme for a trade category and prints the CSS
custom properties injected on the profile wrapper. Flags act as a saved
template override; with no flags the trade defaults are shown.

Example:
  houstonpro theme electrical --primary "#ff0000" --style bold`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var o *models.TemplateOverride
		if cmd.Flags().NFlag() > 0 {
			o = themeOverride()
			if err := theme.ValidateOverride(o); err != nil {
				return err
			}
			theme.Normalize(o)
		}
		if _, ok := catalog.CategoryBySlug(args[0]); !ok {
			slog.Warn("unknown category, using site defaults", "category", args[0])
		}
		return printTheme(cmd.OutOrStdout(), args[0], o)
	},
}

func init() {
	f := themeCmd.Flags()
	f.StringVar(&themeFlags.primary, "primary", "", "primary colour (#rrggbb)")
	f.StringVar(&themeFlags.secondary, "secondary", "", "secondary colour (#rrggbb)")
	f.StringVar(&themeFlags.accent, "accent", "", "accent colour (#rrggbb)")
	f.StringVar(&themeFlags.font, "font", "", "font family")
	f.StringVar(&themeFlags.layout, "layout", "", "hero layout (full-width, split, minimal)")
	f.StringVar(&themeFlags.style, "style", "", "template style (modern, classic, bold, minimal)")
	f.StringVar(&themeFlags.tagline, "tagline", "", "custom hero tagline")
	f.StringVar(&themeFlags.cta, "cta", "", "call-to-action button text")
}

// themeOverride builds an override from the theme flags. Sections stay
// visible, as in a freshly saved override.
func themeOverride() *models.TemplateOverride {
	o := &models.TemplateOverride{
		Style:            models.TemplateStyle(themeFlags.style),
		FontFamily:       models.FontFamily(themeFlags.font),
		HeroLayout:       models.HeroLayout(themeFlags.layout),
		ShowTestimonials: true,
		ShowServiceAreas: true,
		ShowCredentials:  true,
		CustomCTAText:    themeFlags.cta,
	}
	for _, v := range []struct {
		dst **string
		src string
	}{
		{&o.PrimaryColor, themeFlags.primary},
		{&o.SecondaryColor, themeFlags.secondary},
		{&o.AccentColor, themeFlags.accent},
		{&o.CustomTagline, themeFlags.tagline},
	} {
		if v.src != "" {
			s := v.src
			*v.dst = &s
		}
	}
	return o
}

// printTheme writes the resolved theme for a category as CSS.
func printTheme(w io.Writer, category string, o *models.TemplateOverride) error {
	t := theme.Resolve(category, o)

	if trade, ok := catalog.Trade(category); ok {
		fmt.Fprintf(w, "/* %s */\n", trade.Name)
	}
	fmt.Fprintf(w, ".%s {\n", classSelector(t.WrapperClass(models.TierPremium)))
	for _, d := range t.Declarations() {
		fmt.Fprintf(w, "  %s: %s;\n", d.Property, d.Value)
	}
	fmt.Fprintln(w, "}")
	fmt.Fprintf(w, "/* hero: %s, cta: %q", t.HeroLayout, t.CTAText)
	if t.Tagline != "" {
		fmt.Fprintf(w, ", tagline: %q", t.Tagline)
	}
	_, err := fmt.Fprintln(w, " */")
	return err
}

// classSelector turns a space-separated class list into a compound selector.
func classSelector(classes string) string {
	out := []byte(classes)
	for i, b := range out {
		if b == ' ' {
			out[i] = '.'
		}
	}
	return string(out)
}

var tierCmd = &cobra.Command{
	Use:   "tier <slug> <free|premium>",
	Short: "Change a contractor's access tier",
	Long: `Sets the access tier of a contractor. Only premium contractors may save
template customisations; a downgraded contractor keeps the saved design.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug, tier := args[0], models.Tier(args[1])
		if !tier.Valid() {
			return fmt.Errorf("unknown tier %q (want free or premium)", args[1])
		}

		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		if err := store.NewContractorStore(db).SetTier(slug, tier); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no contractor with slug %q", slug)
			}
			return err
		}

		// The tier shows on the profile page; a stale cached copy expires
		// on its own if Valkey is unreachable.
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("profile cache not invalidated", "error", err, "slug", slug)
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			cache.NewPageCache(client, 0).Invalidate(ctx, slug)
			cancel()
			client.Close()
		}

		slog.Info("tier changed", "slug", slug, "tier", tier)
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", slug, tier)
		return nil
	},
}

// Same bounds as the registration form.
const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

var passwordCmd = &cobra.Command{
	Use:   "password <email>",
	Short: "Set a new password for an account",
	Long: `Replaces the password of the account registered under email. The new
password is read from the first line of standard input, so it stays out of
shell history:

  printf '%s\n' "$NEW_PASSWORD" | houstonpro password owner@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd.InOrStdin())
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		users := store.NewUserStore(db)
		u, err := users.FindByEmail(args[0])
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("no account for %q", args[0])
		}
		if err := users.SetPassword(u.ID, password); err != nil {
			return err
		}

		slog.Info("password changed", "user_id", u.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", u.Email)
		return nil
	},
}

// readPassword takes the first line of r, without its line ending.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	switch {
	case utf8.RuneCountInString(password) < minPasswordLen:
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	case len(password) > maxPasswordLen:
		return "", fmt.Errorf("password is too long (max %d bytes)", maxPasswordLen)
	}
	return password, nil
}
