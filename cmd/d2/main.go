package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"destiny2-go/internal/app"
	"destiny2-go/internal/config"
	"destiny2-go/internal/d2"
	"destiny2-go/internal/manifest"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a D2App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Profile", "UpdateManifest").
func newApp(operation string) (*app.D2App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	app.ApplyEnv(cfg)

	a, err := app.NewD2App(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// withApp runs fn against a fresh app and records its outcome on the operation.
func withApp(operation string, fn func(a *app.D2App) error) error {
	a, err := newApp(operation)
	if err != nil {
		return err
	}
	defer a.Close()

	err = fn(a)
	a.Fail(err)
	return err
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// promptToken reads the access token from the terminal without echo.
func promptToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "Access token: ")
	token, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(token), nil
}

func accessToken(cmd *cobra.Command) (string, error) {
	flag, _ := cmd.Flags().GetString("token")
	return app.ResolveAccessToken(flag, promptToken)
}

func parseID(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return id, nil
}

func parseHashes(args []string) ([]d2.Hash, error) {
	hashes := make([]d2.Hash, len(args))
	for i, s := range args {
		h, err := d2.ParseHash(s)
		if err != nil {
			return nil, fmt.Errorf("invalid hash %q: %w", s, err)
		}
		hashes[i] = h
	}
	return hashes, nil
}

func parseComponents(names []string) ([]d2.ComponentType, error) {
	components := make([]d2.ComponentType, len(names))
	for i, name := range names {
		c, err := d2.ParseComponentType(name)
		if err != nil {
			return nil, err
		}
		components[i] = c
	}
	return components, nil
}

var rootCmd = &cobra.Command{
	Use:          "d2",
	Short:        "Destiny 2 platform client and manifest lookup",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if key, _ := cmd.Flags().GetString("api-key"); key != "" {
			cfg.API.APIKey = key
		}

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		fmt.Printf("Manifest: %s\n", cfg.Manifest.DBPath)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		apiKey := "(not set)"
		if cfg.API.APIKey != "" {
			apiKey = "(set)"
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("API URL:   %s\n", cfg.API.BaseURL)
		fmt.Printf("API Key:   %s\n", apiKey)
		fmt.Printf("Timeout:   %ds\n", cfg.API.TimeoutSeconds)
		fmt.Printf("Manifest:  %s\n", cfg.Manifest.DBPath)
		fmt.Printf("Locale:    %s\n", cfg.Manifest.Locale)
		if err := cfg.Validate(); err != nil {
			fmt.Printf("\n%v\n", err)
		}
		return nil
	},
}

// manifest command
var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Manage the local manifest database",
}

var manifestInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the installed manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ManifestInfo", func(a *app.D2App) error {
			status, err := a.ManifestStatus()
			if err != nil {
				return err
			}
			if !status.Installed {
				fmt.Printf("No manifest installed at %s\n", status.Path)
				return nil
			}
			version := status.Version
			if version == "" {
				version = "(unknown)"
			}
			fmt.Printf("Path:    %s\n", status.Path)
			fmt.Printf("Version: %s\n", version)
			fmt.Printf("Size:    %d\n", status.Size)
			fmt.Printf("Updated: %s\n", status.ModTime.Format("2006-01-02 15:04:05"))
			return nil
		})
	},
}

var manifestUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Download the current manifest database",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return withApp("UpdateManifest", func(a *app.D2App) error {
			update, err := a.UpdateManifest(context.Background(), force)
			if err != nil {
				return err
			}
			if update.Skipped {
				fmt.Printf("Manifest %s is current\n", update.Version)
				return nil
			}
			fmt.Printf("Installed manifest %s (%d bytes)\n", update.Version, update.Bytes)
			return nil
		})
	},
}

var manifestTablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List manifest tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ManifestTables", func(a *app.D2App) error {
			tables, err := a.Tables(context.Background())
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Println(t)
			}
			return nil
		})
	},
}

// lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup KIND HASH...",
	Short: "Look up typed definitions",
	Long:  "Look up typed definitions. KIND is one of the registered definition kinds (class, item, plug, bucket, category, socket-type, socket-category, stat).",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := manifest.TableForKind(args[0]); !ok {
			return fmt.Errorf("unknown kind %q (want one of %s)", args[0], strings.Join(manifest.KindNames(), ", "))
		}
		hashes, err := parseHashes(args[1:])
		if err != nil {
			return err
		}
		return withApp("Lookup", func(a *app.D2App) error {
			defs, err := a.LookupAll(context.Background(), args[0], hashes)
			if err != nil {
				return err
			}
			if len(defs) == 1 {
				return printJSON(defs[0])
			}
			return printJSON(defs)
		})
	},
}

// json command
var jsonCmd = &cobra.Command{
	Use:   "json TABLE HASH...",
	Short: "Print stored definition JSON from any table",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		hashes, err := parseHashes(args[1:])
		if err != nil {
			return err
		}
		return withApp("RawJSON", func(a *app.D2App) error {
			docs, err := a.RawJSON(context.Background(), args[0], hashes)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				fmt.Fprintln(os.Stderr, "No definitions found.")
			}
			for _, doc := range docs {
				fmt.Println(doc)
			}
			return nil
		})
	},
}

// items-in-category command
var itemsInCategoryCmd = &cobra.Command{
	Use:   "items-in-category HASH",
	Short: "List items in an item category (scans the item table)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := d2.ParseHash(args[0])
		if err != nil {
			return fmt.Errorf("invalid hash %q: %w", args[0], err)
		}
		return withApp("ItemsInCategory", func(a *app.D2App) error {
			items, err := a.ItemsInCategory(context.Background(), hash)
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Printf("%-10d  %-24s  %s\n", item.Hash, item.ItemTypeDisplayName, item.DisplayProperties.Name)
			}
			return nil
		})
	},
}

// profile command
var profileCmd = &cobra.Command{
	Use:   "profile TYPE ID",
	Short: "Fetch profile components",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		membershipType, err := d2.ParseMembershipType(args[0])
		if err != nil {
			return err
		}
		id, err := parseID("membership id", args[1])
		if err != nil {
			return err
		}
		names, _ := cmd.Flags().GetStringSlice("component")
		components, err := parseComponents(names)
		if err != nil {
			return err
		}
		token, err := accessToken(cmd)
		if err != nil {
			return err
		}

		return withApp("Profile", func(a *app.D2App) error {
			resp, err := a.API().GetProfile(context.Background(), token, membershipType, id, components...)
			if err != nil {
				return err
			}
			return printJSON(resp)
		})
	},
}

// linked command
var linkedCmd = &cobra.Command{
	Use:   "linked TYPE ID",
	Short: "List profiles linked to a membership",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		membershipType, err := d2.ParseMembershipType(args[0])
		if err != nil {
			return err
		}
		id, err := parseID("membership id", args[1])
		if err != nil {
			return err
		}
		token, err := accessToken(cmd)
		if err != nil {
			return err
		}

		return withApp("LinkedProfiles", func(a *app.D2App) error {
			resp, err := a.API().GetLinkedProfiles(context.Background(), token, id, membershipType)
			if err != nil {
				return err
			}
			for _, p := range resp.Profiles {
				fmt.Printf("%-12s  %d  %s\n", p.MembershipType, p.MembershipID, p.DisplayName)
			}
			for _, p := range resp.ProfilesWithErrors {
				fmt.Printf("%-12s  %d  %s  (error %d)\n", p.InfoCard.MembershipType, p.InfoCard.MembershipID, p.InfoCard.DisplayName, p.ErrorCode)
			}
			return nil
		})
	},
}

// character command
var characterCmd = &cobra.Command{
	Use:   "character TYPE ID CHARID",
	Short: "Fetch character components",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		membershipType, err := d2.ParseMembershipType(args[0])
		if err != nil {
			return err
		}
		id, err := parseID("membership id", args[1])
		if err != nil {
			return err
		}
		characterID, err := parseID("character id", args[2])
		if err != nil {
			return err
		}
		names, _ := cmd.Flags().GetStringSlice("component")
		components, err := parseComponents(names)
		if err != nil {
			return err
		}
		token, err := accessToken(cmd)
		if err != nil {
			return err
		}

		return withApp("Character", func(a *app.D2App) error {
			resp, err := a.API().GetCharacterInfo(context.Background(), token, membershipType, id, characterID, components...)
			if err != nil {
				return err
			}
			return printJSON(resp)
		})
	},
}

// item command
var itemCmd = &cobra.Command{
	Use:   "item TYPE ID ITEMID",
	Short: "Fetch item instance components",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		membershipType, err := d2.ParseMembershipType(args[0])
		if err != nil {
			return err
		}
		id, err := parseID("membership id", args[1])
		if err != nil {
			return err
		}
		itemID, err := parseID("item instance id", args[2])
		if err != nil {
			return err
		}
		names, _ := cmd.Flags().GetStringSlice("component")
		components, err := parseComponents(names)
		if err != nil {
			return err
		}
		token, err := accessToken(cmd)
		if err != nil {
			return err
		}

		return withApp("Item", func(a *app.D2App) error {
			resp, err := a.API().GetItem(context.Background(), token, membershipType, id, itemID, components...)
			if err != nil {
				return err
			}
			return printJSON(resp)
		})
	},
}

// equip command
var equipCmd = &cobra.Command{
	Use:   "equip TYPE CHARID ITEMID...",
	Short: "Equip items on a character",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		membershipType, err := d2.ParseMembershipType(args[0])
		if err != nil {
			return err
		}
		characterID, err := parseID("character id", args[1])
		if err != nil {
			return err
		}
		itemIDs := make([]int64, 0, len(args)-2)
		for _, s := range args[2:] {
			id, err := parseID("item instance id", s)
			if err != nil {
				return err
			}
			itemIDs = append(itemIDs, id)
		}
		token, err := accessToken(cmd)
		if err != nil {
			return err
		}
		if token == "" {
			return errors.New("equipping requires an access token (--token or D2_ACCESS_TOKEN)")
		}

		return withApp("Equip", func(a *app.D2App) error {
			ctx := context.Background()
			if len(itemIDs) == 1 {
				status, err := a.API().EquipItem(ctx, token, membershipType, characterID, itemIDs[0])
				if err != nil {
					return err
				}
				fmt.Printf("%d  status %d\n", itemIDs[0], status)
				return nil
			}

			results, err := a.API().EquipItems(ctx, token, membershipType, characterID, itemIDs)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("%d  status %d\n", r.ItemInstanceID, r.EquipStatus)
			}
			return nil
		})
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("api-key", "", "Platform API key to store in the config")

	// manifest subcommands
	manifestCmd.AddCommand(manifestInfoCmd)
	manifestCmd.AddCommand(manifestUpdateCmd)
	manifestCmd.AddCommand(manifestTablesCmd)
	manifestUpdateCmd.Flags().BoolP("force", "f", false, "Reinstall even if the installed version is current")

	// remote commands share the token flag
	for _, c := range []*cobra.Command{profileCmd, linkedCmd, characterCmd, itemCmd, equipCmd} {
		c.Flags().StringP("token", "t", "", `OAuth access token ("-" to prompt; default $D2_ACCESS_TOKEN)`)
	}
	for _, c := range []*cobra.Command{profileCmd, characterCmd, itemCmd} {
		c.Flags().StringSliceP("component", "c", nil, "Component to request, by name or code (repeatable)")
	}

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(jsonCmd)
	rootCmd.AddCommand(itemsInCategoryCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(linkedCmd)
	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(equipCmd)
}
