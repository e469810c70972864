package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sidesearch/internal/assistant"
	"sidesearch/internal/events"
	"sidesearch/internal/models"
	"sidesearch/internal/services"
	"sidesearch/internal/utils"
)

var (
	version = "0.1.0"
	dbPath  string
	verbose bool
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	app := NewApp(log)

	rootCmd := &cobra.Command{
		Use:   "sidesearch",
		Short: "Sidesearch - hand your query to a search engine, a local model, or Gemini",
		Long: `Sidesearch activates your current assistant and routes a query to it:
a URL template (search engine or AI assistant site), a model running on
this machine, or the Gemini API with Google Search grounding.

Run it bare to activate the current assistant interactively.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				events.EnableLogEmitter(log)
			} else {
				zerolog.SetGlobalLevel(zerolog.WarnLevel)
			}
			_ = utils.LoadEnv()
			return app.Startup(cmd.Context(), dbPath)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Shutdown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActivate(cmd.Context(), app)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: platform config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sidesearch v%s\n", version)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "activate",
		Short: "Activate the current assistant (same as running with no command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActivate(cmd.Context(), app)
		},
	})
	rootCmd.AddCommand(askCmd(app))
	rootCmd.AddCommand(assistantCmd(app))
	rootCmd.AddCommand(enginesCmd(app))
	rootCmd.AddCommand(modelsCmd(app))
	rootCmd.AddCommand(settingsCmd(app))
	rootCmd.AddCommand(keyCmd(app))
	rootCmd.AddCommand(historyCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// printHooks renders session traffic to stdout.
func printHooks(dismissed *bool) assistant.Hooks {
	return assistant.Hooks{
		OnMessage: func(msg models.AssistantMessage) {
			fmt.Printf("%s: %s\n", msg.From.DisplayName(), msg.Content)
			for _, src := range msg.Sources {
				fmt.Printf("  [%s] %s\n", src.Title, src.URL)
			}
		},
		OnNavigate: func(action assistant.OpenAction) {
			fmt.Printf("opening %s\n", action.URL)
			if err := browser.OpenURL(action.URL.String()); err != nil {
				fmt.Fprintf(os.Stderr, "could not open destination: %v\n", err)
			}
		},
		OnDismiss: func() {
			if dismissed != nil {
				*dismissed = true
			}
		},
	}
}

// runActivate is the bare-invocation flow: a literal URL opens right away,
// anything else becomes an interactive prompt loop.
func runActivate(ctx context.Context, app *App) error {
	var dismissed bool
	activation, err := app.Activate(ctx, nil, printHooks(&dismissed))
	if err != nil {
		return err
	}

	if activation.Open != nil {
		fmt.Printf("opening %s\n", activation.Open.URL)
		return browser.OpenURL(activation.Open.URL.String())
	}

	session := activation.Session
	fmt.Printf("assistant: %s (empty line to quit)\n", session.BackendType())
	scanner := bufio.NewScanner(os.Stdin)
	for !dismissed {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		session.Submit(ctx, line)
	}
	if err := app.SaveHistory(session); err != nil {
		fmt.Fprintf(os.Stderr, "could not save history: %v\n", err)
	}
	return scanner.Err()
}

func askCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <query>",
		Short: "Send one query to the current assistant and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			session, err := app.Selector.NewSession(cmd.Context(), nil, printHooks(nil))
			if err != nil {
				return err
			}
			session.Submit(cmd.Context(), query)
			return app.SaveHistory(session)
		},
	}
}

func assistantCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assistant",
		Short: "Show or change the current assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			current := app.Selector.Current(cmd.Context())
			for _, b := range app.Selector.Registry().All() {
				marker := " "
				if b.Type() == current.Type() {
					marker = "*"
				}
				status := "ready"
				switch {
				case b.IsBlocked():
					status = "blocked in your region"
				case !b.IsAvailable(cmd.Context()):
					status = "unavailable"
				case !b.IsValidSettings(cmd.Context()):
					status = "needs configuration"
				}
				fmt.Printf("%s %-12s %-16s %s\n", marker, b.Type(), b.Name(), status)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "use <type>",
		Short: "Select the assistant to activate (urlBased, localModel, geminiAPI)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := assistant.ParseType(args[0])
			if !ok {
				return fmt.Errorf("unknown assistant type %q", args[0])
			}
			return app.Selector.SetCurrent(cmd.Context(), t)
		},
	})
	return cmd
}

func enginesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "engines",
		Short: "Manage the URL-based assistant's search engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := app.URLBackend.Load(cmd.Context())
			fmt.Printf("current: %s\n", engine.Name)
			fmt.Printf("  url:     %s\n", engine.URL)
			fmt.Printf("  open in: %s\n", engine.OpenIn)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the preset engines visible in your region",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("AI assistants:")
			for _, p := range app.Presets.AIAssistants() {
				fmt.Printf("  %-20s %s\n", p.Name, p.URL)
			}
			fmt.Println("Search engines:")
			for _, p := range app.Presets.SearchEngines() {
				fmt.Printf("  %-20s %s\n", p.Name, p.URL)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "use <name>",
		Short: "Switch to a preset engine by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			for _, p := range append(app.Presets.AIAssistants(), app.Presets.SearchEngines()...) {
				if strings.EqualFold(p.Name, name) {
					engine := app.URLBackend.Load(cmd.Context())
					engine.Name = p.Name
					engine.URL = p.URL
					return app.URLBackend.Save(cmd.Context(), engine)
				}
			}
			return fmt.Errorf("no preset named %q", name)
		},
	})
	setURL := &cobra.Command{
		Use:   "set-url <name> <template>",
		Short: "Configure a custom URL template (%s is replaced by the query)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := app.URLBackend.Load(cmd.Context())
			engine.Name = args[0]
			engine.URL = args[1]
			if err := app.URLBackend.Save(cmd.Context(), engine); err != nil {
				return err
			}
			if !app.URLBackend.IsValidSettings(cmd.Context()) {
				fmt.Fprintln(os.Stderr, "warning: template does not resolve to a valid URL")
			}
			return nil
		},
	}
	cmd.AddCommand(setURL)
	return cmd
}

func modelsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage the Gemini model catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := app.Gemini.Load(cmd.Context())
			fmt.Printf("selected: %s\n", settings.Model)
			for _, m := range app.Catalog.Models() {
				fmt.Printf("  %s\n", m)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Fetch the generation-capable models from the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := app.Catalog.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range names {
				fmt.Println(m)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "use <model>",
		Short: "Select the Gemini model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := app.Gemini.Load(cmd.Context())
			settings.Model = args[0]
			return app.Gemini.Save(cmd.Context(), settings)
		},
	})
	return cmd
}

func settingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change global preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.AppSettings.Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("open-in:                 %s\n", s.OpenIn)
			fmt.Printf("auto-submit-on-silence:  %v\n", s.AutoSubmitOnSilence)
			fmt.Printf("silence-duration:        %.1fs\n", s.SilenceDuration)
			fmt.Printf("start-with-mic-muted:    %v\n", s.StartWithMicMuted)
			fmt.Printf("manually-confirm-speech: %v\n", s.ManuallyConfirmSpeech)
			fmt.Printf("render-markdown:         %v\n", s.RenderMarkdown)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			_, err := app.AppSettings.Update(cmd.Context(), func(s *models.AppSettings) {
				switch key {
				case "open-in":
					s.OpenIn = string(models.ParseOpenInOption(value))
				case "auto-submit-on-silence":
					s.AutoSubmitOnSilence = value == "true"
				case "silence-duration":
					if d, err := strconv.ParseFloat(value, 64); err == nil {
						s.SilenceDuration = d
					}
				case "start-with-mic-muted":
					s.StartWithMicMuted = value == "true"
				case "manually-confirm-speech":
					s.ManuallyConfirmSpeech = value == "true"
				case "render-markdown":
					s.RenderMarkdown = value == "true"
				case "speech-locale":
					s.SpeechLocale = value
				}
			})
			return err
		},
	})
	return cmd
}

func keyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the Gemini API key in the system keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Keyring.HasAPIKey(services.GeminiKeyAccount) {
				fmt.Println("an API key is stored")
			} else {
				fmt.Println("no API key stored")
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Store the API key (read from stdin, never from arguments)",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(os.Stderr, "paste API key: ")
			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() {
				return fmt.Errorf("no key provided")
			}
			key := strings.TrimSpace(scanner.Text())
			if key == "" {
				return fmt.Errorf("no key provided")
			}
			return app.Keyring.StoreAPIKey(services.GeminiKeyAccount, key)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the stored API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Keyring.DeleteAPIKey(services.GeminiKeyAccount)
		},
	})
	return cmd
}

func historyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.History.ListRecent(0)
			if err != nil {
				return err
			}
			for _, h := range entries {
				msgs := h.Messages()
				title := ""
				if len(msgs) > 0 {
					title = msgs[0].Content
				}
				fmt.Printf("%4d  %s  %-12s %s\n", h.ID, h.CreatedAt.Format("2006-01-02 15:04"), h.AssistantType, title)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all saved conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.History.DeleteAll()
		},
	})
	return cmd
}
