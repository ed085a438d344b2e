package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Littie6amer/discord-bot-owners/cmd/bot/config"
	"github.com/Littie6amer/discord-bot-owners/cmd/bot/monitoring"
	"github.com/Littie6amer/discord-bot-owners/pkg/dataaccess"
	"github.com/Littie6amer/discord-bot-owners/pkg/logging"
	"github.com/Littie6amer/discord-bot-owners/pkg/request"
	"github.com/Littie6amer/discord-bot-owners/pkg/ticketing"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the application logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// GuildDal returns the guild data access layer.
	GuildDal() dataaccess.GuildDal

	// Tickets returns the ticket lifecycle manager.
	Tickets() *ticketing.Manager

	// Skills returns the skill manager.
	Skills() *ticketing.SkillManager

	// OpenLimiter returns the ticket-open rate limiter for a user.
	OpenLimiter(userID string) *rate.Limiter
}

type App struct {
	// l is the logger.
	l *slog.Logger

	// r is the router for the monitoring server.
	r *mux.Router

	// svr is the monitoring server.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// gd is the guild data access layer.
	gd dataaccess.GuildDal

	// tickets is the ticket lifecycle manager.
	tickets *ticketing.Manager

	// skills is the skill manager.
	skills *ticketing.SkillManager

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	// limitersMtx guards limiters.
	limitersMtx sync.Mutex

	// limiters holds the per-user ticket-open rate limiters.
	limiters map[string]*rate.Limiter
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		l:        l,
		r:        r,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (a *App) Run() error {
	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.gd = dataaccess.NewGuildDal(a.l)
	platform := newDiscordPlatform(a.l, a.s)
	a.tickets = ticketing.NewManager(a.l, a.gd, platform)
	a.skills = ticketing.NewSkillManager(a.l, a.gd, platform)

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.l.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))

		// Re-register the persistent panel messages now that the session is up.
		go reattachPanels(a)
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	// Register slash commands.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	a.l.Info("Bot is now running.")

	a.generateServer()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	// Process shutdown signal.
	for sig := range c {
		a.l.Info("Received shutdown signal", slog.String("signal", sig.String()))
		if err := a.ShutdownHook(); err != nil {
			a.l.Error("Error shutting down application", slog.String(logging.KeyError, err.Error()))
		}
		os.Exit(0)
	}
	return nil
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		return fmt.Errorf("error unregistering slash commands: %w", err)
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}
	return nil
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAll)

	if a.eventNotifier == nil {
		// Create event notifier. This is used to count events. It is buffered to prevent blocking.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	// Start event listener.
	go a.eventListener()

	a.s = dg
	return nil
}

func (a *App) runServer() {
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a, a.healthCheck())).Methods(http.MethodGet)

	a.r.NotFoundHandler = request.NotFoundHandler(a.l)
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.l)

	go func() {
		a.l.Info("Starting monitoring server")
		if err := a.svr.ListenAndServe(); err != nil {
			a.l.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.l.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:    ":" + config.MonitoringPort,
		Handler: a.r,
	}
}

func (a *App) GetJoinedGuilds() ([]*discordgo.UserGuild, error) {
	guilds, err := a.s.UserGuilds(0, "", "")
	if err != nil {
		return nil, fmt.Errorf("error getting guilds: %w", err)
	}
	return guilds, nil
}

func (a *App) RegisterDiscordHandlers() error {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Slash Controllers
		map[string]commandController{
			setupCmd.Name: setupCmdController,
			closeCmd.Name: closeCmdController,
			skillCmd.Name: skillCmdController,
		},
		// Component Controllers (buttons and select menus, keyed by custom ID prefix)
		map[string]commandProcessor{
			PanelSkillButtonID:   skillEvalButtonHandler,
			PanelSupportButtonID: supportButtonHandler,
			CategorySelectID:     categorySelectHandler,
		},
		// Modal Controllers (keyed by custom ID prefix)
		map[string]commandProcessor{
			StarsModalID: starsModalHandler,
		},
		// Autocomplete Controllers (keyed by command name)
		map[string]commandProcessor{
			skillCmd.Name: skillAutocompleteHandler,
		}))
	return nil
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.l.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

func (a *App) registerSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Register slash commands for each guild.
	for _, g := range guilds {
		for _, cmd := range slashCommands() {
			created, err := a.Session().ApplicationCommandCreate(config.ApplicationId, g.ID, cmd)
			if err != nil {
				return fmt.Errorf("error creating %s command for guild %s: %w", cmd.Name, g.ID, err)
			}
			cmd.ID = created.ID
		}
	}
	return nil
}

func (a *App) unregisterSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Delete slash commands for each guild.
	for _, guild := range guilds {
		for _, cmd := range slashCommands() {
			if err := a.s.ApplicationCommandDelete(config.ApplicationId, guild.ID, cmd.ID); err != nil {
				return fmt.Errorf("error deleting %s command for guild %s: %w", cmd.Name, guild.ID, err)
			}
		}
	}
	return nil
}

// slashCommands is the set of commands registered per guild.
func slashCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{setupCmd, closeCmd, skillCmd}
}

func (a *App) Log() *slog.Logger {
	return a.l
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) GuildDal() dataaccess.GuildDal {
	return a.gd
}

func (a *App) Tickets() *ticketing.Manager {
	return a.tickets
}

func (a *App) Skills() *ticketing.SkillManager {
	return a.skills
}

// OpenLimiter returns the ticket-open rate limiter for a user, creating it on
// first use. One open every 30 seconds sustained, bursting to 2.
func (a *App) OpenLimiter(userID string) *rate.Limiter {
	a.limitersMtx.Lock()
	defer a.limitersMtx.Unlock()

	l, ok := a.limiters[userID]
	if !ok {
		l = rate.NewLimiter(rate.Limit(1.0/30.0), 2)
		a.limiters[userID] = l
	}
	return l
}
