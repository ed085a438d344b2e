package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Littie6amer/discord-bot-owners/cmd/bot/monitoring"
	"github.com/Littie6amer/discord-bot-owners/pkg/logging"
	"github.com/Littie6amer/discord-bot-owners/pkg/request"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// commandController resolves an interaction into the processor that handles
// it, running any shared preconditions (such as permission checks) first.
type commandController func(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error)

// commandProcessor handles a single interaction.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(a IApp, handler Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage("Internal server error")); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path // If the route does not define a path, use the URL path.
			}
		} else {
			path = r.URL.Path // If the route is nil, use the URL path.
		}

		defer func() {
			// Run the deferred function after the request has been handled, as the status code will not be available until then.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler dispatches every inbound interaction to the registered
// controllers: slash commands and autocompletes by command name, components
// and modals by the part of their custom ID before the first colon.
func interactionHandler(
	a IApp,
	slashControllers map[string]commandController,
	componentControllers map[string]commandProcessor,
	modalControllers map[string]commandProcessor,
	autocompleteControllers map[string]commandProcessor,
) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			name := i.ApplicationCommandData().Name
			controller, ok := slashControllers[name]
			if !ok {
				a.Log().Error("No controller found for command", slog.String("command", name))
				respondInteractionError(a, i)
				return
			}
			handleInteraction(a, i, name, func(a IApp, i *discordgo.InteractionCreate) error {
				processor, err := controller(a, i)
				if err != nil {
					return err
				} else if processor == nil {
					// The controller fully handled the interaction.
					return nil
				}
				return processor(a, i)
			})

		case discordgo.InteractionMessageComponent:
			key := customIDKey(i.MessageComponentData().CustomID)
			processor, ok := componentControllers[key]
			if !ok {
				a.Log().Error("No controller found for component", slog.String("custom_id", key))
				respondInteractionError(a, i)
				return
			}
			handleInteraction(a, i, key, processor)

		case discordgo.InteractionModalSubmit:
			key := customIDKey(i.ModalSubmitData().CustomID)
			processor, ok := modalControllers[key]
			if !ok {
				a.Log().Error("No controller found for modal", slog.String("custom_id", key))
				respondInteractionError(a, i)
				return
			}
			handleInteraction(a, i, key, processor)

		case discordgo.InteractionApplicationCommandAutocomplete:
			name := i.ApplicationCommandData().Name
			processor, ok := autocompleteControllers[name]
			if !ok {
				// Nothing to complete; discord handles the empty response.
				return
			}
			handleInteraction(a, i, name+"_autocomplete", processor)
		}
	}
}

func handleInteraction(a IApp, i *discordgo.InteractionCreate, name string, processor commandProcessor) {
	t := prometheus.NewTimer(monitoring.DiscordInteractionDuration.WithLabelValues(name))
	defer t.ObserveDuration()

	if err := processor(a, i); err != nil {
		a.Log().Error(fmt.Sprintf("Error processing interaction %s", name),
			slog.String(logging.KeyError, err.Error()))
		respondInteractionError(a, i)
	}
}

func respondInteractionError(a IApp, i *discordgo.InteractionCreate) {
	if err := respondEphemeral(a, i, "Something went wrong while processing that. Please try again."); err != nil {
		a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}
}

func customIDKey(customID string) string {
	key, _, _ := strings.Cut(customID, ":")
	return key
}
