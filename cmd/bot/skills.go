package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Littie6amer/discord-bot-owners/pkg/ticketing"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// SkillCmdName is the command for managing skills.
	SkillCmdName = "skill"

	// SkillAddCmdName is the sub command for adding a skill to a user.
	SkillAddCmdName = "add"

	// SkillRemoveCmdName is the sub command for removing a skill from a user.
	SkillRemoveCmdName = "remove"
)

var (
	// skillCmd is the command for managing skill badges.
	skillCmd = &discordgo.ApplicationCommand{
		Name:        SkillCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Manage skills for users.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        SkillAddCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This adds a skill with a star rating to a user.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "user",
						Type:        discordgo.ApplicationCommandOptionUser,
						Description: "This is the user to add the skill to.",
						Required:    true,
					},
					{
						Name:         "skill",
						Type:         discordgo.ApplicationCommandOptionString,
						Description:  "This is the skill category.",
						Required:     true,
						Autocomplete: true,
					},
					{
						Name:        "stars",
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "This is the star rating.",
						Required:    true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "1", Value: "1"},
							{Name: "2", Value: "2"},
							{Name: "3", Value: "3"},
						},
					},
				},
			},
			{
				Name:        SkillRemoveCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This removes a skill from a user.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "user",
						Type:        discordgo.ApplicationCommandOptionUser,
						Description: "This is the user to remove the skill from.",
						Required:    true,
					},
					{
						Name:         "skill",
						Type:         discordgo.ApplicationCommandOptionString,
						Description:  "This is the skill category.",
						Required:     true,
						Autocomplete: true,
					},
				},
			},
		},
	}
)

func skillCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	// Ensure the user is an administrator.
	if !isAdmin(i.Member) {
		if err := respondEphemeral(a, i, "You must be an administrator to use this command"); err != nil {
			return nil, fmt.Errorf("error responding to interaction: %w", err)
		}
		return nil, nil
	}

	// Extract the sub command.
	subCmd := i.ApplicationCommandData().Options[0].Name

	switch subCmd {
	case SkillAddCmdName:
		return skillAddHandler, nil
	case SkillRemoveCmdName:
		return skillRemoveHandler, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

func skillAddHandler(a IApp, i *discordgo.InteractionCreate) error {
	opts := subCommandOptions(i)

	user := opts["user"].UserValue(a.Session())
	skill := opts["skill"].StringValue()
	stars := opts["stars"].StringValue()

	if err := a.Skills().Grant(context.Background(), i.GuildID, user.ID, skill, stars); err != nil {
		switch {
		case errors.Is(err, ticketing.ErrUnknownCategory):
			return respondEphemeral(a, i, "This skill does not exist.")
		case errors.Is(err, ticketing.ErrInvalidStars):
			return respondEphemeral(a, i, "The number of stars must be either 1, 2 or 3.")
		default:
			return fmt.Errorf("error granting skill: %w", err)
		}
	}

	return respondEphemeral(a, i, fmt.Sprintf("You successfully added the %s skill with %s %s to <@%s>.",
		skill, stars, SkillEvalEmoji, user.ID))
}

func skillRemoveHandler(a IApp, i *discordgo.InteractionCreate) error {
	opts := subCommandOptions(i)

	user := opts["user"].UserValue(a.Session())
	skill := opts["skill"].StringValue()

	if err := a.Skills().Revoke(context.Background(), i.GuildID, user.ID, skill); err != nil {
		if errors.Is(err, ticketing.ErrUnknownCategory) {
			return respondEphemeral(a, i, "This skill does not exist.")
		}
		return fmt.Errorf("error revoking skill: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("You successfully removed the %s skill from <@%s>.", skill, user.ID))
}

// skillAutocompleteHandler completes the skill option with the configured
// category names matching the typed query.
func skillAutocompleteHandler(a IApp, i *discordgo.InteractionCreate) error {
	query := ""
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Focused {
			query = opt.StringValue()
			break
		}
	}

	guild, err := a.GuildDal().GetGuildData(context.Background(), i.GuildID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("error getting guild data: %w", err)
	}

	var matches []string
	if guild != nil {
		matches = ticketing.MatchCategories(guild.Categories, query)
	}

	// Discord caps autocomplete responses at 25 choices.
	if len(matches) > 25 {
		matches = matches[:25]
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(matches))
	for _, match := range matches {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  match,
			Value: match,
		})
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
}
