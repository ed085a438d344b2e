package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Littie6amer/discord-bot-owners/pkg/entities"
	"github.com/Littie6amer/discord-bot-owners/pkg/ticketing"
)

const (
	// setupCmdName is the command for all configuration commands.
	setupCmdName = "setup"

	// panelCmdName is the sub command for setting up the tickets panel.
	panelCmdName = "panel"

	// logsCmdName is the sub command for setting the ticket logs channel.
	logsCmdName = "logs"

	// ticketsCategoryCmdName is the sub command for setting the tickets area.
	ticketsCategoryCmdName = "tickets_category"

	// managerRoleCmdName is the sub command for setting the manager role.
	managerRoleCmdName = "manager_role"

	// categoryAddCmdName is the sub command for adding a ticket category.
	categoryAddCmdName = "category_add"

	// categoryRemoveCmdName is the sub command for removing a ticket category.
	categoryRemoveCmdName = "category_remove"

	// channelCmdName is the text for the channel option.
	channelCmdName = "channel"

	// roleCmdName is the text for the role option.
	roleCmdName = "role"
)

var (
	// setupCmd is the command for all configuration commands.
	setupCmd = &discordgo.ApplicationCommand{
		Name:        setupCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "This is the command for all configuration commands.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        panelCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This sends the tickets panel to the channel you specify.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        channelCmdName,
						Type:        discordgo.ApplicationCommandOptionChannel,
						Description: "This is the channel you want the tickets panel in.",
						Required:    true,
					},
				},
			},
			{
				Name:        logsCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This sets the channel that ticket closure records are sent to.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        channelCmdName,
						Type:        discordgo.ApplicationCommandOptionChannel,
						Description: "This is the channel for closure records.",
						Required:    true,
					},
				},
			},
			{
				Name:        ticketsCategoryCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This sets the category that ticket channels are created under.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        channelCmdName,
						Type:        discordgo.ApplicationCommandOptionChannel,
						Description: "This is the category channel for tickets.",
						Required:    true,
					},
				},
			},
			{
				Name:        managerRoleCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This sets the role that is allowed to close tickets.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        roleCmdName,
						Type:        discordgo.ApplicationCommandOptionRole,
						Description: "This is the role you want to handle tickets.",
						Required:    true,
					},
				},
			},
			{
				Name:        categoryAddCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This adds a ticket category with its skill roles.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "name",
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "This is the category name.",
						Required:    true,
					},
					{
						Name:        "prefix",
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "This is the channel name prefix for the category.",
						Required:    true,
					},
					{
						Name:        "manager",
						Type:        discordgo.ApplicationCommandOptionRole,
						Description: "This is the role managing tickets in the category.",
						Required:    true,
					},
					{
						Name:        "member",
						Type:        discordgo.ApplicationCommandOptionRole,
						Description: "This is the role granted with the skill.",
						Required:    true,
					},
					{
						Name:        "one_star",
						Type:        discordgo.ApplicationCommandOptionRole,
						Description: "This is the role for one star.",
						Required:    true,
					},
					{
						Name:        "two_stars",
						Type:        discordgo.ApplicationCommandOptionRole,
						Description: "This is the role for two stars.",
						Required:    true,
					},
					{
						Name:        "three_stars",
						Type:        discordgo.ApplicationCommandOptionRole,
						Description: "This is the role for three stars.",
						Required:    true,
					},
					{
						Name:        "description",
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "This is the description shown in the category picker.",
					},
					{
						Name:        "emoji",
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "This is the emoji shown in the category picker.",
					},
				},
			},
			{
				Name:        categoryRemoveCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This removes a ticket category.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "name",
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "This is the category name.",
						Required:    true,
					},
				},
			},
		},
	}
)

func setupCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
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
	case panelCmdName:
		return panelSetupHandler, nil
	case logsCmdName:
		return logsSetupHandler, nil
	case ticketsCategoryCmdName:
		return ticketsCategorySetupHandler, nil
	case managerRoleCmdName:
		return managerRoleSetupHandler, nil
	case categoryAddCmdName:
		return categoryAddHandler, nil
	case categoryRemoveCmdName:
		return categoryRemoveHandler, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

// subCommandOptions maps the sub command's options by name.
func subCommandOptions(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options[0].Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// panelSetupHandler sends (or re-uses) the tickets panel in the provided
// channel and stores its reference.
func panelSetupHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	channel := subCommandOptions(i)[channelCmdName].ChannelValue(a.Session())
	if channel.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, "You must provide a text channel for the tickets panel.")
	}

	guild, err := ensureGuildData(a, ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild data: %w", err)
	}

	var msg *discordgo.Message

	// Re-use the existing panel message if it is still there.
	if guild.TicketsMessageID != "" && guild.TicketsChannelID == channel.ID {
		existing, err := a.Session().ChannelMessage(channel.ID, guild.TicketsMessageID)
		if err != nil {
			restErr := new(discordgo.RESTError)
			if !errors.As(err, &restErr) || restErr.Message.Code != discordgo.ErrCodeUnknownMessage {
				return fmt.Errorf("error getting panel message: %w", err)
			}
		} else {
			msg = existing
		}
	}

	if msg == nil {
		msg, err = sendPanelMessage(a, channel.ID)
		if err != nil {
			return fmt.Errorf("error sending panel message: %w", err)
		}
	}

	if err := a.GuildDal().SetField(ctx, i.GuildID, "tickets_channel_id", channel.ID); err != nil {
		return fmt.Errorf("error saving tickets channel: %w", err)
	}
	if err := a.GuildDal().SetField(ctx, i.GuildID, "tickets_message_id", msg.ID); err != nil {
		return fmt.Errorf("error saving tickets message: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("The tickets panel has been set up in <#%s>", channel.ID))
}

func logsSetupHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	channel := subCommandOptions(i)[channelCmdName].ChannelValue(a.Session())
	if channel.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, "You must provide a text channel for closure records.")
	}

	if _, err := ensureGuildData(a, ctx, i.GuildID); err != nil {
		return fmt.Errorf("error getting guild data: %w", err)
	}
	if err := a.GuildDal().SetField(ctx, i.GuildID, "ticket_logs_channel_id", channel.ID); err != nil {
		return fmt.Errorf("error saving logs channel: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("Ticket closure records will be sent to <#%s>", channel.ID))
}

func ticketsCategorySetupHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	channel := subCommandOptions(i)[channelCmdName].ChannelValue(a.Session())
	if channel.Type != discordgo.ChannelTypeGuildCategory {
		return respondEphemeral(a, i, "You must provide a category channel for the tickets area.")
	}

	if _, err := ensureGuildData(a, ctx, i.GuildID); err != nil {
		return fmt.Errorf("error getting guild data: %w", err)
	}
	if err := a.GuildDal().SetField(ctx, i.GuildID, "tickets_category_id", channel.ID); err != nil {
		return fmt.Errorf("error saving tickets category: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("Ticket channels will be created under **%s**", channel.Name))
}

func managerRoleSetupHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	role := subCommandOptions(i)[roleCmdName].RoleValue(a.Session(), i.GuildID)

	if _, err := ensureGuildData(a, ctx, i.GuildID); err != nil {
		return fmt.Errorf("error getting guild data: %w", err)
	}
	if err := a.GuildDal().SetField(ctx, i.GuildID, "manager_role_id", role.ID); err != nil {
		return fmt.Errorf("error saving manager role: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("Tickets will be handled by <@&%s>", role.ID))
}

func categoryAddHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := subCommandOptions(i)

	name := opts["name"].StringValue()
	if !ticketing.ValidCategoryName(name) {
		return respondEphemeral(a, i, "Category names can't be empty or contain `.` or `$`.")
	}

	category := entities.TicketCategory{
		Prefix: opts["prefix"].StringValue(),
	}
	if opt, ok := opts["description"]; ok {
		category.Description = opt.StringValue()
	}
	if opt, ok := opts["emoji"]; ok {
		category.Emoji = opt.StringValue()
	}

	roles := entities.SkillRoles{
		ManagerID: opts["manager"].RoleValue(a.Session(), i.GuildID).ID,
		MemberID:  opts["member"].RoleValue(a.Session(), i.GuildID).ID,
		Stars: map[string]string{
			"1": opts["one_star"].RoleValue(a.Session(), i.GuildID).ID,
			"2": opts["two_stars"].RoleValue(a.Session(), i.GuildID).ID,
			"3": opts["three_stars"].RoleValue(a.Session(), i.GuildID).ID,
		},
	}

	if _, err := ensureGuildData(a, ctx, i.GuildID); err != nil {
		return fmt.Errorf("error getting guild data: %w", err)
	}
	if err := a.GuildDal().SetField(ctx, i.GuildID, "categories."+name, category); err != nil {
		return fmt.Errorf("error saving category: %w", err)
	}
	if err := a.GuildDal().SetField(ctx, i.GuildID, "skill_roles."+name, roles); err != nil {
		return fmt.Errorf("error saving skill roles: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("The **%s** category has been added.", name))
}

func categoryRemoveHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	name := subCommandOptions(i)["name"].StringValue()

	guild, err := ensureGuildData(a, ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild data: %w", err)
	}
	if _, ok := guild.Categories[name]; !ok {
		return respondEphemeral(a, i, "This category does not exist.")
	}

	if err := a.GuildDal().UnsetField(ctx, i.GuildID, "categories."+name); err != nil {
		return fmt.Errorf("error removing category: %w", err)
	}
	if err := a.GuildDal().UnsetField(ctx, i.GuildID, "skill_roles."+name); err != nil {
		return fmt.Errorf("error removing skill roles: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("The **%s** category has been removed.", name))
}
