package bot

import "github.com/bwmarrin/discordgo"

func (b *Bot) registerCommands() error {
	banPerm := int64(discordgo.PermissionBanMembers)
	moderatePerm := int64(discordgo.PermissionModerateMembers)
	manageMessagesPerm := int64(discordgo.PermissionManageMessages)
	adminPerm := int64(discordgo.PermissionAdministrator)
	noDM := false

	minAmount := float64(1)

	commands := []*discordgo.ApplicationCommand{
		{
			Name:                     "ban",
			Description:              "Zbanuj użytkownika z opcjonalnym powodem.",
			DefaultMemberPermissions: &banPerm,
			DMPermission:             &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "użytkownik",
					Description: "Kogo banować?",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "powód",
					Description: "Powód bana",
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "usuń_wiadomości_dni",
					Description: "Ile dni wiadomości usunąć (0-7, domyślnie 0)",
					MinValue:    new(float64),
					MaxValue:    7,
				},
			},
		},
		{
			Name:                     "unban",
			Description:              "Odbanuj użytkownika po jego ID.",
			DefaultMemberPermissions: &banPerm,
			DMPermission:             &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "id",
					Description: "ID użytkownika, którego chcesz odbanować",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "powód",
					Description: "Powód odbanowania",
				},
			},
		},
		{
			Name:                     "timeout",
			Description:              "Nałóż czasowy timeout (wyciszenie) na użytkownika.",
			DefaultMemberPermissions: &moderatePerm,
			DMPermission:             &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "użytkownik",
					Description: "Kogo wyciszyć?",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "czas",
					Description: "Czas trwania: np. 10m / 2h / 1d (max 28d)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "powód",
					Description: "Powód timeoutu",
				},
			},
		},
		{
			Name:                     "warn",
			Description:              "Nadaj ostrzeżenie użytkownikowi (1/3).",
			DefaultMemberPermissions: &moderatePerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "użytkownik",
					Description: "Kogo ostrzegasz?",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "powód",
					Description: "Powód ostrzeżenia",
				},
			},
		},
		{
			Name:                     "cleanwarn",
			Description:              "Usuń określoną liczbę ostrzeżeń użytkownika (np. 1 z 3).",
			DefaultMemberPermissions: &moderatePerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "użytkownik",
					Description: "Kogo edytujesz?",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "ilość",
					Description: "Ile ostatnich ostrzeżeń usunąć",
					Required:    true,
					MinValue:    &minAmount,
					MaxValue:    50,
				},
			},
		},
		{
			Name:                     "clear",
			Description:              "Usuwa określoną liczbę wiadomości z kanału.",
			DefaultMemberPermissions: &manageMessagesPerm,
			DMPermission:             &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "ilość",
					Description: "Liczba wiadomości do usunięcia (1-100).",
					Required:    true,
					MinValue:    &minAmount,
					MaxValue:    100,
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "użytkownik",
					Description: "Usuń wiadomości tylko od określonego użytkownika.",
				},
			},
		},
		{
			Name:                     "userinfo",
			Description:              "Informacje moderacyjne o użytkowniku (warny, timeout, role itp.).",
			DefaultMemberPermissions: &moderatePerm,
			DMPermission:             &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "użytkownik",
					Description: "Kogo sprawdzić?",
					Required:    true,
				},
			},
		},
		{
			Name:        "ping",
			Description: "Sprawdza opóźnienie bota.",
		},
		{
			Name:        "about",
			Description: "Informacje o bocie i projekcie.",
		},
		{
			Name:         "changelog",
			Description:  "Wysyła embed z changelogiem (dla administracji).",
			DMPermission: &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "tytuł",
					Description: "Tytuł changelogu (np. Aktualizacja #12)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "opis",
					Description: "Opis zmian, nowości, poprawek itp.",
					Required:    true,
				},
			},
		},
		{
			Name:                     "say",
			Description:              "Wysyła ładnego embeda na wybrany kanał.",
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Kanał, na który wysłać wiadomość.",
					Required:     true,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "title",
					Description: "Tytuł wiadomości",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "description",
					Description: "Treść wiadomości",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "color",
					Description: "Kolor embedu (blue, green, red, purple, yellow)",
				},
			},
		},
		{
			Name:         "mcstatus",
			Description:  "Pokaż status serwera Minecraft (online/offline, gracze, wersja).",
			DMPermission: &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "host",
					Description: "Host serwera (domyślnie z konfiguracji)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "port",
					Description: "Port serwera (domyślnie z konfiguracji)",
				},
			},
		},
		{
			Name:                     "setlogchannel",
			Description:              "Ustaw kanał, na który będą wysyłane logi bota.",
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "kanał",
					Description:  "Wybierz kanał logów",
					Required:     true,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
			},
		},
		{
			Name:                     "setwelcomechannel",
			Description:              "Ustaw kanał powitań nowych członków.",
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "kanał",
					Description:  "Wybierz kanał powitań",
					Required:     true,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
			},
		},
		{
			Name:                     "setboostchannel",
			Description:              "Ustaw kanał podziękowań za boosty.",
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "kanał",
					Description:  "Wybierz kanał boostów",
					Required:     true,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
			},
		},
		{
			Name:                     "setverify",
			Description:              "Ustaw kanał i rolę do weryfikacji oraz opublikuj panel.",
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "kanał",
					Description:  "Kanał, na którym ma stać panel weryfikacji",
					Required:     true,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "rola",
					Description: "Rola nadawana po weryfikacji",
					Required:    true,
				},
			},
		},
		{
			Name:                     "ticketsetup",
			Description:              "Ustaw kategorię i rolę wsparcia dla systemu ticketów.",
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "kategoria",
					Description:  "Kategoria, w której będą tworzyć się tickety.",
					Required:     true,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "rola",
					Description: "Rola wsparcia (ma dostęp do ticketów).",
					Required:    true,
				},
			},
		},
		{
			Name:                     "ticketpanel",
			Description:              "Wyślij panel systemu ticketów (z wyborem kategorii) na wybrany kanał.",
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "kanał",
					Description:  "Kanał tekstowy, na którym ma stać panel.",
					Required:     true,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
			},
		},
	}

	appID := b.session.State.User.ID
	existing, err := b.session.ApplicationCommands(appID, "")
	if err != nil {
		for _, cmd := range commands {
			if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
				return err
			}
		}
		return nil
	}

	existingByName := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range existing {
		existingByName[cmd.Name] = cmd
	}

	desired := make(map[string]struct{})
	for _, cmd := range commands {
		desired[cmd.Name] = struct{}{}
		if current, ok := existingByName[cmd.Name]; ok {
			if _, err := b.session.ApplicationCommandEdit(appID, "", current.ID, cmd); err != nil {
				return err
			}
			continue
		}
		if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
			return err
		}
	}

	for _, cmd := range existing {
		if _, ok := desired[cmd.Name]; ok {
			continue
		}
		_ = b.session.ApplicationCommandDelete(appID, "", cmd.ID)
	}

	for _, guild := range b.session.State.Guilds {
		if guild == nil {
			continue
		}
		guildID := guild.ID
		guildCmds, err := b.session.ApplicationCommands(appID, guildID)
		if err != nil {
			continue
		}
		for _, cmd := range guildCmds {
			if _, ok := desired[cmd.Name]; ok {
				continue
			}
			_ = b.session.ApplicationCommandDelete(appID, guildID, cmd.ID)
		}
	}
	return nil
}
