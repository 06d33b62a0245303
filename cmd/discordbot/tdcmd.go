/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/magicleague-tdbot/internal"
	"github.com/mikeb26/magicleague-tdbot/league"
	"github.com/mikeb26/magicleague-tdbot/pairing"
)

type TdSubCommand string

const (
	TdAboutCmd     TdSubCommand = "about"
	TdHelpCmd      TdSubCommand = "help"
	TdPairingsCmd  TdSubCommand = "pairings"
	TdStandingsCmd TdSubCommand = "standings"
	TdHistoryCmd   TdSubCommand = "history"
)

var tdSubCmdHdlrs = map[TdSubCommand]CmdHandler{
	TdAboutCmd:     tdAboutCmdHandler,
	TdHelpCmd:      tdHelpCmdHandler,
	TdPairingsCmd:  tdPairingsCmdHandler,
	TdStandingsCmd: tdStandingsCmdHandler,
	TdHistoryCmd:   tdHistoryCmdHandler,
}

func tdCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := tdHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := tdSubCmdHdlrs[TdSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

// newLeagueClient builds a client from the bot's environment. Standings
// and history reads go through the shared web cache; pairing writes are
// left to the leaguetd CLI.
func newLeagueClient(ctx context.Context) *league.Client {
	return league.NewClient(league.Config{
		BaseURL:    os.Getenv("LEAGUE_SERVER"),
		HTTPClient: internal.NewCachedHttpClient(ctx, 5*time.Minute),
	})
}

// subCmdArgs pulls the common set/broadcast options out of an
// interaction's subcommand.
func subCmdArgs(inter *discordgo.Interaction) (setCode string, broadcast bool) {
	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return "", false
	}
	for _, opt := range data.Options[0].Options {
		if opt.Name == "set" {
			setCode = opt.StringValue()
		} else if opt.Name == "broadcast" {
			broadcast = opt.BoolValue()
		}
	}
	return setCode, broadcast
}

//go:embed about.txt
var aboutText string

func tdAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}

	resp.Data.Content = truncateContent(aboutText)

	return resp
}

//go:embed help.md
var helpText string

func tdHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}

	resp.Data.Content = truncateContent(helpText)
	return resp
}

// tdPairingsCmdHandler handles the /td pairings command: compute the
// next cycle's pairings for a league and display them. The bot never
// publishes pairings; that stays with the CLI's --write.
func tdPairingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
	setCode, broadcast := subCmdArgs(inter)
	if setCode == "" {
		resp.Data.Content = "Please provide a league set code."
		log.Printf("discordbot.pairings: %v", resp.Data.Content)
		return resp
	}

	client := league.NewClient(league.Config{
		BaseURL: os.Getenv("LEAGUE_SERVER"),
	})
	prob, err := client.FetchProblem(ctx, setCode)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error building pairings for %v: %v",
			setCode, err)
		log.Printf("discordbot.pairings: %v", resp.Data.Content)
		return resp
	}
	matches, err := client.GetMatches(ctx, setCode)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching matches for %v: %v",
			setCode, err)
		log.Printf("discordbot.pairings: %v", resp.Data.Content)
		return resp
	}
	cycle := league.NextCycle(matches)

	// Keep the optimizer well under Discord's 3s interaction deadline.
	res, err := pairing.Search(prob, pairing.SearchOptions{
		Timeout: 2 * time.Second,
	})
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error computing pairings for %v: %v",
			setCode, err)
		log.Printf("discordbot.pairings: %v", resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(league.BuildPairingsOutput(res, cycle)))

	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// tdStandingsCmdHandler handles the /td standings command to display
// current league standings
func tdStandingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
	setCode, broadcast := subCmdArgs(inter)
	if setCode == "" {
		resp.Data.Content = "Please provide a league set code."
		log.Printf("discordbot.standings: %v", resp.Data.Content)
		return resp
	}

	standings, err := newLeagueClient(ctx).GetStandings(ctx, setCode)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching standings for %v: %v",
			setCode, err)
		log.Printf("discordbot.standings: %v", resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(league.BuildStandingsOutput(standings)))

	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// tdHistoryCmdHandler handles the /td history command to display the
// recorded matches of a league, grouped by cycle
func tdHistoryCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
	setCode, broadcast := subCmdArgs(inter)
	if setCode == "" {
		resp.Data.Content = "Please provide a league set code."
		log.Printf("discordbot.history: %v", resp.Data.Content)
		return resp
	}

	matches, err := newLeagueClient(ctx).GetMatches(ctx, setCode)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching matches for %v: %v",
			setCode, err)
		log.Printf("discordbot.history: %v", resp.Data.Content)
		return resp
	}
	if len(matches) == 0 {
		resp.Data.Content = fmt.Sprintf("No recorded matches found for %v.",
			setCode)
		log.Printf("discordbot.history: %v", resp.Data.Content)
		return resp
	}

	var sb strings.Builder
	cycle := -1
	for _, m := range matches {
		if m.Cycle != cycle {
			cycle = m.Cycle
			sb.WriteString(fmt.Sprintf("**Cycle %v**\n", cycle))
		}
		if m.PlayerB == pairing.ByeName {
			sb.WriteString(fmt.Sprintf("- %v had a bye\n", m.PlayerA))
		} else {
			sb.WriteString(fmt.Sprintf("- %v vs %v: %v-%v-%v\n", m.PlayerA,
				m.PlayerB, m.WinsA, m.WinsB, m.Draws))
		}
	}
	resp.Data.Content = truncateContent(sb.String())

	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
