/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/mikeb26/magicleague-tdbot/internal"
	"github.com/mikeb26/magicleague-tdbot/league"
	"github.com/mikeb26/magicleague-tdbot/pairing"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":      handleHelp,
	"pair":      handlePair,
	"random":    handleRandom,
	"standings": handleStandings,
	"history":   handleHistory,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

// commonFlags registers the flags every subcommand shares.
func commonFlags(fs *flag.FlagSet) (set, server, token *string) {
	set = fs.String("set", "", "League set code (e.g. DSK)")
	server = fs.String("server", "", "League server base URL override")
	token = fs.String("token", os.Getenv("LEAGUETD_TOKEN"),
		"Auth token for pairing writes")
	return
}

func newClient(server, token string, cached bool) *league.Client {
	cfg := league.Config{
		BaseURL: server,
		Token:   token,
	}
	if cached {
		cfg.HTTPClient = internal.NewCachedHttpClient(context.Background(),
			5*time.Minute)
	}
	return league.NewClient(cfg)
}

func handlePair(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("pair", flag.ExitOnError)
	set, server, token := commonFlags(fs)
	timeout := fs.Duration("timeout", pairing.DefaultTimeout,
		"Optimizer budget")
	heuristic := fs.Bool("heuristic", false,
		"Use the tour heuristic instead of the exact optimizer")
	enumerate := fs.Duration("enumerate", 0,
		"Extra budget for sampling uniformly among tied optima")
	write := fs.Bool("write", false, "Publish pairings to the league server")
	seed := fs.Int64("seed", 0, "Pin bye selection randomness")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *set == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --set code.")
		fs.Usage()
		os.Exit(1)
	}

	client := newClient(*server, *token, false)
	prob, err := client.FetchProblem(ctx, *set)
	if err != nil {
		log.Fatalf("Error building pairing problem for %v: %v", *set, err)
	}
	matches, err := client.GetMatches(ctx, *set)
	if err != nil {
		log.Fatalf("Error fetching matches for %v: %v", *set, err)
	}
	cycle := league.NextCycle(matches)

	opts := pairing.SearchOptions{Timeout: *timeout, Enumerate: *enumerate}
	if *seed != 0 {
		opts.Rand = rand.New(rand.NewSource(*seed))
	}

	var res *pairing.Result
	if *heuristic {
		res, err = pairing.SearchTour(prob,
			pairing.LvlathTourSolver{Seed: *seed}, opts)
	} else {
		res, err = pairing.Search(prob, opts)
	}
	if err != nil {
		log.Fatalf("Error computing cycle %v pairings: %v", cycle, err)
	}
	if res.State == pairing.StateTimedOut {
		log.Printf("optimizer timed out; best loss %v, proven bound %v",
			res.Loss, res.Bound)
	}

	fmt.Print(league.BuildPairingsOutput(res, cycle))

	if *write {
		if err := client.WritePairings(ctx, *set, cycle,
			res.Pairings); err != nil {
			log.Fatalf("Error publishing pairings: %v", err)
		}
		fmt.Printf("Published cycle %v pairings for %v\n", cycle, *set)
	}
}

func handleRandom(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("random", flag.ExitOnError)
	set, server, token := commonFlags(fs)
	trials := fs.Int("trials", pairing.DefaultSampleTrials,
		"Candidate realizations to draw")
	write := fs.Bool("write", false, "Publish pairings to the league server")
	seed := fs.Int64("seed", 0, "Pin sampler randomness")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *set == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --set code.")
		fs.Usage()
		os.Exit(1)
	}

	client := newClient(*server, *token, false)
	prob, err := client.FetchProblem(ctx, *set)
	if err != nil {
		log.Fatalf("Error building pairing problem for %v: %v", *set, err)
	}
	matches, err := client.GetMatches(ctx, *set)
	if err != nil {
		log.Fatalf("Error fetching matches for %v: %v", *set, err)
	}
	cycle := league.NextCycle(matches)

	src := *seed
	if src == 0 {
		src = time.Now().UnixNano()
	}
	res, err := pairing.SampleRandom(prob, rand.New(rand.NewSource(src)),
		*trials)
	if err != nil {
		log.Fatalf("Error sampling cycle %v pairings: %v", cycle, err)
	}

	fmt.Print(league.BuildPairingsOutput(res, cycle))

	if *write {
		if err := client.WritePairings(ctx, *set, cycle,
			res.Pairings); err != nil {
			log.Fatalf("Error publishing pairings: %v", err)
		}
		fmt.Printf("Published cycle %v pairings for %v\n", cycle, *set)
	}
}

func handleStandings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("standings", flag.ExitOnError)
	set, server, token := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *set == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --set code.")
		fs.Usage()
		os.Exit(1)
	}

	client := newClient(*server, *token, true)
	standings, err := client.GetStandings(ctx, *set)
	if err != nil {
		log.Fatalf("Error fetching standings for %v: %v", *set, err)
	}
	fmt.Print(league.BuildStandingsOutput(standings))
}

func handleHistory(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	set, server, token := commonFlags(fs)
	player := fs.String("player", "", "Only show matches involving this player")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *set == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --set code.")
		fs.Usage()
		os.Exit(1)
	}

	client := newClient(*server, *token, true)
	matches, err := client.GetMatches(ctx, *set)
	if err != nil {
		log.Fatalf("Error fetching matches for %v: %v", *set, err)
	}

	shown := 0
	cycle := -1
	for _, m := range matches {
		if *player != "" && m.PlayerA != *player && m.PlayerB != *player {
			continue
		}
		if m.Cycle != cycle {
			cycle = m.Cycle
			fmt.Printf("Cycle %v\n", cycle)
		}
		if m.PlayerB == pairing.ByeName {
			fmt.Printf("  - %v had a bye\n", m.PlayerA)
		} else {
			fmt.Printf("  - %v vs %v: %v-%v-%v\n", m.PlayerA, m.PlayerB,
				m.WinsA, m.WinsB, m.Draws)
		}
		shown++
	}
	if shown == 0 {
		fmt.Printf("No recorded matches found for %v\n", *set)
	}
}
