/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mikeb26/magicleague-tdbot/internal"
	"github.com/mikeb26/magicleague-tdbot/league"
)

// this program exists just to seed the http cache for active league sets

func main() {
	ctx := context.Background()
	client := league.NewClient(league.Config{
		BaseURL:    os.Getenv("LEAGUE_SERVER"),
		HTTPClient: internal.NewCachedHttpClient(ctx, 1*time.Hour),
	})

	sets := strings.Fields(os.Getenv("LEAGUE_SETS"))
	if len(sets) == 0 {
		fmt.Fprintf(os.Stderr, "set LEAGUE_SETS to a space separated list of set codes\n")
		os.Exit(1)
	}

	for _, setCode := range sets {
		_, err := client.GetStandings(ctx, setCode)
		time.Sleep(2 * time.Second) // avoid pegging the league server
		if err != nil {
			// best effort
			continue
		}

		fmt.Printf("seeded %v standings\n", setCode)

		_, err = client.GetMatches(ctx, setCode)
		time.Sleep(2 * time.Second)
		if err != nil {
			continue
		}

		fmt.Printf("seeded %v matches\n", setCode)
	}
}
