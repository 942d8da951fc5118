package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bulbousnub/wats-go/internal/services/scoring"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGamePlayCmd())
	cmd.AddCommand(newGameHistoryCmd())

	return cmd
}

func newGamePlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Run the interactive scorekeeper",
		Long: `Runs the scorekeeper loop. An in-progress game is resumed
automatically; leaving with "quit" keeps the snapshot so the game can
be picked up later.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScorekeeper()
		},
	}
}

func runScorekeeper() error {
	engine := app.Scoring

	// Active roster members join a resumed game; participants already
	// in it stay, keeping their scores even if deactivated since.
	ids := engine.Participants()
	inGame := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		inGame[id] = true
	}
	for _, p := range app.Store.Players() {
		if p.IsActive && !inGame[p.ID] {
			ids = append(ids, p.ID)
		}
	}
	engine.SetParticipants(ids)

	printBoard(engine)
	fmt.Println(`Commands: add <name> [pts] | partial <name> | fast <name> | wild <name>`)
	fmt.Println(`          board | commit | reset | end | quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("round %d> ", engine.Round())
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "add":
			if len(fields) < 2 {
				fmt.Println("usage: add <name> [pts]")
				continue
			}
			points := scoring.DefaultPoints
			if len(fields) > 2 {
				n, err := strconv.Atoi(fields[2])
				if err != nil {
					fmt.Printf("invalid points %q\n", fields[2])
					continue
				}
				points = n
			}
			award(engine, fields[1], points)
		case "partial":
			if len(fields) < 2 {
				fmt.Println("usage: partial <name>")
				continue
			}
			award(engine, fields[1], scoring.PartialPoints)
		case "fast":
			if !app.Store.BonusFastestEnabled() {
				fmt.Println("fastest bonus is disabled in settings")
				continue
			}
			if len(fields) < 2 {
				fmt.Println("usage: fast <name>")
				continue
			}
			award(engine, fields[1], scoring.FastestBonus)
		case "wild":
			if !app.Store.BonusWildcardEnabled() {
				fmt.Println("wildcard bonus is disabled in settings")
				continue
			}
			if len(fields) < 2 {
				fmt.Println("usage: wild <name>")
				continue
			}
			award(engine, fields[1], scoring.WildcardBonus)
		case "board":
			printBoard(engine)
		case "commit":
			engine.CommitCurrentRound()
			printBoard(engine)
		case "reset":
			engine.ResetSession()
			printBoard(engine)
		case "end":
			record := engine.EndGame()
			fmt.Printf("Game over after %d round(s):\n", record.Rounds)
			for _, e := range record.Entries {
				fmt.Printf("  %-20s %d\n", e.PlayerName, e.Score)
			}
			return nil
		case "quit":
			fmt.Println("Game saved; resume with `wats game play`.")
			return nil
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

func award(engine *scoring.Engine, name string, points int) {
	p, err := findPlayerByName(name)
	if err != nil {
		fmt.Println(err)
		return
	}
	if !containsID(engine.Participants(), p.ID) {
		fmt.Printf("%s is not in this game\n", p.Name)
		return
	}
	engine.Add(points, p.ID)
	fmt.Printf("%s: session %d (this round %+d)\n",
		p.Name, engine.SessionScore(p.ID), engine.RoundDelta(p.ID))
}

func printBoard(engine *scoring.Engine) {
	fmt.Printf("Round %d, started %s\n",
		engine.Round(), engine.StartedAt().Format("Jan 2 15:04"))
	for _, id := range engine.Participants() {
		name := "Player"
		if p, ok := app.Store.FindPlayer(id); ok {
			name = p.Name
		}
		fmt.Printf("  %-20s session %4d   this round %+d\n",
			name, engine.SessionScore(id), engine.RoundDelta(id))
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, cur := range ids {
		if cur == id {
			return true
		}
	}
	return false
}

func newGameHistoryCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent games, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear {
				app.Store.ClearRecentGames()
				fmt.Println("History cleared.")
				return nil
			}
			games := app.Store.Games()
			if len(games) == 0 {
				fmt.Println("No games yet.")
				return nil
			}
			for _, g := range games {
				fmt.Printf("%s  %d round(s)\n", g.Start.Format("Jan 2 2006 15:04"), g.Rounds)
				for _, e := range g.Entries {
					fmt.Printf("  %-20s %d\n", e.PlayerName, e.Score)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the history list")
	return cmd
}
