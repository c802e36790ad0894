package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"ceelo/internal/games"
	"ceelo/internal/ledger"
)

// Money formats an amount for display.
type Money func(int) string

func status(p ledger.Player) string {
	if p.Eligible() {
		return pterm.LightGreen("In")
	}
	return pterm.LightRed("Out")
}

func PlayersTable(players []ledger.Player, money Money) (string, error) {
	data := pterm.TableData{{"Seat", "Player", "Balance", "Bet", "Wins", "Last roll", "Status"}}
	for _, p := range players {
		last := "-"
		if p.LastOutcome != nil {
			last = fmt.Sprintf("%s %s", p.LastRoll, p.LastOutcome)
		}
		data = append(data, []string{
			strconv.Itoa(p.Seat + 1),
			p.Name,
			money(p.Balance),
			money(p.CurrentBet),
			strconv.Itoa(p.RoundsWon),
			last,
			status(p),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func LeaderboardTable(board []ledger.Standing, money Money) (string, error) {
	data := pterm.TableData{{"#", "Player", "Rounds won", "Balance"}}
	for i, s := range board {
		name := s.Name
		if s.IsOut {
			name += " (out)"
		}
		data = append(data, []string{strconv.Itoa(i + 1), name, strconv.Itoa(s.RoundsWon), money(s.Balance)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// RoundSummary describes a settled round in a few lines.
func RoundSummary(rec games.RoundRecord, money Money) string {
	s := rec.Settlement
	var b strings.Builder
	for _, e := range s.Entries {
		outcome := ""
		if e.Outcome != nil {
			outcome = e.Outcome.String()
		}
		fmt.Fprintf(&b, "%s: %s (%s), bet %s\n", e.Player, e.Roll, outcome, money(e.Bet))
	}

	switch {
	case s.Push:
		fmt.Fprintf(&b, "Everyone rolled 1-2-3. Push, all bets returned.")
	case len(s.Winners) == 1:
		fmt.Fprintf(&b, "%s wins the round and takes the pot of %s!", s.Winners[0], money(s.Payout.Pot))
	default:
		fmt.Fprintf(&b, "Tie! %s split the pot of %s (%s each)",
			strings.Join(s.Winners, " & "), money(s.Payout.Pot), money(s.Payout.Share))
		if s.Payout.Remainder > 0 {
			fmt.Fprintf(&b, ", %s left on the table", money(s.Payout.Remainder))
		}
		b.WriteString(".")
	}
	for _, name := range s.Eliminated {
		fmt.Fprintf(&b, "\n%s is out of the game.", name)
	}
	return b.String()
}
