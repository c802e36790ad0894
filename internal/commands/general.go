package commands

import (
	"fmt"
	"strings"

	"ceelo/pkg/utils"
)

func (h *Handler) CmdHelp() {
	sym := h.cfg.CurrencySymbol
	var b strings.Builder
	b.WriteString("Players\n")
	b.WriteString("  add <name>              join the table\n")
	b.WriteString("  remove <name>           leave the table\n")
	fmt.Fprintf(&b, "  deposit <name> <%samt>   add money\n", sym)
	b.WriteString("\nBetting\n")
	fmt.Fprintf(&b, "  bet <name> <%samt>       set one player's bet\n", sym)
	fmt.Fprintf(&b, "  betall <%samt>           same bet for everyone\n", sym)
	b.WriteString("\nPlaying\n")
	b.WriteString("  roll [name]             roll for the current player\n")
	b.WriteString("  players                 balances and last rolls\n")
	b.WriteString("  leaderboard             rounds won\n")
	b.WriteString("  history                 settled rounds\n")
	b.WriteString("  reset                   play again with the same players\n")
	b.WriteString("  quit\n")
	b.WriteString("\nRules\n")
	b.WriteString("  4-5-6 wins, then trips (6-6-6 best), then a point (pair + odd die).\n")
	b.WriteString("  1-2-3 loses. Anything else rolls again. Ties split the pot.")
	h.println(utils.InfoPanel(h.cfg.AppName+" Help", b.String()))
}

func (h *Handler) CmdPlayers() {
	players := h.table.Players()
	if len(players) == 0 {
		h.println(utils.InfoPanel("Players", "No players yet. Use add <name>."))
		return
	}
	out, err := utils.PlayersTable(players, h.cfg.Money)
	if err != nil {
		h.fail(err)
		return
	}
	h.println(out)
	if h.table.InRound() {
		h.println(fmt.Sprintf("Pot so far: %s. Waiting on: %s",
			h.cfg.Money(h.table.Pot()), strings.Join(h.table.Pending(), ", ")))
	}
}

func (h *Handler) CmdLeaderboard() {
	board := h.table.Leaderboard()
	if len(board) == 0 {
		h.println(utils.InfoPanel("Leaderboard", "No players yet."))
		return
	}
	out, err := utils.LeaderboardTable(board, h.cfg.Money)
	if err != nil {
		h.fail(err)
		return
	}
	h.println(out)
}

func (h *Handler) CmdHistory() {
	history := h.table.History()
	if len(history) == 0 {
		h.println(utils.InfoPanel("History", "No rounds played yet."))
		return
	}
	for _, rec := range history {
		title := fmt.Sprintf("Round %d · %s", rec.Number, rec.SettledAt.Format("15:04:05"))
		h.println(utils.InfoPanel(title, utils.RoundSummary(rec, h.cfg.Money)))
	}
}
