package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"ceelo/internal/games"
	"ceelo/internal/games/ceelo"
	"ceelo/pkg/utils"
)

func (h *Handler) CmdRoll(args []string) {
	name := strings.Join(args, " ")

	if h.animate {
		who := name
		if who == "" {
			who, _ = h.table.CurrentPlayer()
		}
		spinner, _ := pterm.DefaultSpinner.WithWriter(h.out).WithRemoveWhenDone(true).
			Start(fmt.Sprintf("%s shakes the dice...", who))
		time.Sleep(h.animation)
		if spinner != nil {
			spinner.Stop()
		}
	}

	res, err := h.table.Roll(name)
	if err != nil {
		h.fail(err)
		return
	}

	h.println(utils.RenderDice(res.Roll))
	h.println(describeRoll(res))

	switch {
	case res.Settled != nil:
		h.announceRound(*res.Settled)
	case res.Next != "" && res.Next != res.Player:
		h.println(fmt.Sprintf("Next up: %s", pterm.LightMagenta(res.Next)))
	}

	if res.GameOver {
		h.announceGameOver(res.Winner)
	}
}

func (h *Handler) CmdReset() {
	h.table.Reset()
	h.println(utils.SuccessPanel("New game",
		"Game reset! Balances are back to the starting amount. Place your bets to play again."))
}

func describeRoll(res games.RollResult) string {
	p := res.Player
	switch o := res.Outcome.(type) {
	case ceelo.AutoWin:
		if o.Hand == ceelo.HandTriple {
			return pterm.LightGreen(fmt.Sprintf("%s rolled TRIPS: %d-%d-%d", p, o.Face, o.Face, o.Face))
		}
		return pterm.LightGreen(fmt.Sprintf("%s rolled CEE-LO!", p))
	case ceelo.AutoLoss:
		return pterm.LightRed(fmt.Sprintf("%s rolled an AUTOMATIC LOSS", p))
	case ceelo.Point:
		return pterm.LightYellow(fmt.Sprintf("%s rolled a POINT: %d", p, o.Value))
	}
	return pterm.Gray(fmt.Sprintf("No Score. %s rolls again.", p))
}

func (h *Handler) announceRound(rec games.RoundRecord) {
	h.println(utils.GoldPanel(fmt.Sprintf("Round %d", rec.Number), utils.RoundSummary(rec, h.cfg.Money)))
}

func (h *Handler) announceGameOver(winner string) {
	msg := "Nobody is left in the game. Game over."
	if winner != "" {
		msg = fmt.Sprintf("%s is the last player standing and wins the game!", winner)
	}
	h.println(utils.GoldPanel("Game Over", msg+"\nType reset to play again or quit to leave."))
}
