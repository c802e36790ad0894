package commands

import (
	"fmt"
	"strings"

	"ceelo/pkg/utils"
)

func (h *Handler) CmdAdd(args []string) {
	name := strings.Join(args, " ")
	p, err := h.table.AddPlayer(name)
	if err != nil {
		h.fail(err)
		return
	}
	h.println(utils.SuccessPanel("Player added",
		fmt.Sprintf("%s joined with %s.", p.Name, h.cfg.Money(p.Balance))))
}

func (h *Handler) CmdRemove(args []string) {
	name := strings.Join(args, " ")
	rec, err := h.table.RemovePlayer(name)
	if err != nil {
		h.fail(err)
		return
	}
	h.println(utils.SuccessPanel("Player removed", fmt.Sprintf("%s left the table.", name)))
	if rec != nil {
		h.announceRound(*rec)
	}
}

func (h *Handler) CmdDeposit(args []string) {
	name, amount, err := splitAmount(args)
	if err != nil {
		h.fail(err)
		return
	}
	p, err := h.table.Deposit(name, amount)
	if err != nil {
		h.fail(err)
		return
	}
	h.println(utils.GoldPanel("Deposit",
		fmt.Sprintf("%s added to %s's balance. New balance: %s", h.cfg.Money(amount), p.Name, h.cfg.Money(p.Balance))))
}

func (h *Handler) CmdBet(args []string) {
	name, amount, err := splitAmount(args)
	if err != nil {
		h.fail(err)
		return
	}
	if err := h.table.SetBet(name, amount); err != nil {
		h.fail(err)
		return
	}
	h.println(utils.SuccessPanel("Bet placed", fmt.Sprintf("Bet set to %s for %s.", h.cfg.Money(amount), name)))
}

func (h *Handler) CmdBetAll(args []string) {
	if len(args) != 1 {
		h.fail(fmt.Errorf("usage: betall <amount>"))
		return
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		h.fail(err)
		return
	}
	names, err := h.table.BetAll(amount)
	if err != nil {
		h.fail(err)
		return
	}
	msg := fmt.Sprintf("All bets of %s are in for %s.", h.cfg.Money(amount), strings.Join(names, ", "))
	if next, ok := h.table.CurrentPlayer(); ok {
		msg += fmt.Sprintf(" %s may roll.", next)
	}
	h.println(utils.SuccessPanel("Bets placed", msg))
}
