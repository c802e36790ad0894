package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"ceelo/internal/games"
	"ceelo/pkg/config"
	"ceelo/pkg/utils"
)

// Handler lê comandos de texto e os aplica na mesa.
type Handler struct {
	table *games.Table
	cfg   config.GeneralConfig
	out   io.Writer

	animate   bool
	animation time.Duration
}

func NewHandler(table *games.Table, cfg config.GeneralConfig, out io.Writer) *Handler {
	return &Handler{
		table:     table,
		cfg:       cfg,
		out:       out,
		animate:   cfg.AnimateRolls,
		animation: 600 * time.Millisecond,
	}
}

// Handle executa uma linha. Devolve true quando o jogador pediu para sair.
func (h *Handler) Handle(line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	command := strings.ToLower(strings.TrimPrefix(args[0], "!"))
	args = args[1:]

	switch command {
	case "help", "ajuda", "?":
		h.CmdHelp()
	case "add", "join":
		h.CmdAdd(args)
	case "remove", "kick":
		h.CmdRemove(args)
	case "deposit", "depositar":
		h.CmdDeposit(args)
	case "bet", "apostar":
		h.CmdBet(args)
	case "betall", "bets":
		h.CmdBetAll(args)
	case "roll", "r", "rolar":
		h.CmdRoll(args)
	case "players", "list", "table":
		h.CmdPlayers()
	case "leaderboard", "lb", "top":
		h.CmdLeaderboard()
	case "history", "rounds":
		h.CmdHistory()
	case "reset", "again":
		h.CmdReset()
	case "quit", "exit", "q":
		h.println(pterm.LightCyan("Thanks for playing!"))
		return true
	default:
		h.println(utils.ErrorPanel(fmt.Sprintf("Unknown command %q. Type help to see the commands.", command)))
	}
	return false
}

// Run lê comandos de in até quit, fim da entrada ou cancelamento do contexto.
func (h *Handler) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	errs := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
		errs <- scanner.Err()
		close(lines)
	}()

	h.prompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-errs
			}
			if h.Handle(line) {
				return nil
			}
			h.prompt()
		}
	}
}

func (h *Handler) prompt() {
	who := "table"
	if name, ok := h.table.CurrentPlayer(); ok {
		who = name
	}
	fmt.Fprintf(h.out, "%s > ", pterm.LightMagenta(who))
}

func (h *Handler) println(s string) {
	fmt.Fprintln(h.out, s)
}

func (h *Handler) fail(err error) {
	h.println(utils.ErrorPanel(err.Error()))
}

// splitAmount separa "<name...> <amount>".
func splitAmount(args []string) (string, int, error) {
	if len(args) < 2 {
		return "", 0, fmt.Errorf("usage: <player> <amount>")
	}
	amount, err := parseAmount(args[len(args)-1])
	if err != nil {
		return "", 0, err
	}
	return strings.Join(args[:len(args)-1], " "), amount, nil
}

func parseAmount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("amount must be a valid number, got %q", s)
	}
	return n, nil
}
