package handler

import (
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/shopspring/decimal"
)

var errUsage = errors.New("usage")

// parseCommand splits "/name@bot args" into name and the raw argument text.
func parseCommand(text string) (name, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	if i := strings.IndexAny(head, "\n\t"); i >= 0 {
		rest = head[i:] + " " + rest
		head = head[:i]
	}
	head, _, _ = strings.Cut(head, "@")
	if head == "" {
		return "", "", false
	}
	return head, strings.TrimSpace(rest), true
}

// isCommand matches a text message carrying exactly the named command.
func isCommand(name string) bot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		got, _, ok := parseCommand(update.Message.Text)
		return ok && got == name
	}
}

type addTaskArgs struct {
	Link        string
	Description string
	Reward      decimal.Decimal
}

// parseAddTask reads "<link> <description...> <reward>".
func parseAddTask(args string) (addTaskArgs, error) {
	parts := strings.Fields(args)
	if len(parts) < 3 {
		return addTaskArgs{}, errUsage
	}

	reward, err := decimal.NewFromString(parts[len(parts)-1])
	if err != nil || !reward.IsPositive() {
		return addTaskArgs{}, domain.ErrInvalidAmount
	}

	return addTaskArgs{
		Link:        parts[0],
		Description: strings.Join(parts[1:len(parts)-1], " "),
		Reward:      reward,
	}, nil
}

// parseResetAmount reads a single non-negative amount.
func parseResetAmount(args string) (decimal.Decimal, error) {
	parts := strings.Fields(args)
	if len(parts) != 1 {
		return decimal.Zero, errUsage
	}
	amount, err := decimal.NewFromString(parts[0])
	if err != nil || amount.IsNegative() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return amount, nil
}
