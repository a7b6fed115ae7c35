package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/set-night/taskfaucet/internal/domain"
	tg "github.com/set-night/taskfaucet/internal/telegram"
	"github.com/shopspring/decimal"
)

const (
	textGenericError = "❌ An error occurred. Please try again."
	textNoTasks      = "📭 No tasks available at the moment.\n\nCheck back later for new earning opportunities! 💫"
	textSpam         = "🚨 *Spam detected!*\n\nYou clicked verify too fast. Your balance has been reset to 0."
	textClaimUsage   = "❌ Please provide your TON wallet address:\n\n/claim <your\\_wallet\\_address>"

	textAddTaskUsage = "📝 *Add New Task*\n\n" +
		"Format: /add\\_task <link> <description> <reward>\n\n" +
		"📌 Example:\n" +
		"/add\\_task https://t.me/channel Join our Telegram channel 0.05\n\n" +
		"🔗 Link must start with http/https\n" +
		"💰 Reward must be a number"
	textBroadcastUsage = "📣 *Broadcast Message*\n\n" +
		"Format: /broadcast <message>\n\n" +
		"Example: /broadcast New tasks are available! Go check them out now. 🚀"
	textResetUsage = "🔄 *Reset All Balances*\n\n" +
		"⚠️ This will set the balance of *all users* to a specified amount.\n\n" +
		"Format: /admin\\_reset\\_all\\_balances <amount>\n\n" +
		"Example: /admin\\_reset\\_all\\_balances 0"
	textHowItWorks = "Need help? Here's how it works:\n\n" +
		"1. 🎯 Complete tasks from the Tasks menu\n" +
		"2. 💰 Earn TON for each completed task\n" +
		"3. 🚀 Claim your TON to your wallet\n\n" +
		"Start by clicking \"Complete Tasks\"!"
)

func welcomeText(u *domain.User, balance, faucet decimal.Decimal, tasks int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✨ *Welcome to TON Faucet, %s!* ✨\n\n", tg.EscapeMarkdown(u.DisplayName()))
	fmt.Fprintf(&sb, "💎 *Your Balance:* %s TON\n", tg.FormatAmount(balance))
	fmt.Fprintf(&sb, "🏦 *Faucet Balance:* %s TON\n", tg.FormatAmount(faucet))
	fmt.Fprintf(&sb, "📋 *Available Tasks:* %d\n\n", tasks)
	sb.WriteString("🎯 *Complete tasks → Earn TON → Claim rewards!*")
	if u.IsAdmin {
		sb.WriteString("\n\n👑 *Administrator Access Granted*")
	}
	return sb.String()
}

func helpText(isAdmin bool) string {
	text := "💡 *TON Faucet Help*\n\n" +
		"🎯 Complete tasks to earn TON\n" +
		"💰 Claim your earned TON to your wallet\n" +
		"📊 Track your progress and statistics\n\n" +
		"*Main Commands:*\n" +
		"/start - Welcome message\n" +
		"/claim <address> - Claim TON\n" +
		"/help - This message"
	if isAdmin {
		text += "\n\n*Admin Commands:*\n" +
			"/admin - Admin panel\n" +
			"/add\\_task - Add new task\n" +
			"/broadcast - Send message to all users\n" +
			"/manage\\_tasks - Delete tasks\n" +
			"/stats - System statistics\n" +
			"/admin\\_reset\\_all\\_balances - Reset all balances"
	}
	return text
}

func profileText(p domain.Profile) string {
	next := "Ready!"
	if p.CooldownMinutes > 0 {
		next = fmt.Sprintf("%d minutes", p.CooldownMinutes)
	}
	return fmt.Sprintf("👤 *Your Profile*\n\n"+
		"💎 Balance: *%s TON*\n"+
		"🏆 Tasks Completed: *%d*\n"+
		"💰 Total Earned: *%s TON*\n"+
		"⏰ Next Claim: *%s*\n\n"+
		"Keep completing tasks to earn more TON! 🚀",
		tg.FormatAmount(p.Balance), p.TasksCompleted, tg.FormatAmount(p.TotalEarned), next)
}

func statisticsText(st domain.Stats) string {
	return fmt.Sprintf("📊 *Faucet Statistics*\n\n"+
		"👥 Total Users: *%d*\n"+
		"💰 Total Distributed: *%s TON*\n"+
		"✅ Tasks Completed: *%d*\n"+
		"🏦 Current Balance: *%s TON*\n"+
		"📋 Active Tasks: *%d*",
		st.Users, tg.FormatAmount(st.TotalDistributed), st.TasksCompleted, tg.FormatAmount(st.FaucetBalance), st.ActiveTasks)
}

func adminStatsText(st domain.Stats) string {
	return fmt.Sprintf("📊 *Admin Statistics*\n\n"+
		"👥 Total Users: %d\n"+
		"🔥 Active Users: %d\n"+
		"💰 Total Distributed: %s TON\n"+
		"✅ Tasks Completed: %d\n"+
		"🏦 Faucet Balance: %s TON\n"+
		"📋 Active Tasks: %d\n\n"+
		"📈 *Average per User:*\n"+
		"• %s TON\n"+
		"• %.1f tasks",
		st.Users, st.ActiveUsers, tg.FormatAmount(st.TotalDistributed), st.TasksCompleted,
		tg.FormatAmount(st.FaucetBalance), st.ActiveTasks, tg.FormatAmount(st.AvgDistributed()), st.AvgTasks())
}

func adminPanelText(users int64, tasks int, faucet decimal.Decimal) string {
	return fmt.Sprintf("👑 *Admin Panel*\n\n"+
		"📊 Quick Stats:\n"+
		"• Users: %d\n"+
		"• Tasks: %d\n"+
		"• Balance: %s TON\n\n"+
		"⚙️ *Management Options:*",
		users, tasks, tg.FormatAmount(faucet))
}

func taskListText(count int, balance decimal.Decimal) string {
	return fmt.Sprintf("🎯 *Available Tasks*\n\n"+
		"Complete tasks to earn TON! Click on any task below to view details and start earning. 💰\n\n"+
		"*Total Tasks:* %d\n"+
		"*Your Balance:* %s TON",
		count, tg.FormatAmount(balance))
}

func taskDetailText(t *domain.Task, completed bool) string {
	status := "🔄 Available"
	if completed {
		status = "✅ Completed"
	}

	var sb strings.Builder
	sb.WriteString("📋 *Task Details*\n\n")
	fmt.Fprintf(&sb, "✨ *%s*\n\n", tg.EscapeMarkdown(t.Name))
	fmt.Fprintf(&sb, "💰 Reward: *%s TON*\n", tg.FormatAmount(t.Reward))
	fmt.Fprintf(&sb, "📊 Status: *%s*", status)
	if t.Link != "" {
		fmt.Fprintf(&sb, "\n\n🔗 %s", tg.EscapeMarkdown(t.Link))
		if t.LinkTitle != "" {
			fmt.Fprintf(&sb, "\n_%s_", tg.EscapeMarkdown(t.LinkTitle))
		}
	}
	fmt.Fprintf(&sb, "\n\n📝 *Description:*\n%s\n\n", tg.EscapeMarkdown(t.Description))
	if completed {
		sb.WriteString("You've already completed this task! 🎉")
	} else {
		fmt.Fprintf(&sb, "Click the button below to verify and earn %s TON!", tg.FormatAmount(t.Reward))
	}
	return sb.String()
}

func verifyingText(t *domain.Task) string {
	return fmt.Sprintf("⏳ Verifying your task completion...\n\n"+
		"Please wait while we verify that you've completed:\n\"*%s*\"\n\n"+
		"This usually takes 5-10 seconds... ⏰",
		tg.EscapeMarkdown(t.Name))
}

func verifiedText(res *domain.CompletionResult) string {
	return fmt.Sprintf("🎉 *Task Verified Successfully!*\n\n"+
		"✅ Completed: *%s*\n"+
		"💰 Earned: *%s TON*\n"+
		"💎 New Balance: *%s TON*\n\n"+
		"Keep completing tasks to earn more! 🚀",
		tg.EscapeMarkdown(res.Task.Name), tg.FormatAmount(res.Task.Reward), tg.FormatAmount(res.NewBalance))
}

func claimPromptText(balance decimal.Decimal) string {
	return fmt.Sprintf("💰 *Claim Your TON!*\n\n"+
		"Your Balance: *%s TON*\n\n"+
		"To claim, send your TON wallet address:\n\n"+
		"👇 Example:\n"+
		"/claim UQBv....x4k2\n\n"+
		"📍 *Make sure it's a valid TON address!*",
		tg.FormatAmount(balance))
}

func sendingText(amount decimal.Decimal) string {
	return fmt.Sprintf("🚀 *Sending %s TON...*\n\n"+
		"⏳ Processing your transaction...\n"+
		"This may take a few moments.",
		tg.FormatAmount(amount))
}

func claimSuccessText(r *domain.Receipt) string {
	return fmt.Sprintf("✅ *Success! %s TON Sent!*\n\n"+
		"📍 To: `%s`\n"+
		"📊 [View Transaction](%s)\n\n"+
		"🎯 Complete more tasks to earn more TON!",
		tg.FormatAmount(r.Amount), r.Address, r.ExplorerURL)
}

func taskAddedText(t *domain.Task) string {
	return fmt.Sprintf("✅ *Task Added Successfully!*\n\n"+
		"📝 %s\n"+
		"💰 %s TON Reward\n"+
		"🔗 %s\n\n"+
		"Users can now complete this task to earn TON! 🎯",
		tg.EscapeMarkdown(t.Name), tg.FormatAmount(t.Reward), tg.EscapeMarkdown(t.Link))
}

func taskDeletedText(t *domain.Task) string {
	return fmt.Sprintf("✅ *Task Deleted Successfully!*\n\n"+
		"🗑️ \"%s\" has been removed from the task list.\n\n"+
		"Users will no longer see this task.",
		tg.EscapeMarkdown(t.Name))
}

func broadcastResultText(r domain.BroadcastResult) string {
	return fmt.Sprintf("✅ *Broadcast Complete!*\n\n"+
		"📦 Total Users: %d\n"+
		"🚀 Successfully Sent: %d\n"+
		"❌ Failed: %d",
		r.Total, r.Sent, r.Failed)
}

func resetDoneText(count int, amount decimal.Decimal) string {
	return fmt.Sprintf("✅ *Balances Reset Complete!*\n\n"+
		"📦 Total %d user balances set to *%s TON*.",
		count, tg.FormatAmount(amount))
}

// errorText turns a failed operation into the message shown to the user.
func errorText(err error) string {
	var cooldown *domain.CooldownError
	var funds *domain.InsufficientFundsError
	var transfer *domain.TransferError

	switch {
	case errors.As(err, &cooldown):
		return fmt.Sprintf("⏰ *Cooldown Active*\n\n"+
			"Please wait *%d minutes* before claiming again.\n\n"+
			"You can still complete tasks while waiting! 🎯", cooldown.RemainingMinutes)
	case errors.As(err, &funds):
		return fmt.Sprintf("❌ Faucet low on funds!\n\n"+
			"Current balance: %s TON\n"+
			"Required: %s TON\n\n"+
			"Please try again later.", tg.FormatAmount(funds.Available), tg.FormatAmount(funds.Required))
	case errors.As(err, &transfer):
		return fmt.Sprintf("❌ *Transaction Failed*\n\nError: %s\n\nPlease try again later.",
			tg.EscapeMarkdown(transfer.Err.Error()))
	case errors.Is(err, domain.ErrNothingToClaim):
		return "💸 *No TON to Claim*\n\n" +
			"You need to complete tasks first to earn TON!\n\n" +
			"📋 Check out available tasks to start earning. 💰"
	case errors.Is(err, domain.ErrInvalidAddress):
		return "❌ Invalid TON address!\n\nPlease make sure you entered a valid TON wallet address."
	case errors.Is(err, domain.ErrClaimInProgress):
		return "⏳ Your previous claim is still being processed. Please wait."
	case errors.Is(err, domain.ErrTaskNotFound):
		return "❌ Task not found or has been deleted"
	case errors.Is(err, domain.ErrTaskAlreadyDone):
		return "✅ You have already completed this task!"
	case errors.Is(err, domain.ErrSpamDetected):
		return textSpam
	case errors.Is(err, domain.ErrInvalidLink):
		return "❌ Please provide a valid http/https link"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "❌ Amount must be a valid number"
	case errors.Is(err, domain.ErrEmptyText):
		return "❌ Text must not be empty"
	default:
		return textGenericError
	}
}
