package usecase

import (
	"fmt"
	"strings"

	"github.com/wyg1997/ActionsBot/internal/domain"
)

const (
	msgUnauthorized         = "⛔ You are not authorized to use this bot."
	msgUnauthorizedCallback = "⛔ You are not authorized to perform this action."
	msgStarting             = "🔄 Starting %s instance..."
	defaultUserName         = "User"
)

func welcomeText(userName string) string {
	return fmt.Sprintf("👋 *Welcome %s!*\n\n"+
		"🚀 *Neko Actions Bot* - Deploy remote desktop instances on demand\n\n"+
		"This bot allows you to deploy containerized desktop environments (browsers, VLC, KDE, etc.) using GitHub Actions.\n\n"+
		"Use the buttons below to get started:", userName)
}

func helpText(repo string) string {
	return "📖 *User Guide*\n\n" +
		"*How to Use:*\n" +
		"1️⃣ Choose a browser or desktop environment\n" +
		"2️⃣ Send the command (e.g., `/chrome`)\n" +
		"3️⃣ Wait for deployment (takes ~1-2 minutes)\n" +
		"4️⃣ Receive connection details via message\n" +
		"5️⃣ Click *Cancel* button to stop the instance\n\n" +
		"*Available Commands:*\n" +
		"• `/start` - Show welcome menu\n" +
		"• `/help` - Show this guide\n" +
		"• `/actionslist` - List all browser commands\n\n" +
		"*Instance Details:*\n" +
		"• Runtime: Up to 6 hours\n" +
		"• Access: Via Cloudflare Tunnel, Bore or LocalTunnel\n" +
		"• Auto-cleanup: Resources freed after stop\n" +
		"• Health checks: Every 5 minutes\n\n" +
		"*Troubleshooting:*\n" +
		"❌ If deployment fails, you'll receive an error message\n" +
		"🔄 Check GitHub Actions logs for details\n" +
		"⏱️ Cancel button works immediately\n\n" +
		fmt.Sprintf("💡 *Repository:* [GitHub](%s)", repoURL(repo))
}

func quickGuideText() string {
	return "📖 *Quick Guide*\n\n" +
		"*Steps:*\n" +
		"1️⃣ Send a command (e.g., `/chrome`)\n" +
		"2️⃣ Wait ~1-2 minutes for deployment\n" +
		"3️⃣ Receive connection URLs\n" +
		"4️⃣ Click *Cancel* to stop\n\n" +
		"*Runtime:* Up to 6 hours\n" +
		"*Access:* Cloudflare Tunnel, Bore or LocalTunnel\n" +
		"*Auto-cleanup:* Yes\n\n" +
		"Use `/help` for full documentation"
}

// commandBullets renders one bullet per table entry, in table order
func commandBullets(table *domain.CommandTable) string {
	entries := table.List()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("• `/%s`", e.Command))
	}
	return strings.Join(lines, "\n")
}

func actionsListText(table *domain.CommandTable) string {
	return "🎯 *Available Commands:*\n\n" +
		commandBullets(table) + "\n\n" +
		"*Usage:*\n" +
		"Simply type any command above to start an instance\n" +
		"Example: `/chrome` to start Google Chrome\n\n" +
		"To stop a running instance, click the *Cancel* button on the deployment message."
}

func commandMenuText(table *domain.CommandTable) string {
	return "🎯 *Available Commands:*\n\n" +
		commandBullets(table) + "\n\n" +
		"*Usage:*\n" +
		"Simply type any command above to start an instance\n" +
		"Example: `/chrome` to start Google Chrome"
}

func repoURL(repo string) string {
	return "https://github.com/" + repo
}
