package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"subscriber-tracker/internal/config"
	"subscriber-tracker/internal/model"
	"subscriber-tracker/internal/repository"
	"subscriber-tracker/internal/service"
)

// sender is the slice of the Telegram API the bot needs for outgoing messages.
// *tgbotapi.BotAPI satisfies it; tests substitute a recorder.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot watches one group chat for join events, logs them and notifies the admin.
type Bot struct {
	api    *tgbotapi.BotAPI
	sender sender
	store  repository.JoinStore
	report *service.ReportService
	digest *service.DigestService
	cfg    *config.Config
	loc    *time.Location
	now    func() time.Time
}

func New(token string, store repository.JoinStore, report *service.ReportService, digest *service.DigestService, cfg *config.Config, loc *time.Location) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:    api,
		sender: api,
		store:  store,
		report: report,
		digest: digest,
		cfg:    cfg,
		loc:    loc,
		now:    func() time.Time { return time.Now().In(loc) },
	}, nil
}

// Start begins polling updates until ctx is cancelled. Chat member updates
// are not delivered unless requested explicitly in allowed_updates.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updateConfig.AllowedUpdates = []string{
		tgbotapi.UpdateTypeMessage,
		tgbotapi.UpdateTypeChatMember,
	}
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.ChatMember != nil:
			if err := b.handleChatMember(ctx, update.ChatMember); err != nil {
				log.Printf("handle chat member: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

// handleChatMember runs the join pipeline: filter chat, classify the
// transition, append to the store, notify the admin.
func (b *Bot) handleChatMember(ctx context.Context, upd *tgbotapi.ChatMemberUpdated) error {
	if upd.Chat.ID != b.cfg.ChatID {
		return nil
	}

	oldStatus := model.MemberStatus(upd.OldChatMember.Status)
	newStatus := model.MemberStatus(upd.NewChatMember.Status)
	if !model.IsJoin(oldStatus, newStatus) {
		return nil
	}

	user := upd.NewChatMember.User
	if user == nil {
		return nil
	}

	now := b.now()
	fullName := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	rec := model.NewJoinRecord(now, user.ID, user.UserName, fullName)

	log.Printf("[info] new subscriber: %s (%d)", rec.FullName, rec.UserID)

	storeStatus := "✅ Сохранено"
	if err := b.store.Append(ctx, rec); err != nil {
		log.Printf("append join record: %v", err)
		storeStatus = "❌ Не сохранено: " + html.EscapeString(err.Error())
	}

	username := ""
	if rec.Username != "" {
		username = " (@" + html.EscapeString(rec.Username) + ")"
	}
	text := fmt.Sprintf(
		"🔔 <b>Новый подписчик!</b>\n👤 %s%s\n🆔 <code>%d</code>\n📅 %s\n<i>%s</i>",
		html.EscapeString(rec.FullName), username, rec.UserID,
		now.Format("02.01.2006 15:04:05"), storeStatus,
	)

	if err := b.sendText(b.cfg.AdminID, text); err != nil {
		log.Printf("notify admin: %v", err)
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil || !msg.IsCommand() {
		return nil
	}

	log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		return b.sendText(msg.Chat.ID,
			"👋 Я считаю новых подписчиков группы.\n\nКоманды:\n"+
				"• /report &lt;начало&gt; &lt;конец&gt; — сколько вступило за период (даты в формате ДД.ММ или ДД.ММ.ГГГГ)\n"+
				"• /help — подсказки")
	case "report":
		return b.handleReport(msg)
	default:
		return b.sendText(msg.Chat.ID, "Команда не поддерживается. Загляни в /help.")
	}
}

func (b *Bot) handleReport(msg *tgbotapi.Message) error {
	if msg.From.ID != b.cfg.AdminID {
		return b.sendText(msg.Chat.ID, "⛔ Отчёты доступны только администратору.")
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 {
		return b.sendText(msg.Chat.ID, "Использование: /report &lt;начало&gt; &lt;конец&gt;, например /report 01.05 15.05")
	}

	text, err := b.report.BuildReport(args[0], args[1], b.now())
	if err != nil {
		return b.sendText(msg.Chat.ID, "⚠️ "+html.EscapeString(err.Error()))
	}
	return b.sendText(msg.Chat.ID, text)
}

// NotifyStartup pings the store and tells the admin the bot restarted.
func (b *Bot) NotifyStartup(ctx context.Context) {
	text := "🤖 Бот перезапущен. 🟢 Хранилище: ОК"
	if err := b.store.Ping(ctx); err != nil {
		log.Printf("storage ping: %v", err)
		text = "🤖 Бот перезапущен. 🔴 ОШИБКА хранилища: " + html.EscapeString(err.Error())
	}
	if err := b.sendText(b.cfg.AdminID, text); err != nil {
		log.Printf("startup notice: %v", err)
	}
}

// SendDigest delivers the daily summary to the admin. Wired to the scheduler
// in main; safe to call directly.
func (b *Bot) SendDigest() {
	if err := b.sendText(b.cfg.AdminID, b.digest.Build(b.now())); err != nil {
		log.Printf("send digest: %v", err)
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.sender.Send(msg)
	return err
}
