package notifier

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/nefeygt/wowscraper/internal/domain/entity"
	"github.com/nefeygt/wowscraper/pkg/contextx"
	"github.com/nefeygt/wowscraper/pkg/logx"
	"github.com/nefeygt/wowscraper/pkg/moneyfmt"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type ItemResolver interface {
	GetByID(ctx context.Context, id int64) (entity.Item, error)
}

type RealmResolver interface {
	GetByID(ctx context.Context, id int64) (entity.Realm, error)
}

// TelegramBot pushes freshly found deals into a chat.
type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
	items  ItemResolver
	realms RealmResolver
}

func NewTelegramBot(token string, chatID int64, items ItemResolver, realms RealmResolver) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
		items:  items,
		realms: realms,
	}, nil
}

// Run consumes deals until the channel closes or the context is cancelled.
func (b *TelegramBot) Run(ctx context.Context, deals <-chan entity.Deal) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case deal, ok := <-deals:
			if !ok {
				return nil
			}
			if err := b.SendDeal(ctx, deal); err != nil {
				logger(ctx).Error("failed to send deal", logx.Error(err))
			}
		}
	}
}

func (b *TelegramBot) SendDeal(ctx context.Context, deal entity.Deal) error {
	text := fmt.Sprintf(
		"🔥 <b>CROSS-REALM DEAL</b>\n\n"+
			"⚔️ <b>Item:</b> %s\n"+
			"💰 <b>Buy:</b> %s on %s\n"+
			"💸 <b>Sell:</b> %s on %s\n"+
			"📊 <b>Ratio:</b> %.1fx",
		b.itemName(ctx, deal.ItemID),
		moneyfmt.Copper(deal.MinPrice),
		b.realmName(ctx, deal.MinRealmID),
		moneyfmt.Copper(deal.MaxPrice),
		b.realmName(ctx, deal.MaxRealmID),
		deal.Ratio,
	)

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText sends a plain text message.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}

// itemName falls back to the raw id when the item was never enriched.
func (b *TelegramBot) itemName(ctx context.Context, id int64) string {
	item, err := b.items.GetByID(ctx, id)
	if err != nil || item.Name == "" {
		return "item " + strconv.FormatInt(id, 10)
	}
	return item.Name
}

func (b *TelegramBot) realmName(ctx context.Context, id int64) string {
	realm, err := b.realms.GetByID(ctx, id)
	if err != nil || realm.Name == "" {
		return "realm " + strconv.FormatInt(id, 10)
	}
	return realm.Name
}
