package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/Badsnus/campus-hub/pkg/logger/types"
	"go.uber.org/zap/zapcore"
	tele "gopkg.in/telebot.v3"
)

const sendFailure = "failed to send log to channel"

type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// LogHook forwards entries at or above level to a Telegram channel.
func LogHook(token string, channelID int64, level zapcore.Level, logger *types.Logger) (types.LogHook, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:     token,
		Offline:   true,
		ParseMode: tele.ModeHTML,
	})
	if err != nil {
		return nil, err
	}
	return newHook(bot, channelID, level, logger), nil
}

func newHook(bot sender, channelID int64, level zapcore.Level, logger *types.Logger) types.LogHook {
	chat := &tele.Chat{ID: channelID}
	return func(log types.Log) {
		if log.Level < level || strings.Contains(log.Message, sendFailure) {
			return
		}
		if _, err := bot.Send(chat, formatLog(log)); err != nil {
			logger.Errorf("%s %d: %v", sendFailure, channelID, err)
		}
	}
}

func formatLog(log types.Log) string {
	return fmt.Sprintf("<b>%s</b> [%s] %s\n<code>%s</code>\n%s",
		log.Level.CapitalString(),
		html.EscapeString(log.LoggerName),
		log.Timestamp.Format("2006-01-02 15:04:05"),
		html.EscapeString(log.Caller),
		html.EscapeString(log.Message),
	)
}
