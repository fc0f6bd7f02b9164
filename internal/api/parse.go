package api

import (
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/typechat/internal/errors"
	"github.com/diogo/typechat/internal/models"
)

// ParseHistory extracts the conversation history from a response body.
//
// A missing or null "conversations" key yields an empty history. A body that
// is not a JSON object, a "conversations" value that is not an array, or a
// conversation that is not an array is a ParseError. Messages with an unknown
// role are skipped and logged.
func ParseHistory(body []byte, logger *slog.Logger) (models.History, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, apierrors.NewParseError("expected a JSON object", "")
	}

	history := models.History{}
	convs := root.Get(PathConversations)
	if !convs.Exists() || convs.Type == gjson.Null {
		return history, nil
	}
	if !convs.IsArray() {
		return nil, apierrors.NewParseError("conversations is not an array", PathConversations)
	}

	for i, conv := range convs.Array() {
		path := fmt.Sprintf("%s.%d", PathConversations, i)
		if !conv.IsArray() {
			return nil, apierrors.NewParseError("conversation is not an array", path)
		}
		history = append(history, parseConversation(conv, path, logger))
	}
	return history, nil
}

func parseConversation(conv gjson.Result, path string, logger *slog.Logger) *models.Conversation {
	c := models.NewConversation()
	for i, msg := range conv.Array() {
		roleValue := msg.Get(PathMsgRole).String()
		role, ok := models.ParseRole(roleValue)
		if !ok {
			logger.Warn("skipping message with unknown role",
				"path", fmt.Sprintf("%s.%d", path, i), "role", roleValue)
			continue
		}

		content := msg.Get(PathMsgContent).String()
		if role == models.RoleUser {
			c.Append(models.NewUserMessage(content))
			continue
		}

		var categories []string
		for _, cat := range msg.Get(PathMsgCategories).Array() {
			categories = append(categories, cat.String())
		}
		c.Append(models.NewSystemMessage(content, categories))
	}
	return c
}
