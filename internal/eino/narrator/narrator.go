package narrator

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChartNarrator implements the pipeline's Narrator seam on top of an
// image-capable eino chat model. Each call assembles one multipart user
// message: the instruction text first, then every chart image inline as
// a base64 data URL.
type ChartNarrator struct {
	model model.BaseChatModel
}

func New(chatModel model.BaseChatModel) *ChartNarrator {
	return &ChartNarrator{model: chatModel}
}

func (n *ChartNarrator) Narrate(ctx context.Context, instruction string, images [][]byte) (string, error) {
	parts := make([]schema.ChatMessagePart, 0, len(images)+1)
	parts = append(parts, schema.ChatMessagePart{
		Type: schema.ChatMessagePartTypeText,
		Text: instruction,
	})
	for _, img := range images {
		parts = append(parts, schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeImageURL,
			ImageURL: &schema.ChatMessageImageURL{
				URL:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(img),
				MIMEType: "image/png",
			},
		})
	}

	msg := &schema.Message{
		Role:         schema.User,
		MultiContent: parts,
	}

	out, err := n.model.Generate(ctx, []*schema.Message{msg})
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	return out.Content, nil
}
