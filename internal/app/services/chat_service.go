package services

import (
	"context"
	"errors"

	"github.com/nqanh/vku-student-manager/internal/app/models/dto"
	"github.com/nqanh/vku-student-manager/internal/pkg/apperrors"
	"github.com/nqanh/vku-student-manager/internal/pkg/openrouter"
	"github.com/rs/zerolog"
)

// Fixed replies shown to the user when the upstream model has nothing
// useful to say. The app is Vietnamese-facing, so these are too.
const (
	replyNoAnswer     = "Xin lỗi, tôi chưa có câu trả lời cho câu hỏi này."
	replyUpstreamDown = "Lỗi khi kết nối OpenRouter API."
)

// Completer produces one assistant reply for a conversation
type Completer interface {
	Complete(ctx context.Context, messages []openrouter.Message) (string, error)
}

// ChatService proxies assistant conversations to the language model
type ChatService struct {
	client Completer
	logger zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(client Completer, logger zerolog.Logger) *ChatService {
	return &ChatService{client: client, logger: logger}
}

// Send forwards the conversation and returns the assistant reply. An
// empty model reply becomes a fixed apology; a transport or upstream
// failure becomes a fixed error message wrapped in ErrChatUpstream so
// the handler can pick the status code.
func (s *ChatService) Send(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	messages := make([]openrouter.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openrouter.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := s.client.Complete(ctx, messages)
	if err != nil {
		if errors.Is(err, openrouter.ErrEmptyReply) {
			return &dto.ChatResponse{Reply: replyNoAnswer}, nil
		}
		s.logger.Error().Err(err).Msg("Chat completion failed")
		return nil, &apperrors.CustomError{Err: apperrors.ErrChatUpstream, Message: replyUpstreamDown}
	}

	if reply == "" {
		return &dto.ChatResponse{Reply: replyNoAnswer}, nil
	}

	return &dto.ChatResponse{Reply: reply}, nil
}
