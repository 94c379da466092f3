package services

import (
	"context"
	"errors"
	"testing"

	"github.com/nqanh/vku-student-manager/internal/app/models/dto"
	"github.com/nqanh/vku-student-manager/internal/pkg/apperrors"
	"github.com/nqanh/vku-student-manager/internal/pkg/openrouter"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply string
	err   error
	got   []openrouter.Message
}

func (f *fakeCompleter) Complete(_ context.Context, messages []openrouter.Message) (string, error) {
	f.got = messages
	return f.reply, f.err
}

func TestChatForwardsConversation(t *testing.T) {
	completer := &fakeCompleter{reply: "Chào bạn!"}
	svc := NewChatService(completer, zerolog.Nop())

	resp, err := svc.Send(context.Background(), &dto.ChatRequest{Messages: []dto.ChatMessage{
		{Role: "system", Content: "You are a helpful assistant."},
		{Role: "user", Content: "Xin chào"},
	}})
	require.NoError(t, err)

	assert.Equal(t, "Chào bạn!", resp.Reply)
	require.Len(t, completer.got, 2)
	assert.Equal(t, "user", completer.got[1].Role)
}

func TestChatEmptyReplyBecomesFixedApology(t *testing.T) {
	svc := NewChatService(&fakeCompleter{err: openrouter.ErrEmptyReply}, zerolog.Nop())

	resp, err := svc.Send(context.Background(), &dto.ChatRequest{Messages: []dto.ChatMessage{
		{Role: "user", Content: "?"},
	}})
	require.NoError(t, err)

	assert.Equal(t, replyNoAnswer, resp.Reply)
}

func TestChatUpstreamFailure(t *testing.T) {
	svc := NewChatService(&fakeCompleter{err: errors.New("status 429")}, zerolog.Nop())

	_, err := svc.Send(context.Background(), &dto.ChatRequest{Messages: []dto.ChatMessage{
		{Role: "user", Content: "?"},
	}})

	assert.ErrorIs(t, err, apperrors.ErrChatUpstream)
	assert.Equal(t, replyUpstreamDown, err.Error())
}
