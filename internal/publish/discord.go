package publish

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Discord publishes spin artifacts into the session's home channel. The
// session id handed to PublishFrame is the Discord channel id; the game
// core never sees any other part of the platform API.
type Discord struct {
	session *discordgo.Session

	mu           sync.Mutex
	placeholders map[string]string // channel id -> placeholder message id
}

func NewDiscord(session *discordgo.Session) *Discord {
	return &Discord{
		session:      session,
		placeholders: make(map[string]string),
	}
}

func (d *Discord) PublishFrame(ctx context.Context, sessionID string, a Artifact) error {
	switch a.Kind {
	case KindPlaceholder, KindError:
		msg, err := d.session.ChannelMessageSend(sessionID, a.Note, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("publish %s: %w", a.Kind, err)
		}
		if a.Kind == KindPlaceholder {
			d.mu.Lock()
			d.placeholders[sessionID] = msg.ID
			d.mu.Unlock()
		}
		return nil
	}

	_, err := d.session.ChannelMessageSendComplex(sessionID, &discordgo.MessageSend{
		Content: a.Note,
		Files: []*discordgo.File{{
			Name:        a.Filename,
			ContentType: a.MIME,
			Reader:      bytes.NewReader(a.Data),
		}},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("publish %s: %w", a.Kind, err)
	}

	// The final artifact replaces the placeholder; removing it is best
	// effort only.
	d.mu.Lock()
	placeholderID, ok := d.placeholders[sessionID]
	delete(d.placeholders, sessionID)
	d.mu.Unlock()
	if ok {
		if derr := d.session.ChannelMessageDelete(sessionID, placeholderID, discordgo.WithContext(ctx)); derr != nil {
			log.Printf("publish: failed to delete placeholder in %s: %v", sessionID, derr)
		}
	}
	return nil
}
