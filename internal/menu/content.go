package menu

import (
	"context"

	"github.com/xaenox/blacksea-bot/internal/models"
)

// Button is one labeled action. Exactly one of Data (a trigger) or URL is set.
type Button struct {
	Text string
	Data string
	URL  string
}

func action(text, trigger string) Button { return Button{Text: text, Data: trigger} }

func link(text, url string) Button { return Button{Text: text, URL: url} }

// Content is a rendered screen. PhotoURL turns it into a captioned photo.
type Content struct {
	Text     string
	PhotoURL string
	Keyboard [][]Button
}

// Target identifies the message the interaction came from. A zero MessageID
// means there is nothing to replace.
type Target struct {
	ChatID    int64
	MessageID int
	HasMedia  bool
}

// Renderer puts content in front of the user. Implementations decide whether
// the target can be edited in place.
type Renderer interface {
	Render(ctx context.Context, target Target, content Content) error
}

// Request is one inbound trigger.
type Request struct {
	Trigger string
	User    models.User
	Target  Target
}
