package activity

import "context"

type interactionKey struct{}

// WithInteractionID tags ctx with the correlation id of one inbound update.
func WithInteractionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, interactionKey{}, id)
}

func InteractionID(ctx context.Context) string {
	id, _ := ctx.Value(interactionKey{}).(string)
	return id
}
